package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"mall-site-backend/internal/apperr"
)

// translateError maps driver errors onto apperr codes. Anything unrecognised is returned as is.
func translateError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(what + " not found")
	}
	if isUniqueViolation(err) {
		return apperr.AlreadyExists(what+" already exists", err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// Fallback: string match (covers wrapped errors that lose type info, and sqlite).
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "sqlstate 23505") || strings.Contains(msg, "unique constraint failed")
}
