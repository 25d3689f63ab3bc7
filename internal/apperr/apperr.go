// Package apperr provides coded domain errors that handlers translate into HTTP responses.
//
//	if errors.Is(err, apperr.ErrNotFound) { ... }
//
//	var e *apperr.Error
//	if errors.As(err, &e) { status := e.Code.HTTPStatus() }
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeNotFound      Code = "not_found"
	CodeAlreadyExists Code = "already_exists"
	CodeValidation    Code = "validation"
	CodeUnauthorized  Code = "unauthorized"
	CodeInternal      Code = "internal"
)

func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists:
		return http.StatusConflict
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Code    Code              `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on code so errors.Is(err, apperr.ErrNotFound) works for any not-found error.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrNotFound      = &Error{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyExists = &Error{Code: CodeAlreadyExists, Message: "already exists"}
	ErrValidation    = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrUnauthorized  = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
)

func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func AlreadyExists(msg string, err error) *Error {
	return &Error{Code: CodeAlreadyExists, Message: msg, Err: err}
}

func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

func ValidationWithDetails(msg string, details map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

// CodeOf returns the code carried by err, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
