package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mall-site-backend/internal/apperr"
)

const issuer = "mall-site-backend"

type Claims struct {
	jwt.RegisteredClaims
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (ts *TokenService) TTL() time.Duration { return ts.ttl }

// Issue signs an HS256 access token for the admin user.
func (ts *TokenService) Issue(username string) (string, time.Time, error) {
	now := ts.now()
	expires := now.Add(ts.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// Verify returns the subject of a valid token.
func (ts *TokenService) Verify(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return ts.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(ts.now),
	)
	if err != nil {
		return "", apperr.Unauthorized("invalid or expired token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", apperr.Unauthorized("invalid or expired token")
	}
	return claims.Subject, nil
}
