package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mall-site-backend/internal/logger"
)

// AdminSubjectKey holds the verified token subject on the gin context.
const AdminSubjectKey = "admin_subject"

type TokenVerifier interface {
	Verify(tokenString string) (string, error)
}

type AuthMiddleware struct {
	log    *logger.Logger
	tokens TokenVerifier
}

func NewAuthMiddleware(log *logger.Logger, tokens TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), tokens: tokens}
}

// RequireAdmin rejects requests without a valid bearer token.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		subject, err := am.tokens.Verify(tokenString)
		if err != nil {
			am.log.Debug("Rejected admin token", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": err.Error(), "code": "unauthorized"},
			})
			return
		}
		c.Set(AdminSubjectKey, subject)
		c.Next()
	}
}

// bearerToken reads the Authorization header, falling back to ?token= for EventSource clients
// that cannot set headers.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return c.Query("token")
}
