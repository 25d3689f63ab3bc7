package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mall-site-backend/internal/apperr"
	"mall-site-backend/internal/auth"
	"mall-site-backend/internal/logger"
)

type AuthHandler struct {
	log    *logger.Logger
	policy auth.Policy
	tokens *auth.TokenService
}

func NewAuthHandler(log *logger.Logger, policy auth.Policy, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), policy: policy, tokens: tokens}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var payload struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "username and password are required")
		return
	}
	if !h.policy.IsAuthorized(payload.Username, payload.Password) {
		h.log.Warn("Admin login rejected", "username", payload.Username, "client_ip", c.ClientIP())
		respondError(c, h.log, apperr.Unauthorized("invalid credentials"))
		return
	}

	token, expires, err := h.tokens.Issue(payload.Username)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.log.Info("Admin logged in", "username", payload.Username)
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"token_type": "Bearer",
		"expires_at": expires,
	})
}
