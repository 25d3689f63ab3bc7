package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"mall-site-backend/internal/apperr"
	"mall-site-backend/internal/logger"
)

type APIError struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// respondError writes the error envelope with the status carried by a coded error. Uncoded
// errors are logged and reported as internal.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	body := APIError{Message: "unknown error", Code: string(apperr.CodeInternal)}
	var e *apperr.Error
	if errors.As(err, &e) {
		body.Message = e.Message
		body.Code = string(e.Code)
		body.Details = e.Details
	} else if err != nil {
		body.Message = err.Error()
	}
	status := apperr.CodeOf(err).HTTPStatus()
	if status >= http.StatusInternalServerError && log != nil {
		log.Error("Request failed", "path", c.Request.URL.Path, "error", err)
	}
	_ = c.Error(err)
	c.JSON(status, ErrorEnvelope{Error: body})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{Message: msg, Code: string(apperr.CodeValidation)}})
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func wantsStream(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}

// startStream sets the headers for a server-sent event response. Events are written with
// c.SSEvent followed by c.Writer.Flush.
func startStream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
}

func sendEvent(c *gin.Context, name string, payload any) {
	c.SSEvent(name, payload)
	c.Writer.Flush()
}
