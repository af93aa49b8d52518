package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"socialhub/internal/service"
	"socialhub/internal/session"
)

// statusFor maps an error to the HTTP status and the message safe to show
// the client.
func statusFor(err error) (int, string) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Reason
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, service.ErrDuplicateAccount):
		return http.StatusBadRequest, "User with this name or email already exists"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, session.ErrUnauthenticated):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, session.ErrIdentityNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Not found"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

func badRequest(reason string) error {
	return &service.ValidationError{Reason: reason}
}
