package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"socialhub/internal/session"
)

const identityKey = "identity"

// requireSession resolves the session cookie ahead of protected handlers.
func (h *Handler) requireSession(opts ...session.ResolveOption) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := h.sessions.Resolve(c.Request, opts...)
		if err != nil {
			h.logger.WithFields(logrus.Fields{
				"path":   c.FullPath(),
				"reason": session.FailureReason(err),
			}).Debug("session rejected")
			h.writeError(c, err)
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// identity returns the caller resolved by requireSession.
func identity(c *gin.Context) session.Identity {
	v, _ := c.Get(identityKey)
	id, _ := v.(session.Identity)
	return id
}

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start),
			"client_ip": c.ClientIP(),
		})
		if id := identity(c); id.ID != 0 {
			entry = entry.WithField("user_id", id.ID)
		}
		entry.Info("request")
	}
}
