package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"socialhub/internal/session"
)

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	// Max-Age is whole seconds, rounded up like the token exp
	maxAge := int((h.opts.TokenTTL + time.Second - 1) / time.Second)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, token, maxAge, "/", "", h.secureRequest(c), true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", h.secureRequest(c), true)
}

// secureRequest reports whether the client reached us over TLS, directly or
// through a TLS-terminating proxy.
func (h *Handler) secureRequest(c *gin.Context) bool {
	if h.opts.CookieSecure || c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}
