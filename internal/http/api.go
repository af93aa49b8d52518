package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"socialhub/internal/service"
	"socialhub/internal/session"
	"socialhub/internal/storage"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID int64, ttl time.Duration) (string, error)
}

// SessionResolver turns a request into the caller's identity.
type SessionResolver interface {
	Resolve(r *http.Request, opts ...session.ResolveOption) (session.Identity, error)
}

// Options tunes cookie and CORS behaviour.
type Options struct {
	TokenTTL       time.Duration
	CookieSecure   bool
	AllowedOrigins []string
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	messages service.MessageService
	tokens   TokenIssuer
	sessions SessionResolver
	storage  storage.Service
	opts     Options
	logger   logrus.FieldLogger
}

// NewHandler builds the HTTP handler. store may be nil when object storage
// is not configured; profile image references are then returned as stored.
func NewHandler(
	users service.UserService,
	messages service.MessageService,
	tokens TokenIssuer,
	sessions SessionResolver,
	store storage.Service,
	opts Options,
	logger logrus.FieldLogger,
) *Handler {
	return &Handler{
		users:    users,
		messages: messages,
		tokens:   tokens,
		sessions: sessions,
		storage:  store,
		opts:     opts,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger))
	router.Use(corsMiddleware(h.opts.AllowedOrigins))

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		auth := api.Group("/auth")
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.POST("/logout", h.logout)

		self := auth.Group("", h.requireSession())
		self.GET("", h.currentUser)
		self.PUT("", h.updateCurrentUser)
		self.DELETE("", h.deleteCurrentUser)

		api.GET("/users", h.lookupUsers)
		api.GET("/users/:id", h.getUser)
		api.GET("/users/by-name/:name", h.findUser)

		// message routes stamp last_active_at, which drives online status
		messages := api.Group("/messages", h.requireSession(session.WithActivityTouch()))
		messages.GET("/recent", h.recentConversations)
		messages.GET("/:name", h.conversation)
		messages.POST("/:name", h.sendMessage)
	}
}

func corsMiddleware(allowed []string) gin.HandlerFunc {
	origins := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		origins[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := origins[origin]; ok && origin != "" {
			// session cookies need credentialed CORS, which forbids "*"
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
			c.Writer.Header().Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// objectURL turns a stored profile image reference into something a browser can load.
func (h *Handler) objectURL(ctx context.Context, ref string) string {
	if h.storage == nil || !storage.IsObjectKey(ref) {
		return ref
	}
	url, err := h.storage.ObjectURL(ctx, ref)
	if err != nil {
		h.logger.WithError(err).WithField("key", ref).Warn("presign profile image")
		return ""
	}
	return url
}
