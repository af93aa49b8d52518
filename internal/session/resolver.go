// Package session turns the session cookie of an inbound request into a
// verified user identity.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"socialhub/internal/domain"
	"socialhub/internal/repository"
	"socialhub/internal/token"
)

// CookieName is the name of the session cookie.
const CookieName = "token"

var (
	// ErrUnauthenticated means no usable session: the cookie is missing, or
	// the token is invalid or expired. The codec error stays wrapped so logs
	// can tell the causes apart.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrIdentityNotFound means the token is valid but its user no longer exists.
	ErrIdentityNotFound = errors.New("identity not found")
)

// Identity is the verified caller. Callers needing profile fields load them
// themselves.
type Identity struct {
	ID int64
}

// TokenVerifier is the part of the token codec the resolver needs.
type TokenVerifier interface {
	Verify(raw string) (token.Claims, error)
}

// UserStore is the part of the credential store the resolver needs.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	TouchActivity(ctx context.Context, id int64, at time.Time) error
}

type resolveOptions struct {
	touchActivity bool
}

type ResolveOption func(*resolveOptions)

// WithActivityTouch stamps last_active_at for the resolved user.
func WithActivityTouch() ResolveOption {
	return func(o *resolveOptions) {
		o.touchActivity = true
	}
}

type Resolver struct {
	tokens TokenVerifier
	users  UserStore
	now    func() time.Time
}

func NewResolver(tokens TokenVerifier, users UserStore) *Resolver {
	return &Resolver{
		tokens: tokens,
		users:  users,
		now:    time.Now,
	}
}

// Resolve reads the session cookie from r and returns the caller's identity.
func (s *Resolver) Resolve(r *http.Request, opts ...ResolveOption) (Identity, error) {
	var o resolveOptions
	for _, opt := range opts {
		opt(&o)
	}

	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Identity{}, fmt.Errorf("%w: session cookie missing", ErrUnauthenticated)
	}

	claims, err := s.tokens.Verify(cookie.Value)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	ctx := r.Context()
	if _, err := s.users.GetByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Identity{}, fmt.Errorf("%w: user %d", ErrIdentityNotFound, claims.UserID)
		}
		return Identity{}, fmt.Errorf("load session user: %w", err)
	}

	if o.touchActivity {
		if err := s.users.TouchActivity(ctx, claims.UserID, s.now()); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return Identity{}, fmt.Errorf("%w: user %d", ErrIdentityNotFound, claims.UserID)
			}
			return Identity{}, fmt.Errorf("touch session user: %w", err)
		}
	}

	return Identity{ID: claims.UserID}, nil
}

// FailureReason names the cause of a resolution failure for logging.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, token.ErrTokenExpired):
		return "expired"
	case errors.Is(err, token.ErrInvalidToken):
		return "invalid"
	case errors.Is(err, ErrIdentityNotFound):
		return "user_missing"
	case errors.Is(err, ErrUnauthenticated):
		return "missing"
	default:
		return "internal"
	}
}
