// Package token issues and verifies the signed session tokens carried in the
// session cookie. Tokens are HS256 JWTs whose only application claim is the
// user id; validity is decided by signature and expiry alone.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrMissingSecret is a configuration error: the signing secret is empty.
	ErrMissingSecret = errors.New("token signing secret is not configured")
	// ErrInvalidToken covers malformed, unsigned, tampered and foreign tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned once the token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the token payload.
type Claims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with a server-held secret.
type Codec struct {
	secret []byte
	now    func() time.Time
}

type Option func(*Codec)

// WithClock overrides the time source used for iat/exp and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

func NewCodec(secret []byte, opts ...Option) (*Codec, error) {
	if len(strings.TrimSpace(string(secret))) == 0 {
		return nil, ErrMissingSecret
	}
	c := &Codec{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs a token for userID that expires after ttl.
func (c *Codec) Issue(userID int64, ttl time.Duration) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("issue token: invalid user id %d", userID)
	}
	if ttl <= 0 {
		return "", fmt.Errorf("issue token: ttl must be positive, got %s", ttl)
	}

	now := c.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry(now, ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// expiry rounds now+ttl up to a whole second, the precision of the exp
// claim, so a token is never issued already expired.
func expiry(now time.Time, ttl time.Duration) time.Time {
	exp := now.Add(ttl)
	if whole := exp.Truncate(time.Second); whole.Before(exp) {
		return whole.Add(time.Second)
	}
	return exp
}

// Verify checks signature and expiry and returns the claims. Every failure
// is either ErrTokenExpired or ErrInvalidToken.
func (c *Codec) Verify(tokenString string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (any, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.UserID <= 0 {
		return Claims{}, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	return claims, nil
}
