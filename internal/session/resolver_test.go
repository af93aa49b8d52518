package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialhub/internal/domain"
	"socialhub/internal/repository"
	"socialhub/internal/token"
)

type fakeUsers struct {
	users   map[int64]*domain.User
	getErr  error
	touched map[int64]time.Time
}

func newFakeUsers(ids ...int64) *fakeUsers {
	f := &fakeUsers{users: map[int64]*domain.User{}, touched: map[int64]time.Time{}}
	for _, id := range ids {
		f.users[id] = &domain.User{ID: id}
	}
	return f
}

func (f *fakeUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) TouchActivity(ctx context.Context, id int64, at time.Time) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	f.touched[id] = at
	return nil
}

type testEnv struct {
	codec    *token.Codec
	users    *fakeUsers
	resolver *Resolver
	now      time.Time
}

func newEnv(t *testing.T, ids ...int64) *testEnv {
	t.Helper()
	env := &testEnv{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	codec, err := token.NewCodec([]byte("secret"), token.WithClock(func() time.Time { return env.now }))
	require.NoError(t, err)
	env.codec = codec
	env.users = newFakeUsers(ids...)
	env.resolver = NewResolver(codec, env.users)
	env.resolver.now = func() time.Time { return env.now }
	return env
}

func requestWithToken(tok string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
	if tok != "" {
		r.AddCookie(&http.Cookie{Name: CookieName, Value: tok})
	}
	return r
}

func TestResolve_Success(t *testing.T) {
	env := newEnv(t, 7)
	tok, err := env.codec.Issue(7, time.Hour)
	require.NoError(t, err)

	id, err := env.resolver.Resolve(requestWithToken(tok))
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: 7}, id)
	assert.Empty(t, env.users.touched, "activity is opt-in")
}

func TestResolve_MissingCookie(t *testing.T) {
	env := newEnv(t, 7)

	_, err := env.resolver.Resolve(requestWithToken(""))
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, "missing", FailureReason(err))
}

func TestResolve_InvalidToken(t *testing.T) {
	env := newEnv(t, 7)

	_, err := env.resolver.Resolve(requestWithToken("garbage"))
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
	assert.Equal(t, "invalid", FailureReason(err))
}

func TestResolve_ExpiredToken(t *testing.T) {
	env := newEnv(t, 7)
	tok, err := env.codec.Issue(7, time.Second)
	require.NoError(t, err)

	env.now = env.now.Add(2 * time.Second)
	_, err = env.resolver.Resolve(requestWithToken(tok))
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, err, token.ErrTokenExpired)
	assert.Equal(t, "expired", FailureReason(err))
}

func TestResolve_DeletedUser(t *testing.T) {
	env := newEnv(t, 7)
	tok, err := env.codec.Issue(7, time.Hour)
	require.NoError(t, err)

	delete(env.users.users, 7)
	_, err = env.resolver.Resolve(requestWithToken(tok))
	assert.ErrorIs(t, err, ErrIdentityNotFound)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, "user_missing", FailureReason(err))
}

func TestResolve_StoreError(t *testing.T) {
	env := newEnv(t, 7)
	tok, err := env.codec.Issue(7, time.Hour)
	require.NoError(t, err)

	env.users.getErr = errors.New("connection reset")
	_, err = env.resolver.Resolve(requestWithToken(tok))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
	assert.NotErrorIs(t, err, ErrIdentityNotFound)
	assert.Equal(t, "internal", FailureReason(err))
}

func TestResolve_WithActivityTouch(t *testing.T) {
	env := newEnv(t, 7)
	tok, err := env.codec.Issue(7, time.Hour)
	require.NoError(t, err)

	_, err = env.resolver.Resolve(requestWithToken(tok), WithActivityTouch())
	require.NoError(t, err)
	assert.Equal(t, env.now, env.users.touched[7])
}
