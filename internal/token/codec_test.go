package token

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time { return f.t }

func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCodec(t *testing.T, secret string) (*Codec, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c, err := NewCodec([]byte(secret), WithClock(clock.Now))
	require.NoError(t, err)
	return c, clock
}

func TestNewCodec_MissingSecret(t *testing.T) {
	for _, secret := range []string{"", "   "} {
		_, err := NewCodec([]byte(secret))
		assert.ErrorIs(t, err, ErrMissingSecret)
	}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	c, _ := newTestCodec(t, "super-secret")

	for _, id := range []int64{1, 42, 1 << 40} {
		for _, ttl := range []time.Duration{time.Second, time.Hour, 24 * time.Hour} {
			tok, err := c.Issue(id, ttl)
			require.NoError(t, err)

			claims, err := c.Verify(tok)
			require.NoError(t, err)
			assert.Equal(t, id, claims.UserID)
			assert.NotEmpty(t, claims.ID)
			assert.Equal(t, claims.IssuedAt.Add(ttl), claims.ExpiresAt.Time)
		}
	}
}

func TestIssue_SubSecondTTLIsNotBornExpired(t *testing.T) {
	c, clock := newTestCodec(t, "secret")
	clock.t = time.Date(2024, 5, 1, 12, 0, 10, 200*int(time.Millisecond), time.UTC)

	tok, err := c.Issue(1, 500*time.Millisecond)
	require.NoError(t, err)

	claims, err := c.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 11, 0, time.UTC), claims.ExpiresAt.Time.UTC())

	clock.Advance(time.Second)
	_, err = c.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestIssue_DistinctTokensInSameSecond(t *testing.T) {
	c, _ := newTestCodec(t, "secret")

	a, err := c.Issue(1, time.Hour)
	require.NoError(t, err)
	b, err := c.Issue(1, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestIssue_RejectsBadInput(t *testing.T) {
	c, _ := newTestCodec(t, "secret")

	_, err := c.Issue(0, time.Hour)
	assert.Error(t, err)
	_, err = c.Issue(1, 0)
	assert.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	c, clock := newTestCodec(t, "secret")

	tok, err := c.Issue(7, time.Second)
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	_, err = c.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer, _ := newTestCodec(t, "right-secret")
	verifier, _ := newTestCodec(t, "wrong-secret")

	tok, err := issuer.Issue(7, time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Tampered(t *testing.T) {
	c, _ := newTestCodec(t, "secret")
	tok, err := c.Issue(7, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"id":1,"exp":9999999999}`))

	_, err = c.Verify(parts[0] + "." + forged + "." + parts[2])
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	c, _ := newTestCodec(t, "secret")

	for _, in := range []string{"", "not.a.jwt", "abc", "a.b.c.d"} {
		_, err := c.Verify(in)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", in)
	}
}

func TestVerify_RejectsNoneAndOtherAlgorithms(t *testing.T) {
	c, clock := newTestCodec(t, "secret")
	claims := Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
		},
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = c.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = c.Verify(hs512)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RequiresExpiryAndUserID(t *testing.T) {
	c, clock := newTestCodec(t, "secret")

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 7}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = c.Verify(noExp)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour))},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = c.Verify(noID)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
