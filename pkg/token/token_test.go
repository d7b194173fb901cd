package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestPeekClaims(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	raw := signedToken(t, Claims{
		Email: "student@example.edu",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "student@example.edu",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	claims, err := PeekClaims(raw)
	assert.NoError(t, err)
	assert.Equal(t, "student@example.edu", claims.Email)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
}

func TestPeekClaims_NotAToken(t *testing.T) {
	_, err := PeekClaims("opaque-session-id")
	assert.ErrorIs(t, err, ErrNotAToken)
}

func TestRemainingLifetime(t *testing.T) {
	now := time.Now()
	raw := signedToken(t, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})

	remaining, err := RemainingLifetime(raw, now)
	assert.NoError(t, err)
	assert.InDelta(t, time.Hour.Seconds(), remaining.Seconds(), 1.0)
}

func TestRemainingLifetime_ExpiredTokenClampsToZero(t *testing.T) {
	now := time.Now()
	raw := signedToken(t, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
	})

	remaining, err := RemainingLifetime(raw, now)
	assert.NoError(t, err)
	assert.Equal(t, time.Duration(0), remaining)
}

func TestRemainingLifetime_NoExpiry(t *testing.T) {
	raw := signedToken(t, jwt.RegisteredClaims{Subject: "student@example.edu"})

	_, err := RemainingLifetime(raw, time.Now())
	assert.ErrorIs(t, err, ErrNoExpiry)
}

func TestTimingSafeCompare(t *testing.T) {
	assert.True(t, TimingSafeCompare("abc", "abc"))
	assert.False(t, TimingSafeCompare("abc", "abd"))
	assert.False(t, TimingSafeCompare("abc", "abcd"))
}
