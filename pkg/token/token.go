package token

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotAToken = errors.New("value is not a JWT")
	ErrNoExpiry  = errors.New("token carries no expiry claim")
)

// Claims is the subset of backend-issued access token claims the gateway
// cares about. The gateway never verifies signatures: tokens are minted and
// validated by the finance API, which signals invalidity with a 401.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// PeekClaims decodes a JWT without verifying its signature. Used only to
// derive cookie lifetimes from the backend token's exp claim; authorization
// decisions are never based on the result.
func PeekClaims(tokenString string) (*Claims, error) {
	parser := jwt.NewParser()
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrNotAToken
	}
	return claims, nil
}

// RemainingLifetime returns how long the token is still valid according to
// its unverified exp claim, or an error when the claim is missing.
func RemainingLifetime(tokenString string, now time.Time) (time.Duration, error) {
	claims, err := PeekClaims(tokenString)
	if err != nil {
		return 0, err
	}
	if claims.ExpiresAt == nil {
		return 0, ErrNoExpiry
	}
	remaining := claims.ExpiresAt.Time.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// TimingSafeCompare performs a timing-safe comparison of two strings
// This prevents timing attacks when comparing tokens
func TimingSafeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
