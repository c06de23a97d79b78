// internal/token_claims.go
// ------------------------
// Helpers for reading the expiry of an access token without verifying it.
// The client never holds the signing key; the expiry is only used to decide
// whether refreshing ahead of a request is worthwhile.
package internal

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenExpiry returns the exp claim of a JWT. ok is false for opaque tokens
// and for JWTs without an exp claim.
func TokenExpiry(raw string) (exp time.Time, ok bool) {
	raw = strings.TrimSpace(raw)
	if strings.Count(raw, ".") != 2 {
		return time.Time{}, false
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// IsInFuture checks if t is after now.
func IsInFuture(t time.Time) bool {
	return t.After(time.Now())
}
