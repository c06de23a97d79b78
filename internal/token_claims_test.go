package internal

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("any-key"))
	require.NoError(t, err)

	got, ok := TokenExpiry(raw)
	require.True(t, ok)
	assert.True(t, got.Equal(exp))
}

func TestTokenExpiryWithoutClaim(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "7"}).
		SignedString([]byte("any-key"))
	require.NoError(t, err)

	_, ok := TokenExpiry(raw)
	assert.False(t, ok)
}

func TestTokenExpiryOpaque(t *testing.T) {
	for _, raw := range []string{"", "opaque", "a.b", "not.a.jwt"} {
		_, ok := TokenExpiry(raw)
		assert.False(t, ok, raw)
	}
}

func TestIsInFuture(t *testing.T) {
	assert.True(t, IsInFuture(time.Now().Add(time.Minute)))
	assert.False(t, IsInFuture(time.Now().Add(-time.Minute)))
}
