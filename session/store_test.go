package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	kichwabridge "github.com/opengovern/kichwa-bridge"
	"github.com/opengovern/kichwa-bridge/storage"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	s := New(kv)

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok.AccessToken)
	assert.Empty(t, tok.RefreshToken)
	assert.True(t, tok.Expiry.IsZero())

	require.NoError(t, s.Save(ctx, &oauth2.Token{AccessToken: "a1", RefreshToken: "r1"}))
	raw, err := kv.Get(ctx, kichwabridge.AccessTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "a1", raw)

	loggedIn, err := s.LoggedIn(ctx)
	require.NoError(t, err)
	assert.True(t, loggedIn)

	require.NoError(t, s.Clear(ctx))
	loggedIn, err = s.LoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, loggedIn)
}

func TestStoreEmptyValueRemovesKey(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	s := New(kv)

	require.NoError(t, s.SetRefreshToken(ctx, "r1"))
	require.NoError(t, s.SetRefreshToken(ctx, ""))

	_, err := kv.Get(ctx, kichwabridge.RefreshTokenKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStoreReadsJWTExpiry(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemoryStore())

	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	require.NoError(t, s.SetAccessToken(ctx, raw))

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.True(t, tok.Expiry.Equal(exp))
	assert.True(t, tok.Valid())
}

func TestStoreOverSealedStorage(t *testing.T) {
	ctx := context.Background()
	sealed, err := storage.NewSealedStoreFromPassphrase(ctx, storage.NewMemoryStore(), "kawsay")
	require.NoError(t, err)
	s := New(sealed)

	require.NoError(t, s.SetAccessToken(ctx, "a1"))
	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a1", tok.AccessToken)
}
