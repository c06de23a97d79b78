// Package session keeps the API credential pair in local storage and exposes
// it to the gateway as an oauth2.Token.
package session

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	kichwabridge "github.com/opengovern/kichwa-bridge"
	"github.com/opengovern/kichwa-bridge/internal"
	"github.com/opengovern/kichwa-bridge/storage"
)

var _ kichwabridge.TokenStore = (*Store)(nil)

type Store struct {
	kv storage.Store
}

func New(kv storage.Store) *Store {
	return &Store{kv: kv}
}

// Token reads both credentials. Expiry is filled from the access token's exp
// claim when it is a JWT and left zero otherwise.
func (s *Store) Token(ctx context.Context) (*oauth2.Token, error) {
	values, err := s.kv.MultiGet(ctx, kichwabridge.AccessTokenKey, kichwabridge.RefreshTokenKey)
	if err != nil {
		return nil, errors.Wrap(err, "read credential pair")
	}

	tok := &oauth2.Token{
		AccessToken:  values[kichwabridge.AccessTokenKey],
		RefreshToken: values[kichwabridge.RefreshTokenKey],
		TokenType:    "Bearer",
	}
	if exp, ok := internal.TokenExpiry(tok.AccessToken); ok {
		tok.Expiry = exp
	}
	return tok, nil
}

func (s *Store) SetAccessToken(ctx context.Context, value string) error {
	return s.put(ctx, kichwabridge.AccessTokenKey, value)
}

func (s *Store) SetRefreshToken(ctx context.Context, value string) error {
	return s.put(ctx, kichwabridge.RefreshTokenKey, value)
}

// Save replaces both credentials at once.
func (s *Store) Save(ctx context.Context, tok *oauth2.Token) error {
	if tok == nil {
		return s.Clear(ctx)
	}
	if err := s.SetAccessToken(ctx, tok.AccessToken); err != nil {
		return err
	}
	return s.SetRefreshToken(ctx, tok.RefreshToken)
}

// Clear removes both credentials.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.MultiRemove(ctx, kichwabridge.AccessTokenKey, kichwabridge.RefreshTokenKey); err != nil {
		return errors.Wrap(err, "clear credential pair")
	}
	return nil
}

// LoggedIn reports whether an access token is stored.
func (s *Store) LoggedIn(ctx context.Context) (bool, error) {
	tok, err := s.Token(ctx)
	if err != nil {
		return false, err
	}
	return tok.AccessToken != "", nil
}

// put stores value under key; an empty value removes the key, which is how
// the API expires a cookie.
func (s *Store) put(ctx context.Context, key, value string) error {
	var err error
	if value == "" {
		err = s.kv.Remove(ctx, key)
	} else {
		err = s.kv.Set(ctx, key, value)
	}
	return errors.Wrapf(err, "store %s", key)
}
