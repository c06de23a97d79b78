package kichwabridge

import (
	"context"

	"golang.org/x/oauth2"
)

// Transport sends one normalized request and returns the raw response.
// Implementations must read the whole body before returning and must not
// retry on their own.
type Transport interface {
	ExecuteRequest(ctx context.Context, req *NormalizedRequest) (*NormalizedResponse, error)
}

// TokenStore persists the credential pair between calls.
type TokenStore interface {
	// Token returns the current pair. Missing values are empty strings,
	// never an error.
	Token(ctx context.Context) (*oauth2.Token, error)
	SetAccessToken(ctx context.Context, value string) error
	SetRefreshToken(ctx context.Context, value string) error
	Clear(ctx context.Context) error
}
