package kichwabridge

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

// Decode turns an envelope into a typed result. Non-2xx envelopes become an
// *APIError; a missing or null payload yields the zero value.
func Decode[T any](env *Envelope) (T, error) {
	var out T
	if err := env.Err(); err != nil {
		return out, err
	}
	if !env.HasData() {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, errors.Wrap(err, "decode envelope data")
	}
	return out, nil
}

// Fetch performs a GET and decodes its payload. Unlike Decode it only
// accepts a 200 status.
func Fetch[T any](ctx context.Context, g *Gateway, url string) (T, error) {
	env := g.Get(ctx, url, nil)
	if env.StatusCode != http.StatusOK {
		var zero T
		return zero, &APIError{StatusCode: env.StatusCode, Message: env.Message}
	}
	return Decode[T](env)
}
