// Package storage provides the local key-value storage the client keeps its
// session in. Backends are safe for concurrent use; the last write to a key
// wins.
package storage

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("storage: key not found")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	// MultiGet returns the values of the keys that exist.
	MultiGet(ctx context.Context, keys ...string) (map[string]string, error)
	Keys(ctx context.Context) ([]string, error)
	MultiRemove(ctx context.Context, keys ...string) error
	Close() error
}

// GetDefault returns def when key is missing.
func GetDefault(ctx context.Context, s Store, key, def string) (string, error) {
	value, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) || (err == nil && value == "") {
		return def, nil
	}
	return value, err
}

// GetJSON decodes a JSON value. found is false when the key is missing.
func GetJSON[T any](ctx context.Context, s Store, key string) (value T, found bool, err error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return value, false, nil
	}
	if err != nil {
		return value, false, err
	}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return value, false, errors.Wrapf(err, "decode %q", key)
	}
	return value, true, nil
}

// SetJSON stores v encoded as JSON.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %q", key)
	}
	return s.Set(ctx, key, string(raw))
}
