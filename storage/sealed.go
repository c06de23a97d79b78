package storage

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// saltKey holds the passphrase salt in the backing store. It is hidden from
// Keys and cannot be written through a SealedStore.
const saltKey = "__sealed_salt"

// SealedStore encrypts every value with XChaCha20-Poly1305 before handing it
// to the backing store. The key name is bound as associated data, so a value
// copied under another key fails to open.
type SealedStore struct {
	inner Store
	aead  cipher.AEAD
}

// NewSealedStore wraps inner with a 32-byte key.
func NewSealedStore(inner Store, key []byte) (*SealedStore, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, errors.Wrap(err, "init cipher")
	}
	return &SealedStore{inner: inner, aead: aead}, nil
}

// NewSealedStoreFromPassphrase derives the key from passphrase with Argon2id.
// The salt is generated on first use and kept in inner.
func NewSealedStoreFromPassphrase(ctx context.Context, inner Store, passphrase string) (*SealedStore, error) {
	if passphrase == "" {
		return nil, errors.New("passphrase is required")
	}
	salt, err := loadOrCreateSalt(ctx, inner)
	if err != nil {
		return nil, err
	}
	key := argon2.IDKey([]byte(passphrase), salt, 2, 19*1024, 1, chacha20poly1305.KeySize)
	return NewSealedStore(inner, key)
}

func loadOrCreateSalt(ctx context.Context, inner Store) ([]byte, error) {
	encoded, err := inner.Get(ctx, saltKey)
	if err == nil {
		salt, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, errors.Wrap(err, "decode salt")
		}
		return salt, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, errors.Wrap(err, "read salt")
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "generate salt")
	}
	if err := inner.Set(ctx, saltKey, base64.StdEncoding.EncodeToString(salt)); err != nil {
		return nil, errors.Wrap(err, "store salt")
	}
	return salt, nil
}

func (s *SealedStore) Get(ctx context.Context, key string) (string, error) {
	if key == saltKey {
		return "", ErrNotFound
	}
	sealed, err := s.inner.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return s.open(key, sealed)
}

func (s *SealedStore) Set(ctx context.Context, key, value string) error {
	if key == saltKey {
		return errors.Errorf("key %q is reserved", key)
	}
	sealed, err := s.seal(key, value)
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, key, sealed)
}

func (s *SealedStore) Remove(ctx context.Context, key string) error {
	return s.MultiRemove(ctx, key)
}

func (s *SealedStore) MultiGet(ctx context.Context, keys ...string) (map[string]string, error) {
	sealed, err := s.inner.MultiGet(ctx, keys...)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(sealed))
	for key, value := range sealed {
		if key == saltKey {
			continue
		}
		plain, err := s.open(key, value)
		if err != nil {
			return nil, err
		}
		out[key] = plain
	}
	return out, nil
}

func (s *SealedStore) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.inner.Keys(ctx)
	if err != nil {
		return nil, err
	}
	out := keys[:0]
	for _, key := range keys {
		if key != saltKey {
			out = append(out, key)
		}
	}
	return out, nil
}

func (s *SealedStore) MultiRemove(ctx context.Context, keys ...string) error {
	filtered := make([]string, 0, len(keys))
	for _, key := range keys {
		if key != saltKey {
			filtered = append(filtered, key)
		}
	}
	return s.inner.MultiRemove(ctx, filtered...)
}

func (s *SealedStore) Close() error {
	return s.inner.Close()
}

func (s *SealedStore) seal(key, value string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.Wrap(err, "generate nonce")
	}
	out := s.aead.Seal(nonce, nonce, []byte(value), []byte(key))
	return base64.StdEncoding.EncodeToString(out), nil
}

func (s *SealedStore) open(key, sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", errors.Wrapf(err, "decode %q", key)
	}
	n := s.aead.NonceSize()
	if len(raw) < n {
		return "", errors.Errorf("sealed value for %q is truncated", key)
	}
	plain, err := s.aead.Open(nil, raw[:n], raw[n:], []byte(key))
	if err != nil {
		return "", errors.Wrapf(err, "open %q", key)
	}
	return string(plain), nil
}
