// Package sealed wraps a session store and encrypts every record at rest.
//
// The sealing key is derived from a passphrase with Argon2id. The salt and a
// sealed verifier are kept in the wrapped store under reserved keys, so the
// same passphrase reopens the store and a wrong one is rejected up front.
package sealed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/coursemanager/internal/client/storage"
	"github.com/iudanet/coursemanager/internal/crypto"
)

// Зарезервированные ключи; префикс "_" недоступен вызывающим
const (
	KeySalt   = "_salt"
	KeyVerify = "_verify"

	reservedPrefix = "_"
)

var verifyPlaintext = []byte("coursemanager-session-store")

var (
	// ErrWrongPassphrase - passphrase не совпадает с тем, которым хранилище было создано
	ErrWrongPassphrase = errors.New("wrong store passphrase")
	// ErrReservedKey - попытка записать служебный ключ
	ErrReservedKey = errors.New("reserved key")
)

var _ storage.Store = (*Store)(nil)

// Store encrypts values before handing them to the wrapped store
type Store struct {
	inner  storage.Store
	sealer *crypto.Sealer
}

// New opens a sealed view over inner. On first use it generates a salt and
// writes the verifier; later calls check the passphrase against it.
func New(ctx context.Context, inner storage.Store, passphrase string) (*Store, error) {
	salt, err := inner.Get(ctx, KeySalt)
	fresh := errors.Is(err, storage.ErrNotFound)
	switch {
	case fresh:
		salt, err = crypto.GenerateSalt()
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read store salt: %w", err)
	}

	key, err := crypto.DeriveKey(passphrase, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive store key: %w", err)
	}
	sealer, err := crypto.NewSealer(key)
	if err != nil {
		return nil, err
	}

	s := &Store{inner: inner, sealer: sealer}

	if fresh {
		verify, err := sealer.Seal(verifyPlaintext, []byte(KeyVerify))
		if err != nil {
			return nil, err
		}
		// Старые записи без соли прочитать уже нельзя
		if err := inner.RemoveAll(ctx, storage.KeySession, storage.KeyProfile); err != nil {
			return nil, fmt.Errorf("failed to reset store: %w", err)
		}
		if err := inner.SetAll(ctx, map[string][]byte{KeySalt: salt, KeyVerify: verify}); err != nil {
			return nil, fmt.Errorf("failed to initialize sealed store: %w", err)
		}
		return s, nil
	}

	if err := s.verify(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) verify(ctx context.Context) error {
	sealed, err := s.inner.Get(ctx, KeyVerify)
	if err != nil {
		return fmt.Errorf("failed to read store verifier: %w", err)
	}
	plain, err := s.sealer.Open(sealed, []byte(KeyVerify))
	if err != nil || !bytes.Equal(plain, verifyPlaintext) {
		return ErrWrongPassphrase
	}
	return nil
}

// Get decrypts the value stored under key
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	sealed, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	plain, err := s.sealer.Open(sealed, []byte(key))
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w: %w", key, storage.ErrCorrupt, err)
	}
	return plain, nil
}

// Set encrypts value and stores it under key
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.SetAll(ctx, map[string][]byte{key: value})
}

// Remove deletes key
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.RemoveAll(ctx, key)
}

// SetAll encrypts every entry, then writes them in one call to the wrapped store
func (s *Store) SetAll(ctx context.Context, entries map[string][]byte) error {
	sealed := make(map[string][]byte, len(entries))
	for key, value := range entries {
		if err := checkKey(key); err != nil {
			return err
		}
		out, err := s.sealer.Seal(value, []byte(key))
		if err != nil {
			return fmt.Errorf("failed to seal %q: %w", key, err)
		}
		sealed[key] = out
	}
	return s.inner.SetAll(ctx, sealed)
}

// RemoveAll deletes keys from the wrapped store
func (s *Store) RemoveAll(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := checkKey(key); err != nil {
			return err
		}
	}
	return s.inner.RemoveAll(ctx, keys...)
}

func checkKey(key string) error {
	if key == "" {
		return storage.ErrEmptyKey
	}
	if strings.HasPrefix(key, reservedPrefix) {
		return fmt.Errorf("%w: %q", ErrReservedKey, key)
	}
	return nil
}
