// Package sealed encrypts secrets before they reach the underlying store, so
// backends outside the device (postgres, redis) only ever hold ciphertext.
package sealed

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/dtroode/spendy/internal/model"
)

const (
	keySize   = 32
	nonceSize = 24
)

// ErrOpen is returned when stored ciphertext cannot be authenticated with the key.
var ErrOpen = errors.New("failed to open sealed secret")

// Store seals secrets with NaCl secretbox.
type Store struct {
	inner model.SecretStore
	key   [keySize]byte
	rand  io.Reader
}

// BatchStore is a Store whose inner store supports atomic batch writes.
type BatchStore struct {
	*Store
	batch model.BatchSecretStore
}

var (
	_ model.SecretStore      = (*Store)(nil)
	_ model.BatchSecretStore = (*BatchStore)(nil)
)

// ParseKey decodes a base64 encoded 32 byte key.
func ParseKey(encoded string) ([keySize]byte, error) {
	var key [keySize]byte
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return key, fmt.Errorf("failed to decode seal key: %w", err)
	}
	if len(raw) != keySize {
		return key, fmt.Errorf("seal key must be %d bytes, got %d", keySize, len(raw))
	}
	copy(key[:], raw)
	return key, nil
}

// Wrap returns a sealing store over inner. The result keeps batch support when inner has it.
func Wrap(inner model.SecretStore, key [keySize]byte) model.SecretStore {
	s := &Store{inner: inner, key: key, rand: rand.Reader}
	if b, ok := inner.(model.BatchSecretStore); ok {
		return &BatchStore{Store: s, batch: b}
	}
	return s
}

func (s *Store) Save(ctx context.Context, service, account string, secret []byte) error {
	sealed, err := s.seal(secret)
	if err != nil {
		return err
	}
	return s.inner.Save(ctx, service, account, sealed)
}

func (s *Store) Read(ctx context.Context, service, account string) ([]byte, error) {
	sealed, err := s.inner.Read(ctx, service, account)
	if err != nil {
		return nil, err
	}
	return s.open(sealed)
}

func (s *Store) Delete(ctx context.Context, service, account string) error {
	return s.inner.Delete(ctx, service, account)
}

func (s *BatchStore) SaveBatch(ctx context.Context, service string, secrets map[string][]byte) error {
	sealed := make(map[string][]byte, len(secrets))
	for account, secret := range secrets {
		box, err := s.seal(secret)
		if err != nil {
			return err
		}
		sealed[account] = box
	}
	return s.batch.SaveBatch(ctx, service, sealed)
}

func (s *Store) seal(secret []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(s.rand, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], secret, &nonce, &s.key), nil
}

func (s *Store) open(box []byte) ([]byte, error) {
	if len(box) < nonceSize+secretbox.Overhead {
		return nil, ErrOpen
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	out, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &s.key)
	if !ok {
		return nil, ErrOpen
	}
	return out, nil
}
