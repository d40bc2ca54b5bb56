package memory

import (
	"context"
	"sync"

	"github.com/dtroode/spendy/internal/model"
)

var _ model.BatchSecretStore = (*Store)(nil)

// Store keeps secrets in process memory. It does not survive restarts and
// is meant for development runs and tests.
type Store struct {
	mu      sync.RWMutex
	secrets map[key][]byte
}

type key struct {
	service string
	account string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{secrets: make(map[key][]byte)}
}

func (s *Store) Save(_ context.Context, service, account string, secret []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[key{service, account}] = clone(secret)
	return nil
}

func (s *Store) SaveBatch(_ context.Context, service string, secrets map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for account, secret := range secrets {
		s.secrets[key{service, account}] = clone(secret)
	}
	return nil
}

func (s *Store) Read(_ context.Context, service, account string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	secret, ok := s.secrets[key{service, account}]
	if !ok {
		return nil, model.ErrSecretNotFound
	}
	return clone(secret), nil
}

func (s *Store) Delete(_ context.Context, service, account string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secrets, key{service, account})
	return nil
}

// Len returns the number of stored secrets across all services.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.secrets)
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
