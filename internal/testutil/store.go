package testutil

import (
	"context"
	"sync"

	"github.com/dtroode/spendy/internal/model"
)

// FailingStore wraps a SecretStore and fails writes or reads for selected accounts.
type FailingStore struct {
	model.SecretStore

	mu         sync.Mutex
	failSave   map[string]error
	failRead   map[string]error
	failDelete map[string]error
}

// NewFailingStore wraps inner without any configured failure.
func NewFailingStore(inner model.SecretStore) *FailingStore {
	return &FailingStore{
		SecretStore: inner,
		failSave:    map[string]error{},
		failRead:    map[string]error{},
		failDelete:  map[string]error{},
	}
}

// FailSave makes Save on account return err.
func (s *FailingStore) FailSave(account string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSave[account] = err
}

// FailRead makes Read on account return err.
func (s *FailingStore) FailRead(account string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRead[account] = err
}

// FailDelete makes Delete on account return err.
func (s *FailingStore) FailDelete(account string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDelete[account] = err
}

func (s *FailingStore) Save(ctx context.Context, service, account string, secret []byte) error {
	s.mu.Lock()
	err := s.failSave[account]
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.SecretStore.Save(ctx, service, account, secret)
}

func (s *FailingStore) Read(ctx context.Context, service, account string) ([]byte, error) {
	s.mu.Lock()
	err := s.failRead[account]
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.SecretStore.Read(ctx, service, account)
}

func (s *FailingStore) Delete(ctx context.Context, service, account string) error {
	s.mu.Lock()
	err := s.failDelete[account]
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.SecretStore.Delete(ctx, service, account)
}
