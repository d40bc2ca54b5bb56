package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dtroode/spendy/internal/model"
)

const (
	fileVersion = 1
	defaultName = "secrets.json"
)

var _ model.BatchSecretStore = (*Store)(nil)

type document struct {
	Version int                          `json:"version"`
	Secrets map[string]map[string][]byte `json:"secrets"`
}

// Store keeps secrets in a single JSON file readable only by the owner. Every
// write replaces the file atomically, so a crash leaves either the old or the
// new contents on disk.
type Store struct {
	mu      sync.Mutex
	path    string
	secrets map[string]map[string][]byte
}

// DefaultPath returns the secrets file location under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "spendy", defaultName), nil
}

// Open loads the store at path, creating its directory when missing. A missing
// file is an empty store.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create secrets dir: %w", err)
	}

	s := &Store{path: path, secrets: map[string]map[string][]byte{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read secrets file: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode secrets file: %w", err)
	}
	if doc.Version != fileVersion {
		return nil, fmt.Errorf("unsupported secrets file version %d", doc.Version)
	}
	if doc.Secrets != nil {
		s.secrets = doc.Secrets
	}
	return s, nil
}

func (s *Store) Save(ctx context.Context, service, account string, secret []byte) error {
	return s.SaveBatch(ctx, service, map[string][]byte{account: secret})
}

func (s *Store) SaveBatch(_ context.Context, service string, secrets map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.clone()
	if next[service] == nil {
		next[service] = map[string][]byte{}
	}
	for account, secret := range secrets {
		next[service][account] = append([]byte(nil), secret...)
	}
	return s.commit(next)
}

func (s *Store) Read(_ context.Context, service, account string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	secret, ok := s.secrets[service][account]
	if !ok {
		return nil, model.ErrSecretNotFound
	}
	return append([]byte(nil), secret...), nil
}

func (s *Store) Delete(_ context.Context, service, account string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.secrets[service][account]; !ok {
		return nil
	}

	next := s.clone()
	delete(next[service], account)
	if len(next[service]) == 0 {
		delete(next, service)
	}
	return s.commit(next)
}

// Len returns the number of stored secrets across all services.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, accounts := range s.secrets {
		n += len(accounts)
	}
	return n
}

// commit writes next to disk and makes it current. It must be called with mu held.
func (s *Store) commit(next map[string]map[string][]byte) error {
	data, err := json.MarshalIndent(document{Version: fileVersion, Secrets: next}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode secrets file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp secrets file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod secrets file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write secrets file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync secrets file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close secrets file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace secrets file: %w", err)
	}

	s.secrets = next
	return nil
}

func (s *Store) clone() map[string]map[string][]byte {
	out := make(map[string]map[string][]byte, len(s.secrets))
	for service, accounts := range s.secrets {
		copied := make(map[string][]byte, len(accounts))
		for account, secret := range accounts {
			copied[account] = secret
		}
		out[service] = copied
	}
	return out
}
