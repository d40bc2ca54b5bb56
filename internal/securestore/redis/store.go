package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dtroode/spendy/internal/model"
)

var _ model.BatchSecretStore = (*Store)(nil)

// Store keeps secrets as plain redis string keys of the form <prefix><service>:<account>.
type Store struct {
	client goredis.UniversalClient
	prefix string
}

// NewClient parses a redis URL and verifies the server answers.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func NewStore(client goredis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(service, account string) string {
	return s.prefix + service + ":" + account
}

func (s *Store) Save(ctx context.Context, service, account string, secret []byte) error {
	if err := s.client.Set(ctx, s.key(service, account), secret, 0).Err(); err != nil {
		return fmt.Errorf("failed to save secret: %w", err)
	}
	return nil
}

// SaveBatch writes every account inside a MULTI/EXEC block.
func (s *Store) SaveBatch(ctx context.Context, service string, secrets map[string][]byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for account, secret := range secrets {
			pipe.Set(ctx, s.key(service, account), secret, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save secrets: %w", err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, service, account string) ([]byte, error) {
	secret, err := s.client.Get(ctx, s.key(service, account)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, model.ErrSecretNotFound
		}
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}
	return secret, nil
}

func (s *Store) Delete(ctx context.Context, service, account string) error {
	if err := s.client.Del(ctx, s.key(service, account)).Err(); err != nil {
		return fmt.Errorf("failed to delete secret: %w", err)
	}
	return nil
}
