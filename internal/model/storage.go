package model

import (
	"context"
	"io"
)

// SecretStore keeps secrets scoped by a service namespace and an account key.
// Read returns ErrSecretNotFound when the account holds no secret.
type SecretStore interface {
	Save(ctx context.Context, service, account string, secret []byte) error
	Read(ctx context.Context, service, account string) ([]byte, error)
	Delete(ctx context.Context, service, account string) error
}

// BatchSecretStore is implemented by stores able to write several accounts atomically.
type BatchSecretStore interface {
	SecretStore
	SaveBatch(ctx context.Context, service string, secrets map[string][]byte) error
}

// Storage is an object store holding uploaded bank statements.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
