package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/dtroode/spendy/internal/model"
)

var _ model.BatchSecretStore = (*SecretRepository)(nil)

const upsertSecret = `
        INSERT INTO secrets (service, account, secret, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (service, account)
        DO UPDATE SET secret = EXCLUDED.secret, updated_at = NOW()
    `

// SecretRepository stores secrets in the secrets table.
type SecretRepository struct {
	db *sql.DB
}

func NewSecretRepository(db *sql.DB) *SecretRepository {
	return &SecretRepository{db: db}
}

func (r *SecretRepository) Save(ctx context.Context, service, account string, secret []byte) error {
	if _, err := r.db.ExecContext(ctx, upsertSecret, service, account, secret); err != nil {
		return fmt.Errorf("failed to save secret: %w", err)
	}
	return nil
}

// SaveBatch upserts all secrets inside one transaction.
func (r *SecretRepository) SaveBatch(ctx context.Context, service string, secrets map[string][]byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	accounts := make([]string, 0, len(secrets))
	for account := range secrets {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)

	for _, account := range accounts {
		if _, err := tx.ExecContext(ctx, upsertSecret, service, account, secrets[account]); err != nil {
			return fmt.Errorf("failed to save secret %s: %w", account, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit secrets: %w", err)
	}
	return nil
}

func (r *SecretRepository) Read(ctx context.Context, service, account string) ([]byte, error) {
	const query = `SELECT secret FROM secrets WHERE service = $1 AND account = $2`

	var secret []byte
	err := r.db.QueryRowContext(ctx, query, service, account).Scan(&secret)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrSecretNotFound
		}
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}
	return secret, nil
}

func (r *SecretRepository) Delete(ctx context.Context, service, account string) error {
	const query = `DELETE FROM secrets WHERE service = $1 AND account = $2`

	if _, err := r.db.ExecContext(ctx, query, service, account); err != nil {
		return fmt.Errorf("failed to delete secret: %w", err)
	}
	return nil
}
