package model

import (
	"context"
	"io"
)

// Transaction is a single account movement. Negative amounts are outflows.
type Transaction struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Product     string   `json:"product"`
	StartedAt   string   `json:"startedDate,omitempty"`
	CompletedAt string   `json:"completedDate,omitempty"`
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	Fee         *float64 `json:"fee,omitempty"`
	Currency    *string  `json:"currency,omitempty"`
	State       *string  `json:"state,omitempty"`
	Category    *string  `json:"category,omitempty"`
}

// IsOutflow reports whether the transaction moved money out of the account.
func (t Transaction) IsOutflow() bool {
	return t.Amount < 0
}

// TransactionSource fetches transactions from the remote transactions transport.
type TransactionSource interface {
	List(ctx context.Context) ([]Transaction, error)
	Import(ctx context.Context, fileName string, data io.Reader) error
}
