package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/spendy/internal/model"
)

var ErrMissingColumn = errors.New("statement is missing a required column")

// column names as exported by the bank, lower-cased.
const (
	colType        = "type"
	colProduct     = "product"
	colStarted     = "started date"
	colCompleted   = "completed date"
	colDescription = "description"
	colAmount      = "amount"
	colFee         = "fee"
	colCurrency    = "currency"
	colState       = "state"
	colCategory    = "category"
)

// Parse reads a bank statement CSV with a header row. Rows without a numeric amount are
// skipped. Each transaction gets a fresh random ID.
func Parse(r io.Reader) ([]model.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []model.Transaction{}, nil
		}
		return nil, fmt.Errorf("failed to read statement header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")))
		index[name] = i
	}
	for _, required := range []string{colDescription, colAmount} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	txs := []model.Transaction{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read statement line %d: %w", line, err)
		}

		row := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		amount, ok := parseAmount(row(colAmount))
		if !ok {
			continue
		}

		txs = append(txs, model.Transaction{
			ID:          uuid.NewString(),
			Type:        row(colType),
			Product:     row(colProduct),
			StartedAt:   row(colStarted),
			CompletedAt: row(colCompleted),
			Description: row(colDescription),
			Amount:      amount,
			Fee:         optionalAmount(row(colFee)),
			Currency:    optional(row(colCurrency)),
			State:       optional(row(colState)),
			Category:    optional(row(colCategory)),
		})
	}

	return txs, nil
}

// parseAmount accepts a dot or a single comma as decimal separator.
func parseAmount(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func optionalAmount(s string) *float64 {
	v, ok := parseAmount(s)
	if !ok {
		return nil
	}
	return &v
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
