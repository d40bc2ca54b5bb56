package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/dtroode/spendy/internal/model"
)

// Kind selects transactions by direction.
type Kind string

const (
	KindAll      Kind = "all"
	KindIncome   Kind = "income"
	KindExpenses Kind = "expenses"
)

// ParseKind maps a query value to a Kind. Unknown values select everything.
func ParseKind(s string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindIncome:
		return KindIncome
	case KindExpenses:
		return KindExpenses
	default:
		return KindAll
	}
}

// FilterList selects transactions by kind and a case-insensitive description search,
// newest first. Transactions without a parseable date go last.
func FilterList(txs []model.Transaction, kind Kind, query string) []model.Transaction {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		switch kind {
		case KindIncome:
			if tx.Amount <= 0 {
				continue
			}
		case KindExpenses:
			if tx.Amount >= 0 {
				continue
			}
		}
		if query != "" && !strings.Contains(strings.ToLower(tx.Description), query) {
			continue
		}
		out = append(out, tx)
	}

	sort.SliceStable(out, func(i, j int) bool {
		di, okI := TransactionDate(out[i])
		dj, okJ := TransactionDate(out[j])
		switch {
		case okI && okJ:
			return di.After(dj)
		default:
			return okI && !okJ
		}
	})
	return out
}

// InPeriod keeps the transactions dated inside the period selected by filter. All-time keeps
// everything, undated transactions included.
func InPeriod(txs []model.Transaction, filter model.Filter) []model.Transaction {
	from, to, bounded := Period(filter)
	if !bounded {
		return txs
	}

	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		date, dated := TransactionDate(tx)
		if within(date, dated, from, to) {
			out = append(out, tx)
		}
	}
	return out
}

// Balance splits txs into income and expenses. Expenses are reported as a magnitude.
func Balance(txs []model.Transaction) model.Balance {
	var b model.Balance
	for _, tx := range txs {
		switch {
		case tx.Amount > 0:
			b.Income += tx.Amount
		case tx.Amount < 0:
			b.Expenses += math.Abs(tx.Amount)
		}
	}
	b.Net = b.Income - b.Expenses
	return b
}
