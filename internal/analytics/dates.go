package analytics

import (
	"strings"
	"time"

	"github.com/dtroode/spendy/internal/model"
)

// dateLayouts are tried in order; the first one that parses wins.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
}

// ParseDate parses s with the first matching layout.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TransactionDate returns the start date of tx, falling back to its completion date.
func TransactionDate(tx model.Transaction) (time.Time, bool) {
	if t, ok := ParseDate(tx.StartedAt); ok {
		return t, true
	}
	return ParseDate(tx.CompletedAt)
}

// startOfDay keeps the calendar day as written, dropping time and zone.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
