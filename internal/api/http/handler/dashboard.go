package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dtroode/spendy/internal/analytics"
	"github.com/dtroode/spendy/internal/category"
	"github.com/dtroode/spendy/internal/logger"
	"github.com/dtroode/spendy/internal/model"
)

type dashboardResponse struct {
	Mode    model.FilterMode `json:"mode"`
	Summary model.Summary    `json:"summary"`
	Balance model.Balance    `json:"balance"`
}

type transactionItem struct {
	model.Transaction
	Classification category.Classification `json:"classification"`
}

type transactionsResponse struct {
	Kind         analytics.Kind    `json:"kind"`
	Transactions []transactionItem `json:"transactions"`
	Balance      model.Balance     `json:"balance"`
}

// Dashboard serves the aggregated views of the user's transactions.
type Dashboard struct {
	session    SessionService
	source     model.TransactionSource
	classifier *category.Classifier
	logger     *logger.Logger
}

func NewDashboard(session SessionService, source model.TransactionSource, classifier *category.Classifier, logger *logger.Logger) *Dashboard {
	return &Dashboard{
		session:    session,
		source:     source,
		classifier: classifier,
		logger:     logger,
	}
}

// Summary aggregates outflows for the period selected by mode, month, from and to.
func (h *Dashboard) Summary(w http.ResponseWriter, r *http.Request) {
	if h.session.State() != model.StateAuthenticated {
		writeError(w, h.logger, errNotUnlocked)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	txs, err := h.source.List(r.Context())
	if err != nil {
		h.logger.Warn("Dashboard handler: failed to list transactions", "error", err.Error())
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Mode:    filter.Mode,
		Summary: analytics.Aggregate(txs, filter, h.classifier),
		Balance: analytics.Balance(analytics.InPeriod(txs, filter)),
	})
}

// Transactions lists transactions filtered by kind and a description search, newest first.
func (h *Dashboard) Transactions(w http.ResponseWriter, r *http.Request) {
	if h.session.State() != model.StateAuthenticated {
		writeError(w, h.logger, errNotUnlocked)
		return
	}

	txs, err := h.source.List(r.Context())
	if err != nil {
		h.logger.Warn("Dashboard handler: failed to list transactions", "error", err.Error())
		writeError(w, h.logger, err)
		return
	}

	query := r.URL.Query()
	kind := analytics.ParseKind(query.Get("kind"))
	filtered := analytics.FilterList(txs, kind, query.Get("q"))

	writeJSON(w, http.StatusOK, transactionsResponse{
		Kind:         kind,
		Transactions: h.classify(filtered),
		Balance:      analytics.Balance(filtered),
	})
}

func (h *Dashboard) classify(txs []model.Transaction) []transactionItem {
	items := make([]transactionItem, 0, len(txs))
	for _, tx := range txs {
		items = append(items, transactionItem{
			Transaction:    tx,
			Classification: h.classifier.ClassifyTransaction(tx),
		})
	}
	return items
}

func parseFilter(r *http.Request) (model.Filter, error) {
	query := r.URL.Query()

	switch mode := model.FilterMode(strings.ToLower(query.Get("mode"))); mode {
	case "", model.FilterAll:
		return model.Filter{Mode: model.FilterAll}, nil
	case model.FilterMonth:
		month, err := time.Parse("2006-01", query.Get("month"))
		if err != nil {
			return model.Filter{}, fmt.Errorf("%w: month must be YYYY-MM", errBadRequest)
		}
		return model.Filter{Mode: model.FilterMonth, Year: month.Year(), Month: month.Month()}, nil
	case model.FilterRange:
		from, err := time.Parse(time.DateOnly, query.Get("from"))
		if err != nil {
			return model.Filter{}, fmt.Errorf("%w: from must be YYYY-MM-DD", errBadRequest)
		}
		to, err := time.Parse(time.DateOnly, query.Get("to"))
		if err != nil {
			return model.Filter{}, fmt.Errorf("%w: to must be YYYY-MM-DD", errBadRequest)
		}
		return model.Filter{Mode: model.FilterRange, From: from, To: to}, nil
	default:
		return model.Filter{}, fmt.Errorf("%w: unknown mode %q", errBadRequest, mode)
	}
}
