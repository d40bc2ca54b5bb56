package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dtroode/spendy/internal/analytics"
	"github.com/dtroode/spendy/internal/logger"
	"github.com/dtroode/spendy/internal/model"
	"github.com/dtroode/spendy/internal/statement"
)

const maxStatementSize = 16 << 20

type statementRequest struct {
	Key string `json:"key"`
}

type previewResponse struct {
	Key          string            `json:"key"`
	Transactions []transactionItem `json:"transactions"`
	Balance      model.Balance     `json:"balance"`
	Summary      model.Summary     `json:"summary"`
}

// Statement moves bank statements between the archive and the transactions transport.
type Statement struct {
	session   SessionService
	archive   model.Storage
	source    model.TransactionSource
	dashboard *Dashboard
	logger    *logger.Logger
}

func NewStatement(session SessionService, archive model.Storage, source model.TransactionSource, dashboard *Dashboard, logger *logger.Logger) *Statement {
	return &Statement{
		session:   session,
		archive:   archive,
		source:    source,
		dashboard: dashboard,
		logger:    logger,
	}
}

// Upload stores the request body in the archive under the key in the URL. An existing
// statement is kept unless overwrite=true.
func (h *Statement) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.unlocked(w) {
		return
	}

	key := strings.TrimSpace(chi.URLParam(r, "*"))
	if key == "" {
		writeError(w, h.logger, fmt.Errorf("%w: statement key is required", errBadRequest))
		return
	}

	if r.URL.Query().Get("overwrite") != "true" {
		exists, err := h.archive.Exists(r.Context(), key)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		if exists {
			writeJSON(w, http.StatusConflict, errorResponse{Error: "statement already exists"})
			return
		}
	}

	if err := h.archive.Upload(r.Context(), key, http.MaxBytesReader(w, r.Body, maxStatementSize)); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("Statement handler: statement archived", "key", key)
	writeJSON(w, http.StatusCreated, statementRequest{Key: key})
}

func (h *Statement) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.unlocked(w) {
		return
	}

	key := strings.TrimSpace(chi.URLParam(r, "*"))
	if key == "" {
		writeError(w, h.logger, fmt.Errorf("%w: statement key is required", errBadRequest))
		return
	}

	if err := h.archive.Delete(r.Context(), key); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Preview parses an archived statement locally without sending it anywhere. Like every
// statement route it requires an unlocked session.
func (h *Statement) Preview(w http.ResponseWriter, r *http.Request) {
	if !h.unlocked(w) {
		return
	}

	key, err := h.requestKey(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	data, err := h.download(r, key)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	txs, err := statement.Parse(bytes.NewReader(data))
	if err != nil {
		writeError(w, h.logger, fmt.Errorf("preview %s: %w", key, err))
		return
	}

	writeJSON(w, http.StatusOK, previewResponse{
		Key:          key,
		Transactions: h.dashboard.classify(txs),
		Balance:      analytics.Balance(txs),
		Summary:      analytics.Aggregate(txs, model.Filter{Mode: model.FilterAll}, h.dashboard.classifier),
	})
}

// Import validates an archived statement and uploads it to the transactions transport.
func (h *Statement) Import(w http.ResponseWriter, r *http.Request) {
	if !h.unlocked(w) {
		return
	}

	key, err := h.requestKey(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	data, err := h.download(r, key)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	txs, err := statement.Parse(bytes.NewReader(data))
	if err != nil {
		writeError(w, h.logger, fmt.Errorf("import %s: %w", key, err))
		return
	}

	if err := h.source.Import(r.Context(), path.Base(key), bytes.NewReader(data)); err != nil {
		h.logger.Warn("Statement handler: import failed", "key", key, "error", err.Error())
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("Statement handler: statement imported", "key", key, "transactions", len(txs))
	writeJSON(w, http.StatusAccepted, map[string]any{"key": key, "transactions": len(txs)})
}

// unlocked writes 403 unless the session is Authenticated.
func (h *Statement) unlocked(w http.ResponseWriter) bool {
	if h.session.State() != model.StateAuthenticated {
		writeError(w, h.logger, errNotUnlocked)
		return false
	}
	return true
}

func (h *Statement) requestKey(r *http.Request) (string, error) {
	var req statementRequest
	if err := decodeJSON(r, &req); err != nil {
		return "", err
	}
	key := strings.TrimSpace(req.Key)
	if key == "" {
		return "", fmt.Errorf("%w: statement key is required", errBadRequest)
	}
	return key, nil
}

func (h *Statement) download(r *http.Request, key string) ([]byte, error) {
	rc, err := h.archive.Download(r.Context(), key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxStatementSize))
	if err != nil {
		return nil, fmt.Errorf("read statement %s: %w", key, err)
	}
	return data, nil
}
