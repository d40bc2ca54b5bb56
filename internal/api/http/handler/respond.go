package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dtroode/spendy/internal/logger"
)

const maxBodySize = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, lg *logger.Logger, err error) {
	status, message := handleError(err)
	if status >= http.StatusInternalServerError {
		lg.Error("HTTP handler: request failed", "status", status, "error", err.Error())
	}
	writeJSON(w, status, errorResponse{Error: message})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %w", errBadRequest, err)
	}
	return nil
}
