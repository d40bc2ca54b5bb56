package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/spendy/internal/model"
)

// RequestIDHeader carries the correlation ID in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestID reuses a valid incoming X-Request-ID or generates a new one.
type RequestID struct {
	contextManager model.RequestContext
}

func NewRequestID(contextManager model.RequestContext) *RequestID {
	return &RequestID{contextManager: contextManager}
}

func (m *RequestID) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.Header.Get(RequestIDHeader))
		if err != nil || id == uuid.Nil {
			id = uuid.New()
		}

		w.Header().Set(RequestIDHeader, id.String())
		ctx := m.contextManager.SetRequestIDToContext(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
