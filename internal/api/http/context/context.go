package context

import (
	"context"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// Manager stores the request correlation ID in a request context.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// SetRequestIDToContext returns a child context carrying requestID.
func (m *Manager) SetRequestIDToContext(ctx context.Context, requestID uuid.UUID) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestIDFromContext returns the request ID, if any, and whether it was set.
func (m *Manager) GetRequestIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(requestIDKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
