package model

import (
	"context"

	"github.com/google/uuid"
)

// RequestContext attaches a correlation ID to each intent API request.
type RequestContext interface {
	SetRequestIDToContext(ctx context.Context, requestID uuid.UUID) context.Context
	GetRequestIDFromContext(ctx context.Context) (uuid.UUID, bool)
}
