package events

import (
	"context"

	"github.com/dtroode/spendy/internal/logger"
	"github.com/dtroode/spendy/internal/model"
)

var _ model.EventPublisher = (*Noop)(nil)

// Noop drops every event, logging it at debug level.
type Noop struct {
	logger *logger.Logger
}

func NewNoop(logger *logger.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) Publish(_ context.Context, event model.SessionEvent) error {
	n.logger.Debug("Events: publishing disabled, event dropped", "type", event.Type, "state", event.State)
	return nil
}
