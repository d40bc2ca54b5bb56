package model

import (
	"context"
	"time"
)

// EventType names a session lifecycle event.
type EventType string

const (
	EventLogin      EventType = "session.login"
	EventRegistered EventType = "session.registered"
	EventUnlocked   EventType = "session.unlocked"
	EventLocked     EventType = "session.locked"
	EventLogout     EventType = "session.logout"
	EventExpired    EventType = "session.expired"
)

// SessionEvent describes a state change. It never carries secrets.
type SessionEvent struct {
	Type       EventType `json:"type"`
	State      AuthState `json:"state"`
	Method     string    `json:"method,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher delivers session events to an external sink.
type EventPublisher interface {
	Publish(ctx context.Context, event SessionEvent) error
}

// Biometric evaluates the platform biometric capability.
type Biometric interface {
	Evaluate(ctx context.Context) (BiometricResult, error)
}
