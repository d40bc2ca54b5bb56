package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/spendy/internal/model"
	"github.com/dtroode/spendy/internal/testutil"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp091.Publishing
	deadline bool
	err      error
	closed   bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	_, f.deadline = ctx.Deadline()
	f.exchange = exchange
	f.key = key
	f.msg = msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "spendy", "session_events", testutil.MakeNoopLogger())

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	err := p.Publish(context.Background(), model.SessionEvent{
		Type:       model.EventUnlocked,
		State:      model.StateAuthenticated,
		Method:     "pin",
		OccurredAt: at,
	})
	require.NoError(t, err)

	assert.Equal(t, "spendy", ch.exchange)
	assert.Equal(t, "session_events", ch.key)
	assert.True(t, ch.deadline)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp091.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, "session.unlocked", ch.msg.Type)
	assert.Equal(t, at, ch.msg.Timestamp)

	var body map[string]any
	require.NoError(t, json.Unmarshal(ch.msg.Body, &body))
	assert.Equal(t, "session.unlocked", body["type"])
	assert.Equal(t, "authenticated", body["state"])
	assert.Equal(t, "pin", body["method"])
}

func TestPublisher_PublishError(t *testing.T) {
	p := newPublisher(&fakeChannel{err: errors.New("channel closed")}, "x", "q", testutil.MakeNoopLogger())

	err := p.Publish(context.Background(), model.SessionEvent{Type: model.EventLogout})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish event")
}

func TestPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "x", "q", testutil.MakeNoopLogger())
	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}
