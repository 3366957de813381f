package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu      sync.Mutex
	written []kafka.Message
	err     error
	closed  bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func buildMessage(t *testing.T) Message {
	t.Helper()
	msg, err := NewMessage().
		WithKey("booking-1").
		WithValue(map[string]string{"roomId": "A101"}).
		WithEventType("booking.created").
		WithCorrelationID("req-1").
		Build()
	require.NoError(t, err)
	return msg
}

func TestProducer_PublishWritesHeaders(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, nil, "room-bookings")

	require.NoError(t, p.Publish(context.Background(), buildMessage(t)))

	require.Len(t, w.written, 1)
	got := w.written[0]
	assert.Equal(t, "booking-1", string(got.Key))
	assert.JSONEq(t, `{"roomId":"A101"}`, string(got.Value))
	assert.Equal(t, "booking.created", headerValue(got, HeaderEventType))
	assert.Equal(t, "req-1", headerValue(got, HeaderCorrelationID))
	assert.NotEmpty(t, headerValue(got, HeaderEventID))
}

func TestProducer_RejectsIncompleteMessages(t *testing.T) {
	p := newProducer(&fakeWriter{}, nil, "room-bookings")

	assert.ErrorIs(t, p.Publish(context.Background(), Message{Value: []byte("x")}), ErrEmptyKey)
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k"}), ErrEmptyValue)
}

func TestProducer_MiddlewareOrder(t *testing.T) {
	p := newProducer(&fakeWriter{}, nil, "room-bookings")

	var order []string
	for _, name := range []string{"first", "second"} {
		name := name
		p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
			order = append(order, name)
			assert.Equal(t, "room-bookings", msg.Topic)
			return next(ctx, msg)
		})
	}

	require.NoError(t, p.Publish(context.Background(), buildMessage(t)))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestProducer_FailedWriteGoesToDLQ(t *testing.T) {
	writeErr := errors.New("connection refused")
	dlq := &fakeWriter{}
	p := newProducer(&fakeWriter{err: writeErr}, dlq, "room-bookings")

	err := p.Publish(context.Background(), buildMessage(t))
	assert.ErrorIs(t, err, writeErr)

	require.Len(t, dlq.written, 1)
	assert.Equal(t, "room-bookings", headerValue(dlq.written[0], HeaderOriginalTopic))
	assert.Equal(t, "connection refused", headerValue(dlq.written[0], "dlq-error"))
}

func TestProducer_Closed(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, nil, "room-bookings")

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
	assert.ErrorIs(t, p.Publish(context.Background(), buildMessage(t)), ErrProducerClosed)
}
