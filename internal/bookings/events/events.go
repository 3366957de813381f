package events

import (
	"context"
	"time"

	"roombook/pkg/model"
)

type EventType string

const (
	BookingCreated EventType = "booking.created"
	BookingUpdated EventType = "booking.updated"
	BookingDeleted EventType = "booking.deleted"

	SchemaVersion = "1"
)

// BookingEvent is the payload of every booking topic message.
type BookingEvent struct {
	Type       EventType     `json:"type"`
	Booking    model.Booking `json:"booking"`
	OccurredAt time.Time     `json:"occurredAt"`
}

// Publisher announces committed booking changes. Implementations must not
// block the caller for longer than ctx allows.
type Publisher interface {
	Publish(ctx context.Context, event BookingEvent) error
	Close() error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, BookingEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
