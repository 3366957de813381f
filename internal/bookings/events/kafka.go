package events

import (
	"context"
	"fmt"

	"roombook/pkg/kafka"
	kafka_config "roombook/pkg/kafka/config"
	kafka_middleware "roombook/pkg/kafka/middleware"
	"roombook/pkg/logger"
	"roombook/pkg/middleware"

	"github.com/cockroachdb/errors"
)

type producer interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

// KafkaPublisher writes booking events keyed by booking id, so all events of
// one booking land on the same partition in order.
type KafkaPublisher struct {
	producer producer
	source   string
}

func NewKafkaPublisher(cfg *kafka_config.Config, source string, log *logger.Logger) (*KafkaPublisher, error) {
	p, err := kafka.NewProducer(cfg, cfg.BookingsTopic, cfg.DLQTopic, log)
	if err != nil {
		return nil, errors.Wrap(err, "create booking event producer")
	}
	p.Use(kafka_middleware.LoggingProducerMiddleware(log))

	return &KafkaPublisher{producer: p, source: source}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event BookingEvent) error {
	msg, err := kafka.NewMessage().
		WithKey(event.Booking.ID).
		WithValue(event).
		WithEventType(string(event.Type)).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithTimestamp(event.OccurredAt).
		Build()
	if err != nil {
		return errors.Wrapf(err, "encode %s event for booking %s", event.Type, event.Booking.ID)
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		return errors.Wrapf(err, "publish %s event for booking %s", event.Type, event.Booking.ID)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// New returns the Kafka publisher when Kafka is enabled and a no-op otherwise.
func New(cfg *kafka_config.Config, source string, log *logger.Logger) (Publisher, error) {
	if cfg == nil || !cfg.Enabled {
		log.Info("Booking events disabled")
		return NoopPublisher{}, nil
	}

	p, err := NewKafkaPublisher(cfg, source, log)
	if err != nil {
		return nil, err
	}
	log.Info("Booking events enabled", "topic", cfg.BookingsTopic, "brokers", fmt.Sprint(cfg.Brokers))
	return p, nil
}

// Decode turns a consumed message back into a BookingEvent.
func Decode(msg kafka.Message) (BookingEvent, error) {
	var event BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return BookingEvent{}, kafka.NewPermanentError("decode booking event", err)
	}
	if event.Type == "" {
		event.Type = EventType(msg.GetEventType())
	}
	return event, nil
}
