package events

import (
	"context"

	"huddle/pkg/contracts"
	"huddle/pkg/kafka"
	"huddle/pkg/logger"
)

// Publisher emits reservation lifecycle events. Implementations must be
// safe for concurrent use.
type Publisher interface {
	ReservationCreated(ctx context.Context, event *contracts.ReservationCreatedEvent) error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *kafkaPublisher) ReservationCreated(ctx context.Context, event *contracts.ReservationCreatedEvent) error {
	msg := kafka.NewMessage().
		WithKey(event.ReservationID).
		WithValue(event).
		WithEventID("").
		WithEventType(contracts.EventTypeReservationCreated).
		WithSource("reservations-service").
		Build()

	return p.producer.Publish(ctx, msg)
}
