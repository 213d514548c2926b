// Package notifier consumes reservation events and delivers
// confirmations. Delivery is currently a structured log line; swapping
// in a mail or chat sender only means replacing the Sender.
package notifier

import (
	"context"
	"fmt"

	"huddle/pkg/config"
	"huddle/pkg/contracts"
	"huddle/pkg/kafka"
	kafka_config "huddle/pkg/kafka/config"
	kafka_middleware "huddle/pkg/kafka/middleware"
	"huddle/pkg/logger"
)

// Sender delivers one confirmation. Returning an error puts the message
// back on the retry/DLQ path.
type Sender interface {
	Send(ctx context.Context, event *contracts.ReservationCreatedEvent) error
}

// LogSender writes the confirmation to the service log.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, event *contracts.ReservationCreatedEvent) error {
	s.log.Info("Reservation confirmation",
		"reservation_id", event.ReservationID,
		"room_name", event.RoomName,
		"reserved_by", event.ReservedBy,
		"start_time", event.StartTime,
		"end_time", event.EndTime,
	)
	return nil
}

// Worker consumes reservation.created events and hands each one to the
// sender.
type Worker struct {
	consumer *kafka.Consumer
	cfg      *config.Config
}

func NewWorker(cfg *config.Config, kafkaCfg *kafka_config.Config, sender Sender) (*Worker, error) {
	if sender == nil {
		return nil, fmt.Errorf("sender cannot be nil")
	}

	handler := func(ctx context.Context, msg kafka.Message) error {
		var event contracts.ReservationCreatedEvent
		if err := msg.DecodeValue(&event); err != nil {
			return kafka.NewPermanentError("invalid reservation event payload", err)
		}
		if event.ReservationID == "" {
			return kafka.NewPermanentError("reservation event missing reservation_id", nil)
		}
		return sender.Send(ctx, &event)
	}

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.ReservationCreatedTopic,
		cfg.NotifierGroupID,
		"dlq-notifier",
		handler,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create notifier consumer: %w", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware())

	return &Worker{
		consumer: consumer,
		cfg:      cfg,
	}, nil
}

// Run consumes until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.cfg.Log.Info("Notifier worker started",
		"topic", w.cfg.ReservationCreatedTopic,
		"group_id", w.cfg.NotifierGroupID,
	)
	return w.consumer.Start(ctx)
}

func (w *Worker) Close() error {
	return w.consumer.Close()
}
