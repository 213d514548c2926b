package main

import (
	"huddle/internal/reservations/conflict"
	"huddle/internal/reservations/events"
	"huddle/internal/reservations/handler"
	"huddle/internal/reservations/repository"
	"huddle/internal/reservations/service"
	"huddle/internal/reservations/validator"
	roomsrepository "huddle/internal/rooms/repository"
	"huddle/pkg/app"
	"huddle/pkg/config"
	"huddle/pkg/kafka"
	kafka_config "huddle/pkg/kafka/config"
	kafka_middleware "huddle/pkg/kafka/middleware"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.Client.GracefulShutdown()

	cfg.Log.Info("Starting Reservations service")
	reservationService, producer := initServices(cfg)
	if producer != nil {
		defer producer.Close()
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewReservationHandler(reservationService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.ReservationService, *kafka.Producer) {
	reservationValidator := validator.NewReservationValidator(cfg.Log)
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	lockRepo := repository.NewReservationLockRepository(cfg)
	roomRepo := roomsrepository.NewMongoRoomRepository(cfg)
	checker := conflict.NewChecker(reservationRepo)

	producer := initProducer(cfg)
	var publisher events.Publisher
	if producer != nil {
		publisher = events.NewKafkaPublisher(producer, cfg.Log)
	}

	reservationService := service.NewReservationService(
		reservationRepo,
		lockRepo,
		roomRepo,
		checker,
		reservationValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService, producer
}

// initProducer wires the created-event producer. Reservations must keep
// working when Kafka is misconfigured, so failures degrade to running
// without event publishing.
func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Warn("Invalid Kafka configuration, events disabled", "error", err)
		return nil
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.ReservationCreatedTopic, "dlq-reservations")
	if err != nil {
		cfg.Log.Warn("Failed to create Kafka producer, events disabled", "error", err)
		return nil
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware())

	cfg.Log.Info("Kafka producer initialized", "topic", cfg.ReservationCreatedTopic)
	return producer
}
