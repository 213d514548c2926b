package main

import (
	"huddle/internal/reservations/repository"
	"huddle/internal/rooms/handler"
	roomsrepository "huddle/internal/rooms/repository"
	"huddle/internal/rooms/service"
	"huddle/internal/rooms/validator"
	"huddle/pkg/app"
	"huddle/pkg/config"
)

const ServiceName = "rooms"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.Client.GracefulShutdown()

	cfg.Log.Info("Starting Rooms service")
	roomService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewRoomHandler(roomService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.RoomService {
	roomValidator := validator.NewRoomValidator(cfg.Log)
	roomRepo := roomsrepository.NewMongoRoomRepository(cfg)
	// Deleting a room cascades to its reservations, so the rooms service
	// carries the reservation repository as the purger.
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	roomService := service.NewRoomService(
		roomRepo,
		reservationRepo,
		roomValidator,
		cfg,
	)

	cfg.Log.Info("Room service initialized", "database", cfg.MongoDatabaseName)
	return roomService
}
