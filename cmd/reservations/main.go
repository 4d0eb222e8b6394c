package main

import (
	"roomdesk/internal/reservations/handler"
	"roomdesk/internal/reservations/repository"
	"roomdesk/internal/reservations/service"
	"roomdesk/internal/reservations/validator"
	"roomdesk/pkg/app"
	"roomdesk/pkg/config"
	"roomdesk/pkg/events"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting Reservations service")
	reservationService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewReservationHandler(reservationService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ReservationService {
	reservationValidator := validator.NewReservationValidator(cfg.Log)
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	lockManager := repository.NewMongoLockManager(cfg)
	producer := events.NewProducer(cfg.KafkaBrokers, cfg.ReservationsTopic)

	reservationService := service.NewReservationService(
		reservationRepo,
		lockManager,
		reservationValidator,
		producer,
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService
}
