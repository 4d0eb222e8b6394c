package main

import (
	"roomdesk/internal/occupancy/handler"
	"roomdesk/internal/occupancy/service"
	"roomdesk/internal/reservations/repository"
	"roomdesk/pkg/app"
	"roomdesk/pkg/config"
)

const ServiceName = "calendar"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting Calendar service")
	occupancyService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewCalendarHandler(occupancyService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.OccupancyService {
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	occupancyService := service.NewOccupancyService(reservationRepo, cfg)

	cfg.Log.Info("Occupancy service initialized", "database", cfg.MongoDatabaseName)
	return occupancyService
}
