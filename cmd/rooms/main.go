package main

import (
	"roomly/internal/rooms/handler"
	"roomly/internal/rooms/notify"
	"roomly/internal/rooms/promotion"
	"roomly/internal/rooms/registry"
	"roomly/internal/rooms/service"
	"roomly/internal/rooms/sweeper"
	"roomly/internal/rooms/validator"
	"roomly/pkg/app"
	"roomly/pkg/config"

	"github.com/joho/godotenv"
)

const ServiceName = "rooms"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting rooms service")

	reg := registry.New(cfg.SeedRooms(), cfg.Log)
	scheduler := promotion.NewScheduler(cfg.Log)
	publisher := initPublisher(cfg)

	roomService := service.NewRoomService(
		reg,
		scheduler,
		validator.NewRequestValidator(cfg.Log),
		publisher,
		cfg,
	)
	lifecycleSweeper := sweeper.New(reg, scheduler, publisher, cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewRoomHandler(roomService, cfg.Log), lifecycleSweeper, publisher)
	serverApp.Run()
}

func initPublisher(cfg *config.Config) notify.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("No Kafka brokers configured, lifecycle events disabled")
		return notify.NewNop()
	}
	return notify.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.Log)
}
