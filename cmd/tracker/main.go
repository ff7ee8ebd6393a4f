package main

import (
	"log"

	"go.uber.org/zap"

	"mailsbe/config"
	"mailsbe/internal/api"
	"mailsbe/internal/db"
	"mailsbe/internal/mq"
	"mailsbe/internal/repository"
	"mailsbe/internal/service"
)

func main() {
	// Load config
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	logger.Info("Starting tracker service...")

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// Init RabbitMQ Publisher
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	// Init pixel pipeline
	emailRepo := repository.NewEmailRepository(dbConn)
	pixelService := service.NewPixelService(emailRepo, publisher, logger)
	pixelHandler := api.NewPixelHandler(pixelService, logger)

	// Router
	router := api.NewTrackerRouter(pixelHandler)

	logger.Info("Tracker listening", zap.String("port", cfg.Tracking.Port))

	if err := router.Run(cfg.Tracking.Port); err != nil {
		logger.Fatal("tracker start failed", zap.Error(err))
	}
}
