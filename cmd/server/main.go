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

	// Init Repositories
	userRepo := repository.NewUserRepository(dbConn)
	emailRepo := repository.NewEmailRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Init Services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret)
	trackingService := service.NewTrackingService(emailRepo, publisher, cfg.Tracking.BaseURL)

	// Init Handlers
	authHandler := api.NewAuthHandler(authService)
	emailHandler := api.NewEmailHandler(trackingService)
	notificationHandler := api.NewNotificationHandler(notificationRepo)

	// Router
	router := api.NewRouter(authHandler, emailHandler, notificationHandler, cfg.JWT.Secret)

	// Start API server
	if err := router.Run(cfg.Server.Port); err != nil {
		logger.Fatal("server start failed", zap.Error(err))
	}
}
