package main

import (
	"time"

	"go.uber.org/zap"

	"mailsbe/config"
	"mailsbe/internal/db"
	"mailsbe/internal/mq"
	"mailsbe/internal/mqhandler"
	redisclient "mailsbe/internal/redis"
	"mailsbe/internal/repository"
	"mailsbe/internal/util"
)

func main() {
	// Load config
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	logger.Info("Starting worker service...")

	// Init Redis
	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	deduper := util.NewDeduper(rdb, time.Hour)

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// Init Repositories
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Init Handlers
	seenHandler := mqhandler.NewEmailSeenNotificationHandler(notificationRepo, logger, deduper)

	// Consumer for read receipts
	consumer, err := mq.NewConsumer(cfg.MQ.URL, "email.seen.notify.q", "email.seen", logger)
	if err != nil {
		logger.Fatal("failed to init consumer", zap.Error(err))
	}
	defer consumer.Close()
	consumer.SetHandler(seenHandler.HandleEmailSeen)

	// StartConsuming blocks until the channel closes
	if err := consumer.StartConsuming(); err != nil {
		logger.Fatal("consumer start failed", zap.Error(err))
	}
}
