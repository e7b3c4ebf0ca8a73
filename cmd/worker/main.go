package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"voyago/internal/config"
	"voyago/internal/consumers"
	"voyago/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Get()

	// The worker holds its own streaming connection
	cfg.NATS.ClientID = "voyago-worker"

	worker, err := consumers.NewConsumerService(cfg)
	if err != nil {
		logger.Fatal("Failed to create worker", "error", err)
	}

	if err := worker.Start(); err != nil {
		logger.Fatal("Failed to start worker", "error", err)
	}

	log.Info("Worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down worker...")
	worker.Stop()
	log.Info("Worker stopped")
}
