package consumers

import (
	"log/slog"

	"voyago/internal/cache"
	"voyago/internal/config"
	"voyago/internal/database"
	"voyago/internal/jobs"
	"voyago/internal/messaging"
	"voyago/internal/repository"
	"voyago/internal/search"
)

// ConsumerService owns the worker side: event subscriptions plus the
// scheduled expiry sweep.
type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	handlers *Handlers
	sweeper  *jobs.ExpirySweeper
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(db)

	esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
	if err != nil {
		slog.Warn("Elasticsearch unavailable, tour indexing disabled", "error", err)
		esClient = nil
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, cache invalidation disabled", "error", err)
		redisClient = nil
	}

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		handlers: NewHandlers(repos, esClient, redisClient),
		sweeper:  jobs.NewExpirySweeper(db, repos, natsClient, cfg.SweepSchedule, cfg.BookingTTL),
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	if _, err := cs.nats.SubscribeQueue("tour.created", "workers", cs.handlers.HandleTourCreated); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue("booking.created", "workers", cs.handlers.HandleBookingCreated); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue("booking.confirmed", "workers", cs.handlers.HandleBookingConfirmed); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue("booking.expired", "workers", cs.handlers.HandleBookingExpired); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue("payment.completed", "workers", cs.handlers.HandlePaymentCompleted); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue("payment.failed", "workers", cs.handlers.HandlePaymentFailed); err != nil {
		return err
	}

	slog.Info("NATS consumers started")

	if err := cs.sweeper.Start(); err != nil {
		return err
	}

	return nil
}

func (cs *ConsumerService) Stop() {
	cs.sweeper.Stop()
	if err := cs.nats.Close(); err != nil {
		slog.Error("Failed to close NATS connection", "error", err)
	}
	if err := cs.db.Close(); err != nil {
		slog.Error("Failed to close database connection", "error", err)
	}
}
