package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"voyago/internal/database"
	"voyago/internal/logger"
	"voyago/internal/messaging"
	"voyago/internal/models"
	"voyago/internal/repository"
)

// ExpirySweeper reclaims inventory held by bookings that stayed PENDING past
// their TTL. Each category is swept independently and each booking is
// processed in its own transaction, so one bad row never blocks the rest.
type ExpirySweeper struct {
	db            *database.DB
	bookingRepo   *repository.BookingRepository
	inventoryRepo *repository.InventoryRepository
	natsClient    *messaging.NATSClient
	schedule      string
	ttl           time.Duration
	cron          *cron.Cron
}

func NewExpirySweeper(db *database.DB, repos *repository.Repositories, natsClient *messaging.NATSClient, schedule string, ttl time.Duration) *ExpirySweeper {
	return &ExpirySweeper{
		db:            db,
		bookingRepo:   repos.Bookings,
		inventoryRepo: repos.Inventory,
		natsClient:    natsClient,
		schedule:      schedule,
		ttl:           ttl,
	}
}

// Start registers the sweep on the cron schedule and begins running it.
func (s *ExpirySweeper) Start() error {
	s.cron = cron.New(cron.WithSeconds())

	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if err := s.RunOnce(ctx); err != nil {
			logger.Get().Error("Expiry sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Get().Info("Expiry sweeper started",
		"schedule", s.schedule,
		"ttl", s.ttl.String())
	return nil
}

// Stop halts the cron scheduler and waits for a running sweep to finish.
func (s *ExpirySweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	logger.Get().Info("Expiry sweeper stopped")
}

// RunOnce performs a single sweep over every bookable category.
func (s *ExpirySweeper) RunOnce(ctx context.Context) error {
	cutoff := time.Now().Add(-s.ttl)
	log := logger.Get()

	var total int
	for _, rt := range models.ResourceTypes {
		expired, err := s.bookingRepo.GetExpiredByType(ctx, rt, cutoff)
		if err != nil {
			log.Error("Failed to query expired bookings",
				"error", err,
				"resource_type", rt)
			continue
		}

		for _, booking := range expired {
			if err := s.expireBooking(ctx, &booking); err != nil {
				log.Error("Failed to expire booking",
					"error", err,
					"booking_id", booking.ID,
					"resource_type", rt)
				continue
			}
			total++
		}
	}

	if total > 0 {
		log.Info("Expiry sweep reclaimed bookings", "count", total)
	}
	return nil
}

// expireBooking releases the booking's units and deletes it in one
// transaction.
func (s *ExpirySweeper) expireBooking(ctx context.Context, booking *models.Booking) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.inventoryRepo.ReleaseTx(ctx, tx, booking.ResourceType, booking.ResourceID, booking.Quantity); err != nil {
		return err
	}

	if err := s.bookingRepo.DeleteTx(ctx, tx, booking.ID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	event := models.BookingExpiredEvent{
		BookingID:    booking.ID,
		ResourceType: booking.ResourceType,
		ResourceID:   booking.ResourceID,
		Quantity:     booking.Quantity,
		Reason:       "pending_ttl_exceeded",
		Timestamp:    time.Now(),
	}
	if err := s.natsClient.Publish(models.EventBookingExpired, event); err != nil {
		logger.Get().Error("Failed to publish booking expired event",
			"error", err,
			"booking_id", booking.ID)
	}

	return nil
}
