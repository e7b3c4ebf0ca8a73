package consumers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/stan.go"

	"voyago/internal/cache"
	"voyago/internal/models"
	"voyago/internal/repository"
	"voyago/internal/search"
)

type Handlers struct {
	repos    *repository.Repositories
	esClient *search.ElasticsearchClient
	redis    *cache.RedisClient
}

func NewHandlers(repos *repository.Repositories, esClient *search.ElasticsearchClient, redis *cache.RedisClient) *Handlers {
	return &Handlers{
		repos:    repos,
		esClient: esClient,
		redis:    redis,
	}
}

// HandleTourCreated syncs a new tour into the search index and drops the
// cached tour listings.
func (h *Handlers) HandleTourCreated(m *stan.Msg) {
	var event models.TourCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal tour created event", "error", err)
		return
	}

	ctx := context.Background()

	if h.esClient != nil {
		if err := h.esClient.IndexTour(ctx, &event.Tour); err != nil {
			slog.Error("Failed to index tour", "tour_id", event.Tour.ID, "error", err)
			// Leave unacked so the durable subscription redelivers.
			return
		}
	}

	if h.redis != nil {
		if err := h.redis.InvalidateTourLists(ctx); err != nil {
			slog.Error("Failed to invalidate tour list cache", "error", err)
		}
	}

	m.Ack()
}

func (h *Handlers) HandleBookingCreated(m *stan.Msg) {
	var event models.BookingCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking created event", "error", err)
		return
	}

	slog.Info("Booking created",
		"booking_id", event.BookingID,
		"resource_type", event.ResourceType,
		"resource_id", event.ResourceID,
		"quantity", event.Quantity)

	m.Ack()
}

func (h *Handlers) HandleBookingConfirmed(m *stan.Msg) {
	var event models.BookingConfirmedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking confirmed event", "error", err)
		return
	}

	slog.Info("Booking confirmed",
		"booking_id", event.BookingID,
		"total_amount", event.TotalAmount)

	m.Ack()
}

func (h *Handlers) HandleBookingExpired(m *stan.Msg) {
	var event models.BookingExpiredEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking expired event", "error", err)
		return
	}

	slog.Info("Booking expired",
		"booking_id", event.BookingID,
		"resource_type", event.ResourceType,
		"quantity", event.Quantity,
		"reason", event.Reason)

	m.Ack()
}

func (h *Handlers) HandlePaymentCompleted(m *stan.Msg) {
	var event models.PaymentCompletedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal payment completed event", "error", err)
		return
	}

	slog.Info("Payment completed",
		"order_id", event.OrderID,
		"booking_id", event.BookingID,
		"trans_id", event.TransID,
		"amount", event.Amount)

	m.Ack()
}

func (h *Handlers) HandlePaymentFailed(m *stan.Msg) {
	var event models.PaymentFailedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal payment failed event", "error", err)
		return
	}

	slog.Warn("Payment failed",
		"order_id", event.OrderID,
		"booking_id", event.BookingID,
		"result_code", event.ResultCode,
		"message", event.Message)

	m.Ack()
}
