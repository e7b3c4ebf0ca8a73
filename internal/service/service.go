package service

import (
	"voyago/internal/database"
	"voyago/internal/external"
	"voyago/internal/messaging"
	"voyago/internal/repository"
	"voyago/internal/search"
)

// Services aggregates all business services
type Services struct {
	Bookings *BookingService
	Payments *PaymentService
	Catalog  *CatalogService
}

func NewServices(db *database.DB, repos *repository.Repositories, momo *external.MomoClient, mailer *external.Mailer, esClient *search.ElasticsearchClient, natsClient *messaging.NATSClient) *Services {
	bookings := NewBookingService(db, repos, mailer, natsClient)

	return &Services{
		Bookings: bookings,
		Payments: NewPaymentService(repos, bookings, momo, natsClient),
		Catalog:  NewCatalogService(repos, esClient, natsClient),
	}
}
