package service

import (
	"context"
	"fmt"
	"time"

	"voyago/internal/database"
	apperrors "voyago/internal/errors"
	"voyago/internal/external"
	"voyago/internal/logger"
	"voyago/internal/messaging"
	"voyago/internal/models"
	"voyago/internal/repository"
)

// BookingService owns the booking lifecycle: PENDING on creation,
// CONFIRMED via payment reconciliation, deleted on cancel or expiry.
type BookingService struct {
	db            *database.DB
	bookingRepo   *repository.BookingRepository
	inventoryRepo *repository.InventoryRepository
	catalogRepo   *repository.CatalogRepository
	invoiceRepo   *repository.InvoiceRepository
	userRepo      *repository.UserRepository
	mailer        *external.Mailer
	natsClient    *messaging.NATSClient
}

func NewBookingService(db *database.DB, repos *repository.Repositories, mailer *external.Mailer, natsClient *messaging.NATSClient) *BookingService {
	return &BookingService{
		db:            db,
		bookingRepo:   repos.Bookings,
		inventoryRepo: repos.Inventory,
		catalogRepo:   repos.Catalog,
		invoiceRepo:   repos.Invoices,
		userRepo:      repos.Users,
		mailer:        mailer,
		natsClient:    natsClient,
	}
}

// Create validates the resource, reserves inventory and persists the
// booking as PENDING. The reservation and the booking row commit in one
// transaction.
func (s *BookingService) Create(ctx context.Context, userID int64, req *models.CreateBookingRequest) (*models.CreateBookingResponse, error) {
	rt := models.ResourceType(req.ResourceType)
	if !rt.Valid() {
		return nil, fmt.Errorf("unknown resource type %q: %w", req.ResourceType, apperrors.ErrNotFound)
	}

	totalAmount, err := s.priceResource(ctx, rt, req.ResourceID, req.Quantity)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		UserID:       userID,
		ResourceType: rt,
		ResourceID:   req.ResourceID,
		Quantity:     req.Quantity,
		TotalAmount:  totalAmount,
		Status:       models.BookingStatusPending,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.inventoryRepo.ReserveTx(ctx, tx, rt, req.ResourceID, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.CreateTx(ctx, tx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit booking: %w", err)
	}

	event := models.BookingCreatedEvent{
		BookingID:    booking.ID,
		UserID:       booking.UserID,
		ResourceType: booking.ResourceType,
		ResourceID:   booking.ResourceID,
		Quantity:     booking.Quantity,
		TotalAmount:  booking.TotalAmount,
		Timestamp:    time.Now(),
	}
	if err := s.natsClient.Publish(models.EventBookingCreated, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish booking created event",
			"error", err,
			"booking_id", booking.ID)
	}

	return &models.CreateBookingResponse{
		ID:          booking.ID,
		TotalAmount: booking.TotalAmount,
		Status:      booking.Status,
	}, nil
}

// priceResource loads the resource and computes the booking total. Closed
// tours bundle the hotel and transport components and take a 7% discount;
// the arithmetic follows the catalog pricing rules as given.
func (s *BookingService) priceResource(ctx context.Context, rt models.ResourceType, resourceID int64, qty int) (int64, error) {
	switch rt {
	case models.ResourceFlight:
		flight, err := s.catalogRepo.GetFlight(ctx, resourceID)
		if err != nil {
			return 0, fmt.Errorf("failed to get flight: %w", err)
		}
		if flight == nil {
			return 0, apperrors.ErrNotFound
		}
		return flight.UnitPrice * int64(qty), nil

	case models.ResourceHotelRoom:
		room, err := s.catalogRepo.GetHotelRoom(ctx, resourceID)
		if err != nil {
			return 0, fmt.Errorf("failed to get hotel room: %w", err)
		}
		if room == nil || !room.Available {
			return 0, apperrors.ErrNotFound
		}
		return room.UnitPrice * int64(qty), nil

	case models.ResourceTour:
		tour, err := s.catalogRepo.GetTour(ctx, resourceID)
		if err != nil {
			return 0, fmt.Errorf("failed to get tour: %w", err)
		}
		if tour == nil {
			return 0, apperrors.ErrNotFound
		}
		if tour.Closed {
			bundle := tour.UnitPrice + tour.HotelComponent + tour.TransportComponent
			return bundle * int64(qty) * 93 / 100, nil
		}
		return tour.UnitPrice * int64(qty), nil

	case models.ResourceVehicleTrip:
		trip, err := s.catalogRepo.GetVehicleTrip(ctx, resourceID)
		if err != nil {
			return 0, fmt.Errorf("failed to get vehicle trip: %w", err)
		}
		if trip == nil {
			return 0, apperrors.ErrNotFound
		}
		return trip.UnitPrice * int64(qty), nil
	}

	return 0, apperrors.ErrNotFound
}

func (s *BookingService) List(ctx context.Context, userID int64) (models.ListBookingsResponse, error) {
	bookings, err := s.bookingRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}

	result := make(models.ListBookingsResponse, len(bookings))
	for i, booking := range bookings {
		result[i] = models.ListBookingsResponseItem{
			ID:           booking.ID,
			ResourceType: string(booking.ResourceType),
			ResourceID:   booking.ResourceID,
			Quantity:     booking.Quantity,
			TotalAmount:  booking.TotalAmount,
			Status:       booking.Status,
		}
	}

	return result, nil
}

// Cancel releases the booking's reserved units and deletes the booking,
// both in one transaction. Only the owning user may cancel, and only while
// the booking is still PENDING.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID int64) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return apperrors.ErrNotFound
	}
	if booking.UserID != userID {
		return apperrors.ErrNotAuthorized
	}
	if booking.Status != models.BookingStatusPending {
		return fmt.Errorf("booking %d is %s: %w", bookingID, booking.Status, apperrors.ErrAlreadyProcessed)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.inventoryRepo.ReleaseTx(ctx, tx, booking.ResourceType, booking.ResourceID, booking.Quantity); err != nil {
		return fmt.Errorf("failed to release inventory: %w", err)
	}

	if err := s.bookingRepo.DeleteTx(ctx, tx, bookingID); err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cancellation: %w", err)
	}

	event := models.BookingCancelledEvent{
		BookingID:    booking.ID,
		UserID:       booking.UserID,
		ResourceType: booking.ResourceType,
		ResourceID:   booking.ResourceID,
		Quantity:     booking.Quantity,
		Timestamp:    time.Now(),
	}
	if err := s.natsClient.Publish(models.EventBookingCancelled, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish booking cancelled event",
			"error", err,
			"booking_id", booking.ID)
	}

	return nil
}

// Confirm transitions a booking to CONFIRMED, writes the invoice record and
// triggers the confirmation mail. It is reachable only from payment
// reconciliation; no HTTP route calls it. Idempotent: a booking that is
// already CONFIRMED is left untouched with no repeated side effects.
func (s *BookingService) Confirm(ctx context.Context, bookingID int64) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return apperrors.ErrNotFound
	}

	affected, err := s.bookingRepo.Confirm(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to confirm booking: %w", err)
	}
	if affected == 0 {
		// Already confirmed by an earlier reconciliation.
		return nil
	}

	invoice := &models.InvoiceDetail{
		BookingID: booking.ID,
		UserID:    booking.UserID,
		Amount:    booking.TotalAmount,
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	s.notifyConfirmation(booking)

	event := models.BookingConfirmedEvent{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		TotalAmount: booking.TotalAmount,
		Timestamp:   time.Now(),
	}
	if err := s.natsClient.Publish(models.EventBookingConfirmed, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish booking confirmed event",
			"error", err,
			"booking_id", booking.ID)
	}

	return nil
}

// notifyConfirmation sends the confirmation mail in the background. A mail
// failure never fails the confirmation itself.
func (s *BookingService) notifyConfirmation(booking *models.Booking) {
	if s.mailer == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		user, err := s.userRepo.GetByID(ctx, booking.UserID)
		if err != nil || user == nil {
			logger.Get().Error("Failed to load user for confirmation mail",
				"error", err,
				"user_id", booking.UserID,
				"booking_id", booking.ID)
			return
		}

		if err := s.mailer.SendBookingConfirmation(ctx, user.Email, booking.ID, booking.TotalAmount); err != nil {
			logger.Get().Error("Failed to send confirmation mail",
				"error", err,
				"booking_id", booking.ID)
		}
	}()
}
