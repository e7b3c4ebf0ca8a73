package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "voyago/internal/errors"
	"voyago/internal/external"
	"voyago/internal/logger"
	"voyago/internal/messaging"
	"voyago/internal/models"
	"voyago/internal/repository"
)

// PaymentService adapts the MoMo gateway to the booking lifecycle. Local
// payment state is a mirror: the gateway decides outcomes, this service
// reconciles them exactly once.
type PaymentService struct {
	bookingRepo *repository.BookingRepository
	paymentRepo *repository.PaymentRepository
	bookings    *BookingService
	momo        *external.MomoClient
	natsClient  *messaging.NATSClient
}

func NewPaymentService(repos *repository.Repositories, bookings *BookingService, momo *external.MomoClient, natsClient *messaging.NATSClient) *PaymentService {
	return &PaymentService{
		bookingRepo: repos.Bookings,
		paymentRepo: repos.Payments,
		bookings:    bookings,
		momo:        momo,
		natsClient:  natsClient,
	}
}

// Create opens a gateway payment session for a pending booking owned by the
// caller. The gateway call happens before the local row is written, so a
// gateway failure leaves no PENDING payment behind.
func (s *PaymentService) Create(ctx context.Context, userID, bookingID int64) (*models.CreatePaymentResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrNotFound
	}
	if booking.UserID != userID {
		return nil, apperrors.ErrNotAuthorized
	}
	if booking.Status != models.BookingStatusPending {
		return nil, fmt.Errorf("booking %d is %s: %w", bookingID, booking.Status, apperrors.ErrAlreadyProcessed)
	}

	existing, err := s.paymentRepo.GetActiveByBookingID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing payment: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("booking %d already has payment %s: %w", bookingID, existing.OrderID, apperrors.ErrAlreadyProcessed)
	}

	requestID := uuid.New().String()
	orderID := fmt.Sprintf("%s_%d_%d", s.momo.PartnerCode(), bookingID, time.Now().UnixMilli())
	orderInfo := fmt.Sprintf("Voyago booking #%d", bookingID)

	gatewayResp, err := s.momo.CreatePayment(ctx, requestID, orderID, orderInfo, booking.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrGateway, err)
	}

	payment := &models.Payment{
		BookingID: bookingID,
		UserID:    userID,
		Amount:    booking.TotalAmount,
		OrderID:   orderID,
		RequestID: requestID,
		Method:    "momo_wallet",
		Status:    models.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to persist payment: %w", err)
	}

	event := models.PaymentInitiatedEvent{
		BookingID: bookingID,
		OrderID:   orderID,
		Amount:    booking.TotalAmount,
		Timestamp: time.Now(),
	}
	if err := s.natsClient.Publish(models.EventPaymentInitiated, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish payment initiated event",
			"error", err,
			"order_id", orderID)
	}

	return &models.CreatePaymentResponse{
		OrderID: orderID,
		PayURL:  gatewayResp.PayURL,
	}, nil
}

// CheckStatus polls the gateway for a payment's authoritative status and
// reconciles local state when the gateway reports success. Used as the
// fallback when the IPN callback was lost.
func (s *PaymentService) CheckStatus(ctx context.Context, orderID, requestID string) (*models.PaymentStatusResponse, error) {
	payment, err := s.paymentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if payment == nil {
		return nil, apperrors.ErrNotFound
	}
	if requestID == "" {
		requestID = payment.RequestID
	}

	queryResp, err := s.momo.QueryStatus(ctx, requestID, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrGateway, err)
	}

	status := payment.Status
	if queryResp.ResultCode == 0 {
		if err := s.reconcileSuccess(ctx, payment, queryResp.TransID); err != nil && !apperrors.Is(err, apperrors.ErrAlreadyProcessed) {
			return nil, err
		}
		status = models.PaymentStatusCompleted
	}

	return &models.PaymentStatusResponse{
		OrderID:    orderID,
		Status:     status,
		ResultCode: queryResp.ResultCode,
		Message:    queryResp.Message,
	}, nil
}

// HandleCallback processes a gateway IPN. The signature check is a hard
// gate: a payload that fails it changes nothing. Duplicate deliveries of a
// success callback collapse into a single completion.
func (s *PaymentService) HandleCallback(ctx context.Context, payload *models.PaymentCallbackPayload) error {
	fields := external.MomoCallbackFields{
		PartnerCode:  payload.PartnerCode,
		OrderID:      payload.OrderID,
		RequestID:    payload.RequestID,
		Amount:       payload.Amount,
		OrderInfo:    payload.OrderInfo,
		OrderType:    payload.OrderType,
		TransID:      payload.TransID,
		ResultCode:   payload.ResultCode,
		Message:      payload.Message,
		PayType:      payload.PayType,
		ResponseTime: payload.ResponseTime,
		ExtraData:    payload.ExtraData,
		Signature:    payload.Signature,
	}
	if !s.momo.VerifyCallback(fields) {
		return apperrors.ErrInvalidSignature
	}

	payment, err := s.paymentRepo.GetByOrderID(ctx, payload.OrderID)
	if err != nil {
		return fmt.Errorf("failed to get payment: %w", err)
	}
	if payment == nil {
		return fmt.Errorf("unknown order %s: %w", payload.OrderID, apperrors.ErrNotFound)
	}

	if payload.ResultCode != 0 {
		affected, err := s.paymentRepo.MarkFailed(ctx, payload.OrderID)
		if err != nil {
			return fmt.Errorf("failed to mark payment failed: %w", err)
		}
		if affected == 0 {
			// Already settled; never flip a completed payment back.
			return apperrors.ErrAlreadyProcessed
		}

		event := models.PaymentFailedEvent{
			BookingID:  payment.BookingID,
			OrderID:    payment.OrderID,
			ResultCode: payload.ResultCode,
			Message:    payload.Message,
			Timestamp:  time.Now(),
		}
		if err := s.natsClient.Publish(models.EventPaymentFailed, event); err != nil {
			logger.WithContext(ctx).Error("Failed to publish payment failed event",
				"error", err,
				"order_id", payment.OrderID)
		}
		return nil
	}

	if payload.Amount != payment.Amount {
		return fmt.Errorf("callback amount %d does not match payment amount %d for order %s",
			payload.Amount, payment.Amount, payload.OrderID)
	}

	return s.reconcileSuccess(ctx, payment, payload.TransID)
}

// reconcileSuccess applies a successful gateway outcome. The conditional
// PENDING->COMPLETED update is the idempotency point: zero rows affected
// means another delivery won, and only the winning path emits the completed
// event. Booking confirmation runs either way since it is itself idempotent,
// which lets a retry finish a confirmation that crashed mid-way.
func (s *PaymentService) reconcileSuccess(ctx context.Context, payment *models.Payment, transID int64) error {
	affected, err := s.paymentRepo.MarkCompleted(ctx, payment.OrderID, transID)
	if err != nil {
		return fmt.Errorf("failed to mark payment completed: %w", err)
	}

	if err := s.bookings.Confirm(ctx, payment.BookingID); err != nil {
		return fmt.Errorf("failed to confirm booking %d: %w", payment.BookingID, err)
	}

	if affected == 0 {
		return apperrors.ErrAlreadyProcessed
	}

	event := models.PaymentCompletedEvent{
		BookingID: payment.BookingID,
		OrderID:   payment.OrderID,
		TransID:   transID,
		Amount:    payment.Amount,
		Timestamp: time.Now(),
	}
	if err := s.natsClient.Publish(models.EventPaymentCompleted, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish payment completed event",
			"error", err,
			"order_id", payment.OrderID)
	}

	return nil
}
