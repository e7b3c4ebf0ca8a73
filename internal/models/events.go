package models

import "time"

// NATS subjects
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingExpired   = "booking.expired"
	EventPaymentInitiated = "payment.initiated"
	EventPaymentCompleted = "payment.completed"
	EventPaymentFailed    = "payment.failed"
	EventTourCreated      = "tour.created"
)

// BookingCreatedEvent is published after a booking row is committed
type BookingCreatedEvent struct {
	BookingID    int64        `json:"booking_id"`
	UserID       int64        `json:"user_id"`
	ResourceType ResourceType `json:"resource_type"`
	ResourceID   int64        `json:"resource_id"`
	Quantity     int          `json:"quantity"`
	TotalAmount  int64        `json:"total_amount"`
	Timestamp    time.Time    `json:"timestamp"`
}

// BookingConfirmedEvent is published when payment reconciliation confirms
// a booking
type BookingConfirmedEvent struct {
	BookingID   int64     `json:"booking_id"`
	UserID      int64     `json:"user_id"`
	TotalAmount int64     `json:"total_amount"`
	Timestamp   time.Time `json:"timestamp"`
}

// BookingCancelledEvent is published after a user cancellation
type BookingCancelledEvent struct {
	BookingID    int64        `json:"booking_id"`
	UserID       int64        `json:"user_id"`
	ResourceType ResourceType `json:"resource_type"`
	ResourceID   int64        `json:"resource_id"`
	Quantity     int          `json:"quantity"`
	Timestamp    time.Time    `json:"timestamp"`
}

// BookingExpiredEvent is published by the expiry sweeper
type BookingExpiredEvent struct {
	BookingID    int64        `json:"booking_id"`
	ResourceType ResourceType `json:"resource_type"`
	ResourceID   int64        `json:"resource_id"`
	Quantity     int          `json:"quantity"`
	Reason       string       `json:"reason"`
	Timestamp    time.Time    `json:"timestamp"`
}

// PaymentInitiatedEvent is published after a gateway session is created
type PaymentInitiatedEvent struct {
	BookingID int64     `json:"booking_id"`
	OrderID   string    `json:"order_id"`
	Amount    int64     `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// PaymentCompletedEvent is published exactly once per completed payment
type PaymentCompletedEvent struct {
	BookingID int64     `json:"booking_id"`
	OrderID   string    `json:"order_id"`
	TransID   int64     `json:"trans_id"`
	Amount    int64     `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// PaymentFailedEvent is published when the gateway reports a failed payment
type PaymentFailedEvent struct {
	BookingID  int64     `json:"booking_id"`
	OrderID    string    `json:"order_id"`
	ResultCode int       `json:"result_code"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

// TourCreatedEvent triggers search-index sync in the worker
type TourCreatedEvent struct {
	Tour      Tour      `json:"tour"`
	Timestamp time.Time `json:"timestamp"`
}
