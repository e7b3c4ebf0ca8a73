package repository

import (
	"context"
	"database/sql"

	"voyago/internal/database"
	"voyago/internal/models"
)

type PaymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (booking_id, user_id, amount, order_id, request_id, method, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		payment.BookingID,
		payment.UserID,
		payment.Amount,
		payment.OrderID,
		payment.RequestID,
		payment.Method,
		payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
}

func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	payment := &models.Payment{}
	query := `
		SELECT id, booking_id, user_id, amount, order_id, request_id, method, status, trans_id, created_at, updated_at
		FROM payments
		WHERE order_id = $1`

	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.UserID,
		&payment.Amount,
		&payment.OrderID,
		&payment.RequestID,
		&payment.Method,
		&payment.Status,
		&payment.TransID,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return payment, err
}

// GetActiveByBookingID returns the booking's non-FAILED payment, if any.
// The partial unique index on payments(booking_id) guarantees at most one.
func (r *PaymentRepository) GetActiveByBookingID(ctx context.Context, bookingID int64) (*models.Payment, error) {
	payment := &models.Payment{}
	query := `
		SELECT id, booking_id, user_id, amount, order_id, request_id, method, status, trans_id, created_at, updated_at
		FROM payments
		WHERE booking_id = $1 AND status <> 'FAILED'`

	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.UserID,
		&payment.Amount,
		&payment.OrderID,
		&payment.RequestID,
		&payment.Method,
		&payment.Status,
		&payment.TransID,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return payment, err
}

// MarkCompleted moves a PENDING payment to COMPLETED. Returns the number of
// rows changed: 0 means the payment had already left PENDING, which is how
// duplicate callbacks are detected.
func (r *PaymentRepository) MarkCompleted(ctx context.Context, orderID string, transID int64) (int64, error) {
	query := `
		UPDATE payments
		SET status = 'COMPLETED', trans_id = $2, updated_at = NOW()
		WHERE order_id = $1 AND status = 'PENDING'`

	res, err := r.db.ExecContext(ctx, query, orderID, transID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// MarkFailed moves a PENDING payment to FAILED. A payment that already
// completed is never reverted.
func (r *PaymentRepository) MarkFailed(ctx context.Context, orderID string) (int64, error) {
	query := `
		UPDATE payments
		SET status = 'FAILED', updated_at = NOW()
		WHERE order_id = $1 AND status = 'PENDING'`

	res, err := r.db.ExecContext(ctx, query, orderID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
