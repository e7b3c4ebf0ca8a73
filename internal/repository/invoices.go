package repository

import (
	"context"
	"database/sql"

	"voyago/internal/database"
	"voyago/internal/models"
)

// InvoiceRepository writes the append-only confirmation audit records.
type InvoiceRepository struct {
	db *database.DB
}

func NewInvoiceRepository(db *database.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create inserts the invoice for a confirmed booking. The UNIQUE constraint
// on booking_id makes a second insert for the same booking a no-op.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.InvoiceDetail) error {
	query := `
		INSERT INTO invoice_details (booking_id, user_id, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (booking_id) DO NOTHING
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		invoice.BookingID,
		invoice.UserID,
		invoice.Amount,
	).Scan(&invoice.ID, &invoice.CreatedAt)
	if err == sql.ErrNoRows {
		// Conflict path: the invoice already exists.
		return nil
	}
	return err
}

func (r *InvoiceRepository) GetByBookingID(ctx context.Context, bookingID int64) (*models.InvoiceDetail, error) {
	invoice := &models.InvoiceDetail{}
	query := `
		SELECT id, booking_id, user_id, amount, created_at
		FROM invoice_details
		WHERE booking_id = $1`

	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(
		&invoice.ID,
		&invoice.BookingID,
		&invoice.UserID,
		&invoice.Amount,
		&invoice.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return invoice, err
}
