package repository

import (
	"context"
	"database/sql"
	"time"

	"voyago/internal/database"
	"voyago/internal/models"
)

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateTx inserts the booking inside the caller's transaction, alongside
// the inventory decrement.
func (r *BookingRepository) CreateTx(ctx context.Context, tx *sql.Tx, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (user_id, resource_type, resource_id, quantity, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	return tx.QueryRowContext(ctx, query,
		booking.UserID,
		booking.ResourceType,
		booking.ResourceID,
		booking.Quantity,
		booking.TotalAmount,
		booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `
		SELECT id, user_id, resource_type, resource_id, quantity, total_amount, status, created_at, updated_at
		FROM bookings
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ResourceType,
		&booking.ResourceID,
		&booking.Quantity,
		&booking.TotalAmount,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return booking, err
}

func (r *BookingRepository) GetByUserID(ctx context.Context, userID int64) ([]models.Booking, error) {
	query := `
		SELECT id, user_id, resource_type, resource_id, quantity, total_amount, status, created_at, updated_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.ResourceType,
			&booking.ResourceID,
			&booking.Quantity,
			&booking.TotalAmount,
			&booking.Status,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// GetExpiredByType returns PENDING bookings of one resource category created
// before the cutoff. Categories are swept independently.
func (r *BookingRepository) GetExpiredByType(ctx context.Context, rt models.ResourceType, cutoff time.Time) ([]models.Booking, error) {
	query := `
		SELECT id, user_id, resource_type, resource_id, quantity, total_amount, status, created_at, updated_at
		FROM bookings
		WHERE resource_type = $1 AND status = 'PENDING' AND created_at < $2
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, rt, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.ResourceType,
			&booking.ResourceID,
			&booking.Quantity,
			&booking.TotalAmount,
			&booking.Status,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// Confirm transitions a PENDING booking to CONFIRMED. Returns the number of
// rows changed: 0 means the booking was missing or already confirmed.
func (r *BookingRepository) Confirm(ctx context.Context, id int64) (int64, error) {
	query := `
		UPDATE bookings
		SET status = 'CONFIRMED', updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteTx removes the booking inside the caller's transaction, alongside
// the inventory release.
func (r *BookingRepository) DeleteTx(ctx context.Context, tx *sql.Tx, id int64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	return err
}
