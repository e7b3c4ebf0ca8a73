package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyago/internal/models"
)

var bookingColumns = []string{
	"id", "user_id", "resource_type", "resource_id", "quantity",
	"total_amount", "status", "created_at", "updated_at",
}

func TestBookingGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(
				int64(1), int64(9), "tour", int64(10), 2,
				int64(8370000), models.BookingStatusPending, now, now,
			))

		booking, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, booking)
		assert.Equal(t, models.ResourceTour, booking.ResourceType)
		assert.Equal(t, 2, booking.Quantity)
	})

	t.Run("Missing Returns Nil", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows(bookingColumns))

		booking, err := repo.GetByID(ctx, 404)
		require.NoError(t, err)
		assert.Nil(t, booking)
	})
}

func TestBookingCreateTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO bookings`).
		WithArgs(int64(9), models.ResourceFlight, int64(3), 1, int64(2500000), models.BookingStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(11), now, now))
	mock.ExpectCommit()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	booking := &models.Booking{
		UserID:       9,
		ResourceType: models.ResourceFlight,
		ResourceID:   3,
		Quantity:     1,
		TotalAmount:  2500000,
		Status:       models.BookingStatusPending,
	}
	require.NoError(t, repo.CreateTx(ctx, tx, booking))
	require.NoError(t, tx.Commit())

	assert.Equal(t, int64(11), booking.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingConfirm(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Pending Becomes Confirmed", func(t *testing.T) {
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		affected, err := repo.Confirm(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)
	})

	t.Run("Already Confirmed", func(t *testing.T) {
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		affected, err := repo.Confirm(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), affected)
	})
}

func TestGetExpiredByType(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()
	now := time.Now()
	cutoff := now.Add(-24 * time.Hour)

	mock.ExpectQuery(`SELECT (.+) FROM bookings`).
		WithArgs(models.ResourceTour, cutoff).
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow(int64(1), int64(9), "tour", int64(10), 2, int64(8370000), models.BookingStatusPending, now.Add(-30*time.Hour), now).
			AddRow(int64(2), int64(5), "tour", int64(11), 1, int64(4500000), models.BookingStatusPending, now.Add(-25*time.Hour), now))

	expired, err := repo.GetExpiredByType(ctx, models.ResourceTour, cutoff)
	require.NoError(t, err)
	require.Len(t, expired, 2)
	assert.Equal(t, int64(1), expired[0].ID)
	assert.Equal(t, int64(2), expired[1].ID)
}
