package repository

import (
	"context"
	"database/sql"
	"fmt"

	"voyago/internal/database"
	apperrors "voyago/internal/errors"
	"voyago/internal/models"
)

// resourceTables maps a resource type to the catalog table carrying its
// capacity counter.
var resourceTables = map[models.ResourceType]string{
	models.ResourceFlight:      "flights",
	models.ResourceHotelRoom:   "hotel_rooms",
	models.ResourceTour:        "tours",
	models.ResourceVehicleTrip: "vehicle_trips",
}

// InventoryRepository is the single write path for remaining_units. Every
// capacity mutation in the system goes through Reserve or Release.
type InventoryRepository struct {
	db *database.DB
}

func NewInventoryRepository(db *database.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Reserve decrements remaining_units by qty if and only if enough units
// remain. The check and the decrement are one conditional UPDATE, so two
// concurrent reservations against the same row serialize on the row lock
// and can never oversell.
func (r *InventoryRepository) Reserve(ctx context.Context, rt models.ResourceType, resourceID int64, qty int) error {
	return r.reserve(ctx, r.db, rt, resourceID, qty)
}

// ReserveTx runs Reserve inside a caller-owned transaction so the booking
// insert and the decrement commit or roll back together.
func (r *InventoryRepository) ReserveTx(ctx context.Context, tx *sql.Tx, rt models.ResourceType, resourceID int64, qty int) error {
	return r.reserve(ctx, tx, rt, resourceID, qty)
}

func (r *InventoryRepository) reserve(ctx context.Context, q execer, rt models.ResourceType, resourceID int64, qty int) error {
	table, ok := resourceTables[rt]
	if !ok {
		return fmt.Errorf("unknown resource type %q: %w", rt, apperrors.ErrNotFound)
	}
	if qty <= 0 {
		return fmt.Errorf("reserve quantity must be positive, got %d", qty)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET remaining_units = remaining_units - $1, updated_at = NOW()
		WHERE id = $2 AND remaining_units >= $1`, table)

	res, err := q.ExecContext(ctx, query, qty, resourceID)
	if err != nil {
		return fmt.Errorf("failed to reserve %d units of %s %d: %w", qty, rt, resourceID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Zero rows: either the resource is missing or it is undercapacity.
	var exists bool
	probe := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table)
	if err := q.QueryRowContext(ctx, probe, resourceID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to probe %s %d: %w", rt, resourceID, err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrInsufficientCapacity
}

// Release credits qty back, bounded by the resource's original capacity.
// Callers guarantee at-most-once release per reservation via the booking
// status transition; the ledger itself does not track reservations.
func (r *InventoryRepository) Release(ctx context.Context, rt models.ResourceType, resourceID int64, qty int) error {
	return r.release(ctx, r.db, rt, resourceID, qty)
}

// ReleaseTx runs Release inside a caller-owned transaction, paired with the
// booking delete during cancellation and expiry.
func (r *InventoryRepository) ReleaseTx(ctx context.Context, tx *sql.Tx, rt models.ResourceType, resourceID int64, qty int) error {
	return r.release(ctx, tx, rt, resourceID, qty)
}

func (r *InventoryRepository) release(ctx context.Context, q execer, rt models.ResourceType, resourceID int64, qty int) error {
	table, ok := resourceTables[rt]
	if !ok {
		return fmt.Errorf("unknown resource type %q: %w", rt, apperrors.ErrNotFound)
	}
	if qty <= 0 {
		return fmt.Errorf("release quantity must be positive, got %d", qty)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET remaining_units = LEAST(remaining_units + $1, total_units), updated_at = NOW()
		WHERE id = $2`, table)

	res, err := q.ExecContext(ctx, query, qty, resourceID)
	if err != nil {
		return fmt.Errorf("failed to release %d units of %s %d: %w", qty, rt, resourceID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
