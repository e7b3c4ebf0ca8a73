package repository

import (
	"context"
	"database/sql"

	"voyago/internal/database"
	"voyago/internal/models"
)

// CatalogRepository reads and creates catalog entries. Capacity counters are
// written only through the InventoryRepository.
type CatalogRepository struct {
	db *database.DB
}

func NewCatalogRepository(db *database.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) CreateFlight(ctx context.Context, f *models.Flight) error {
	query := `
		INSERT INTO flights (airline, flight_no, origin, destination, departs_at, unit_price, total_units, remaining_units)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id, remaining_units, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		f.Airline, f.FlightNo, f.Origin, f.Destination, f.DepartsAt, f.UnitPrice, f.TotalUnits,
	).Scan(&f.ID, &f.RemainingUnits, &f.CreatedAt, &f.UpdatedAt)
}

func (r *CatalogRepository) GetFlight(ctx context.Context, id int64) (*models.Flight, error) {
	f := &models.Flight{}
	query := `
		SELECT id, airline, flight_no, origin, destination, departs_at, unit_price, total_units, remaining_units, created_at, updated_at
		FROM flights
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&f.ID, &f.Airline, &f.FlightNo, &f.Origin, &f.Destination, &f.DepartsAt,
		&f.UnitPrice, &f.TotalUnits, &f.RemainingUnits, &f.CreatedAt, &f.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return f, err
}

func (r *CatalogRepository) CreateHotelRoom(ctx context.Context, h *models.HotelRoom) error {
	query := `
		INSERT INTO hotel_rooms (hotel_name, room_type, available, unit_price, total_units, remaining_units)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id, remaining_units, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		h.HotelName, h.RoomType, h.Available, h.UnitPrice, h.TotalUnits,
	).Scan(&h.ID, &h.RemainingUnits, &h.CreatedAt, &h.UpdatedAt)
}

func (r *CatalogRepository) GetHotelRoom(ctx context.Context, id int64) (*models.HotelRoom, error) {
	h := &models.HotelRoom{}
	query := `
		SELECT id, hotel_name, room_type, available, unit_price, total_units, remaining_units, created_at, updated_at
		FROM hotel_rooms
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&h.ID, &h.HotelName, &h.RoomType, &h.Available,
		&h.UnitPrice, &h.TotalUnits, &h.RemainingUnits, &h.CreatedAt, &h.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return h, err
}

func (r *CatalogRepository) CreateTour(ctx context.Context, t *models.Tour) error {
	query := `
		INSERT INTO tours (name, description, destination, departs_at, closed, hotel_component, transport_component, unit_price, total_units, remaining_units)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id, remaining_units, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		t.Name, t.Description, t.Destination, t.DepartsAt, t.Closed,
		t.HotelComponent, t.TransportComponent, t.UnitPrice, t.TotalUnits,
	).Scan(&t.ID, &t.RemainingUnits, &t.CreatedAt, &t.UpdatedAt)
}

func (r *CatalogRepository) GetTour(ctx context.Context, id int64) (*models.Tour, error) {
	t := &models.Tour{}
	query := `
		SELECT id, name, description, destination, departs_at, closed, hotel_component, transport_component,
		       unit_price, total_units, remaining_units, created_at, updated_at
		FROM tours
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Description, &t.Destination, &t.DepartsAt, &t.Closed,
		&t.HotelComponent, &t.TransportComponent,
		&t.UnitPrice, &t.TotalUnits, &t.RemainingUnits, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

func (r *CatalogRepository) ListTours(ctx context.Context, page, pageSize int) ([]models.Tour, error) {
	query := `
		SELECT id, name, description, destination, departs_at, closed, hotel_component, transport_component,
		       unit_price, total_units, remaining_units, created_at, updated_at
		FROM tours
		ORDER BY departs_at ASC, id ASC
		LIMIT $1 OFFSET $2`

	offset := 0
	if page > 1 {
		offset = (page - 1) * pageSize
	}

	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tours []models.Tour
	for rows.Next() {
		var t models.Tour
		err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.Destination, &t.DepartsAt, &t.Closed,
			&t.HotelComponent, &t.TransportComponent,
			&t.UnitPrice, &t.TotalUnits, &t.RemainingUnits, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		tours = append(tours, t)
	}

	return tours, rows.Err()
}

func (r *CatalogRepository) CreateVehicleTrip(ctx context.Context, v *models.VehicleTrip) error {
	query := `
		INSERT INTO vehicle_trips (carrier, origin, destination, departs_at, unit_price, total_units, remaining_units)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id, remaining_units, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		v.Carrier, v.Origin, v.Destination, v.DepartsAt, v.UnitPrice, v.TotalUnits,
	).Scan(&v.ID, &v.RemainingUnits, &v.CreatedAt, &v.UpdatedAt)
}

func (r *CatalogRepository) GetVehicleTrip(ctx context.Context, id int64) (*models.VehicleTrip, error) {
	v := &models.VehicleTrip{}
	query := `
		SELECT id, carrier, origin, destination, departs_at, unit_price, total_units, remaining_units, created_at, updated_at
		FROM vehicle_trips
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.Carrier, &v.Origin, &v.Destination, &v.DepartsAt,
		&v.UnitPrice, &v.TotalUnits, &v.RemainingUnits, &v.CreatedAt, &v.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return v, err
}
