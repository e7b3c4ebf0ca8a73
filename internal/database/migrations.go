package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createFlightsTable,
		createHotelRoomsTable,
		createToursTable,
		createVehicleTripsTable,
		createBookingsTable,
		createPaymentsTable,
		createInvoiceDetailsTable,
		createBookingsPendingIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    full_name VARCHAR(200) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createFlightsTable = `
CREATE TABLE IF NOT EXISTS flights (
    id BIGSERIAL PRIMARY KEY,
    airline VARCHAR(100) NOT NULL,
    flight_no VARCHAR(20) NOT NULL,
    origin VARCHAR(100) NOT NULL,
    destination VARCHAR(100) NOT NULL,
    departs_at TIMESTAMP NOT NULL,
    unit_price BIGINT NOT NULL,
    total_units INTEGER NOT NULL,
    remaining_units INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (remaining_units >= 0),
    CHECK (remaining_units <= total_units)
);`

const createHotelRoomsTable = `
CREATE TABLE IF NOT EXISTS hotel_rooms (
    id BIGSERIAL PRIMARY KEY,
    hotel_name VARCHAR(200) NOT NULL,
    room_type VARCHAR(100) NOT NULL,
    available BOOLEAN NOT NULL DEFAULT TRUE,
    unit_price BIGINT NOT NULL,
    total_units INTEGER NOT NULL,
    remaining_units INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (remaining_units >= 0),
    CHECK (remaining_units <= total_units)
);`

const createToursTable = `
CREATE TABLE IF NOT EXISTS tours (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(300) NOT NULL,
    description TEXT,
    destination VARCHAR(100) NOT NULL,
    departs_at TIMESTAMP NOT NULL,
    closed BOOLEAN NOT NULL DEFAULT FALSE,
    hotel_component BIGINT NOT NULL DEFAULT 0,
    transport_component BIGINT NOT NULL DEFAULT 0,
    unit_price BIGINT NOT NULL,
    total_units INTEGER NOT NULL,
    remaining_units INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (remaining_units >= 0),
    CHECK (remaining_units <= total_units)
);`

const createVehicleTripsTable = `
CREATE TABLE IF NOT EXISTS vehicle_trips (
    id BIGSERIAL PRIMARY KEY,
    carrier VARCHAR(100) NOT NULL,
    origin VARCHAR(100) NOT NULL,
    destination VARCHAR(100) NOT NULL,
    departs_at TIMESTAMP NOT NULL,
    unit_price BIGINT NOT NULL,
    total_units INTEGER NOT NULL,
    remaining_units INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (remaining_units >= 0),
    CHECK (remaining_units <= total_units)
);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id),
    resource_type VARCHAR(20) NOT NULL,
    resource_id BIGINT NOT NULL,
    quantity INTEGER NOT NULL,
    total_amount BIGINT NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (quantity > 0),
    CHECK (resource_type IN ('flight', 'hotel_room', 'tour', 'vehicle_trip')),
    CHECK (status IN ('PENDING', 'CONFIRMED'))
);`

const createPaymentsTable = `
CREATE TABLE IF NOT EXISTS payments (
    id BIGSERIAL PRIMARY KEY,
    booking_id BIGINT NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
    user_id BIGINT NOT NULL REFERENCES users(id),
    amount BIGINT NOT NULL,
    order_id VARCHAR(255) UNIQUE NOT NULL,
    request_id VARCHAR(64) NOT NULL,
    method VARCHAR(30) NOT NULL DEFAULT 'momo_wallet',
    status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
    trans_id BIGINT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (status IN ('PENDING', 'COMPLETED', 'FAILED'))
);
CREATE UNIQUE INDEX IF NOT EXISTS payments_active_booking_idx
ON payments (booking_id) WHERE status <> 'FAILED';`

const createInvoiceDetailsTable = `
CREATE TABLE IF NOT EXISTS invoice_details (
    id BIGSERIAL PRIMARY KEY,
    booking_id BIGINT UNIQUE NOT NULL,
    user_id BIGINT NOT NULL REFERENCES users(id),
    amount BIGINT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createBookingsPendingIndex = `
CREATE INDEX IF NOT EXISTS bookings_pending_created_idx
ON bookings (resource_type, created_at) WHERE status = 'PENDING';`
