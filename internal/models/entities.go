package models

import (
	"time"
)

// ResourceType discriminates what a booking refers to. One column pair
// (resource_type, resource_id) instead of a nullable FK per catalog table.
type ResourceType string

const (
	ResourceFlight      ResourceType = "flight"
	ResourceHotelRoom   ResourceType = "hotel_room"
	ResourceTour        ResourceType = "tour"
	ResourceVehicleTrip ResourceType = "vehicle_trip"
)

// ResourceTypes lists every bookable category. The expiry sweeper iterates
// over this slice; each category is swept independently.
var ResourceTypes = []ResourceType{
	ResourceFlight,
	ResourceHotelRoom,
	ResourceTour,
	ResourceVehicleTrip,
}

func (rt ResourceType) Valid() bool {
	switch rt {
	case ResourceFlight, ResourceHotelRoom, ResourceTour, ResourceVehicleTrip:
		return true
	}
	return false
}

// Booking statuses. Cancelled and expired bookings are deleted, not kept,
// so only PENDING and CONFIRMED are ever stored.
const (
	BookingStatusPending   = "PENDING"
	BookingStatusConfirmed = "CONFIRMED"
)

// Payment statuses.
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
)

// User represents an account provisioned by the auth service
type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"full_name" db:"full_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Flight represents a bookable flight ticket class
type Flight struct {
	ID             int64     `json:"id" db:"id"`
	Airline        string    `json:"airline" db:"airline"`
	FlightNo       string    `json:"flight_no" db:"flight_no"`
	Origin         string    `json:"origin" db:"origin"`
	Destination    string    `json:"destination" db:"destination"`
	DepartsAt      time.Time `json:"departs_at" db:"departs_at"`
	UnitPrice      int64     `json:"unit_price" db:"unit_price"`
	TotalUnits     int       `json:"total_units" db:"total_units"`
	RemainingUnits int       `json:"remaining_units" db:"remaining_units"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// HotelRoom represents a bookable room type within a hotel
type HotelRoom struct {
	ID             int64     `json:"id" db:"id"`
	HotelName      string    `json:"hotel_name" db:"hotel_name"`
	RoomType       string    `json:"room_type" db:"room_type"`
	Available      bool      `json:"available" db:"available"`
	UnitPrice      int64     `json:"unit_price" db:"unit_price"`
	TotalUnits     int       `json:"total_units" db:"total_units"`
	RemainingUnits int       `json:"remaining_units" db:"remaining_units"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Tour represents a bookable tour departure. Closed tours bundle hotel and
// transport components into the price.
type Tour struct {
	ID                 int64     `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	Description        *string   `json:"description" db:"description"`
	Destination        string    `json:"destination" db:"destination"`
	DepartsAt          time.Time `json:"departs_at" db:"departs_at"`
	Closed             bool      `json:"closed" db:"closed"`
	HotelComponent     int64     `json:"hotel_component" db:"hotel_component"`
	TransportComponent int64     `json:"transport_component" db:"transport_component"`
	UnitPrice          int64     `json:"unit_price" db:"unit_price"`
	TotalUnits         int       `json:"total_units" db:"total_units"`
	RemainingUnits     int       `json:"remaining_units" db:"remaining_units"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// VehicleTrip represents a bookable road-vehicle departure
type VehicleTrip struct {
	ID             int64     `json:"id" db:"id"`
	Carrier        string    `json:"carrier" db:"carrier"`
	Origin         string    `json:"origin" db:"origin"`
	Destination    string    `json:"destination" db:"destination"`
	DepartsAt      time.Time `json:"departs_at" db:"departs_at"`
	UnitPrice      int64     `json:"unit_price" db:"unit_price"`
	TotalUnits     int       `json:"total_units" db:"total_units"`
	RemainingUnits int       `json:"remaining_units" db:"remaining_units"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Booking ties a user to a reserved quantity of one resource
type Booking struct {
	ID           int64        `json:"id" db:"id"`
	UserID       int64        `json:"user_id" db:"user_id"`
	ResourceType ResourceType `json:"resource_type" db:"resource_type"`
	ResourceID   int64        `json:"resource_id" db:"resource_id"`
	Quantity     int          `json:"quantity" db:"quantity"`
	TotalAmount  int64        `json:"total_amount" db:"total_amount"`
	Status       string       `json:"status" db:"status"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// Payment mirrors one gateway payment session. OrderID is the idempotency
// key for inbound gateway callbacks.
type Payment struct {
	ID        int64     `json:"id" db:"id"`
	BookingID int64     `json:"booking_id" db:"booking_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Amount    int64     `json:"amount" db:"amount"`
	OrderID   string    `json:"order_id" db:"order_id"`
	RequestID string    `json:"request_id" db:"request_id"`
	Method    string    `json:"method" db:"method"`
	Status    string    `json:"status" db:"status"`
	TransID   *int64    `json:"trans_id" db:"trans_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// InvoiceDetail is an append-only audit record written once a booking
// reaches CONFIRMED
type InvoiceDetail struct {
	ID        int64     `json:"id" db:"id"`
	BookingID int64     `json:"booking_id" db:"booking_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Amount    int64     `json:"amount" db:"amount"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
