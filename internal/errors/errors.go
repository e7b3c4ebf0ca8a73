// Package errors defines the domain error taxonomy shared by services,
// repositories and HTTP handlers.
package errors

import "errors"

var (
	// ErrNotFound is returned when a resource, booking or payment does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientCapacity is returned when a reservation asks for more
	// units than the resource has remaining.
	ErrInsufficientCapacity = errors.New("insufficient capacity")

	// ErrNotAuthorized is returned when the caller does not own the booking.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrInvalidSignature is returned when a gateway callback fails HMAC
	// verification. No local state may change in that case.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrGateway is returned when the payment gateway is unreachable or
	// responds with something we cannot parse.
	ErrGateway = errors.New("payment gateway error")

	// ErrAlreadyProcessed marks a duplicate callback for a payment that has
	// already completed. Callers treat it as success, not failure.
	ErrAlreadyProcessed = errors.New("already processed")
)

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
