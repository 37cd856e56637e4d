// Package engine implements the reservation core: the only component allowed
// to mutate session seat inventory and reservation seat sets. All mutating
// operations run inside one storage transaction with the relevant rows locked
// exclusively, so create, modify and cancel against the same session are
// mutually exclusive.
package engine

import (
	"errors"

	"github.com/kinoflow/cinema-reservation/internal/model"
)

// Sentinel errors raised by the engine. Each kind must stay distinguishable
// with errors.Is so the HTTP layer can map them to distinct status codes.
// Detail (counts, seat lists, versions) is attached by wrapping with
// fmt.Errorf("%w ...", ...).
var (
	// ErrSessionNotFound: the referenced session id does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrReservationNotFound: the referenced reservation id does not exist.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrUserNotFound: the referenced user id does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrSeatCountMismatch: the declared seats count disagrees with the
	// length of the supplied seat-number list.
	ErrSeatCountMismatch = errors.New("seat numbers count does not match seats count")

	// ErrInsufficientSeats: fewer seats are available than requested.
	// Defined on the model so session inventory arithmetic can raise it
	// without importing this package.
	ErrInsufficientSeats = model.ErrInsufficientSeats

	// ErrSeatsAlreadyBooked: one or more requested seats are held by
	// another live reservation on the same session. The wrapped message
	// lists the conflicting seats ascending, comma-joined.
	ErrSeatsAlreadyBooked = errors.New("seats already booked")

	// ErrVersionConflict: the caller's expected version does not match the
	// current persisted version. The wrapped message carries both values;
	// callers should re-fetch and retry.
	ErrVersionConflict = errors.New("reservation version conflict")

	// ErrSeatOutOfRange: a seat number is zero or exceeds the session's
	// total seats. Input validation happens at the API boundary, but the
	// range check needs the session row and therefore lives here.
	ErrSeatOutOfRange = errors.New("seat number out of range")

	// ErrInvalidSeats: an empty or duplicated seat list reached the
	// engine. A backstop; well-behaved callers are rejected earlier by
	// request validation.
	ErrInvalidSeats = errors.New("invalid seat numbers")
)
