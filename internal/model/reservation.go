package model

import "time"

// Reservation binds a user to a set of seat numbers on one session.
// SeatNumbers is kept sorted ascending and must stay disjoint from every
// other live reservation on the same session; SeatsBooked is persisted
// redundantly for quick accounting and must always equal len(SeatNumbers).
// Cancellation deletes the row, there is no soft-cancel status.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – owning user, immutable after creation.
//  SessionID   – owning session, immutable after creation.
//  SeatNumbers – reserved seat numbers, 1-based, each <= session TotalSeats.
//  SeatsBooked – number of seats held, equal to len(SeatNumbers).
//  ReservedAt  – creation timestamp, immutable.
//  Version     – bumped on every modification; compared against the
//                client-supplied expected version on modify/cancel.
type Reservation struct {
	ID          uint64    // reservations.id
	UserID      uint64    // reservations.user_id
	SessionID   uint64    // reservations.session_id
	SeatNumbers []uint32  // reservations.seat_numbers (JSON array)
	SeatsBooked uint32    // reservations.seats_booked
	ReservedAt  time.Time // reservations.reserved_at
	Version     uint32    // reservations.version
}

// HoldsSeat reports whether the reservation contains the given seat number.
func (r *Reservation) HoldsSeat(seat uint32) bool {
	for _, s := range r.SeatNumbers {
		if s == seat {
			return true
		}
	}
	return false
}
