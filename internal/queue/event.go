// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// Event types published on the reservation.events queue.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationModified  = "reservation.modified"
	EventReservationCancelled = "reservation.cancelled"
)

// ReservationEvent is published whenever a reservation is created, modified
// or cancelled. It carries enough context for downstream consumers to log or
// notify without querying the primary database.
type ReservationEvent struct {
	Type          string   `json:"type"`
	ReservationID uint64   `json:"reservation_id"`
	UserID        uint64   `json:"user_id"`
	SessionID     uint64   `json:"session_id"`
	MovieTitle    string   `json:"movie_title"`
	SeatNumbers   []uint32 `json:"seat_numbers"`
	StartsAt      string   `json:"starts_at"`
	OccurredAt    string   `json:"occurred_at"`
}
