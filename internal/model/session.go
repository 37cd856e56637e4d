package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInsufficientSeats is returned when an allocation asks for more seats
// than the session currently has available. The wrapped message reports the
// requested and available counts.
var ErrInsufficientSeats = errors.New("not enough available seats")

// ErrSeatAccounting signals that seat arithmetic would break the invariant
// 0 <= available_seats <= total_seats. It only fires when stored state is
// already corrupt, so callers must treat it as fatal rather than retryable.
var ErrSeatAccounting = errors.New("seat accounting violation")

// Session represents a scheduled screening with a fixed seat capacity.
// AvailableSeats must always equal TotalSeats minus the sum of SeatsBooked
// over all live reservations for the session; only the reservation engine
// may change it once reservations exist. Version increments on every
// persisted mutation and backs both pessimistic row locking and the
// optimistic version guard exposed to clients.
//
// Fields:
//  ID             – primary key identifier.
//  MovieID        – optional link into the movies catalog (nil when the
//                   session was created with a free-form title only).
//  MovieTitle     – title shown to customers.
//  Description    – optional marketing blurb.
//  StartTime      – when the screening begins (UTC).
//  EndTime        – when the screening ends (UTC).
//  RoomNumber     – screening room within the cinema.
//  PriceCents     – ticket price in cents.
//  TotalSeats     – fixed capacity, immutable after creation.
//  AvailableSeats – seats still free, in [0, TotalSeats].
//  Version        – monotonic counter bumped on every persisted mutation.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Session struct {
	ID             uint64     // sessions.id
	MovieID        *uint64    // sessions.movie_id (nullable)
	MovieTitle     string     // sessions.movie_title
	Description    *string    // sessions.description (nullable)
	StartTime      time.Time  // sessions.start_time
	EndTime        time.Time  // sessions.end_time
	RoomNumber     uint32     // sessions.room_number
	PriceCents     uint32     // sessions.price_cents
	TotalSeats     uint32     // sessions.total_seats
	AvailableSeats uint32     // sessions.available_seats
	Version        uint32     // sessions.version
	CreatedAt      time.Time  // sessions.created_at
	UpdatedAt      time.Time  // sessions.updated_at
}

// CanAllocate reports whether n seats can be taken from the available pool.
func (s *Session) CanAllocate(n int) bool {
	return n >= 0 && int(s.AvailableSeats) >= n
}

// Allocate removes n seats from the available pool. It fails with
// ErrInsufficientSeats when fewer than n seats remain; the error message
// includes both counts so handlers can surface them verbatim.
func (s *Session) Allocate(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative allocation %d", ErrSeatAccounting, n)
	}
	if !s.CanAllocate(n) {
		return fmt.Errorf("%w. Requested: %d, Available: %d", ErrInsufficientSeats, n, s.AvailableSeats)
	}
	s.AvailableSeats -= uint32(n)
	return nil
}

// Release returns n seats to the available pool. Pushing the pool above
// TotalSeats means a prior committed operation already broke the inventory
// invariant; that state is reported as ErrSeatAccounting instead of being
// clamped.
func (s *Session) Release(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative release %d", ErrSeatAccounting, n)
	}
	if s.AvailableSeats+uint32(n) > s.TotalSeats {
		return fmt.Errorf("%w: releasing %d seats would exceed capacity (available %d, total %d)",
			ErrSeatAccounting, n, s.AvailableSeats, s.TotalSeats)
	}
	s.AvailableSeats += uint32(n)
	return nil
}

// Adjust applies a seat-count delta: positive deltas allocate, negative
// deltas release, zero is a no-op. Used when a reservation changes size.
func (s *Session) Adjust(delta int) error {
	switch {
	case delta > 0:
		return s.Allocate(delta)
	case delta < 0:
		return s.Release(-delta)
	}
	return nil
}

// Started reports whether the session has begun as of now.
func (s *Session) Started(now time.Time) bool {
	return !s.StartTime.After(now)
}
