package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kinoflow/cinema-reservation/internal/engine"
	"github.com/kinoflow/cinema-reservation/internal/model"
)

func reservationWithSeats(id uint64, seats ...uint32) model.Reservation {
	return model.Reservation{
		ID:          id,
		SessionID:   1,
		SeatNumbers: seats,
		SeatsBooked: uint32(len(seats)),
	}
}

func TestFindConflicts_Empty(t *testing.T) {
	got := engine.FindConflicts([]uint32{1, 2, 3}, nil, 0)
	assert.Empty(t, got)

	existing := []model.Reservation{reservationWithSeats(1, 10, 11)}
	got = engine.FindConflicts([]uint32{1, 2, 3}, existing, 0)
	assert.Empty(t, got)
}

func TestFindConflicts_SortedAscending(t *testing.T) {
	existing := []model.Reservation{
		reservationWithSeats(1, 9, 2),
		reservationWithSeats(2, 5),
	}
	got := engine.FindConflicts([]uint32{9, 5, 2, 7}, existing, 0)
	assert.Equal(t, []uint32{2, 5, 9}, got)
}

func TestFindConflicts_ExcludesOwnReservation(t *testing.T) {
	existing := []model.Reservation{
		reservationWithSeats(1, 2, 3),
		reservationWithSeats(2, 6),
	}
	// Reservation 1 modifying itself: its own seats never conflict.
	got := engine.FindConflicts([]uint32{2, 3, 4}, existing, 1)
	assert.Empty(t, got)

	// Seats held by someone else still do.
	got = engine.FindConflicts([]uint32{2, 6}, existing, 1)
	assert.Equal(t, []uint32{6}, got)
}

func TestFindConflicts_DedupesCandidates(t *testing.T) {
	existing := []model.Reservation{reservationWithSeats(1, 4)}
	got := engine.FindConflicts([]uint32{4, 4, 4}, existing, 0)
	assert.Equal(t, []uint32{4}, got)
}
