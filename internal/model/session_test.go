package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinoflow/cinema-reservation/internal/model"
)

func TestSession_Allocate(t *testing.T) {
	s := model.Session{TotalSeats: 10, AvailableSeats: 5}

	require.NoError(t, s.Allocate(3))
	assert.Equal(t, uint32(2), s.AvailableSeats)

	err := s.Allocate(3)
	require.ErrorIs(t, err, model.ErrInsufficientSeats)
	assert.Contains(t, err.Error(), "Requested: 3, Available: 2")
	assert.Equal(t, uint32(2), s.AvailableSeats, "failed allocation changes nothing")

	// Allocating exactly the remainder drains the pool.
	require.NoError(t, s.Allocate(2))
	assert.Equal(t, uint32(0), s.AvailableSeats)

	err = s.Allocate(1)
	assert.ErrorIs(t, err, model.ErrInsufficientSeats)
}

func TestSession_AllocateZeroAndNegative(t *testing.T) {
	s := model.Session{TotalSeats: 10, AvailableSeats: 10}

	require.NoError(t, s.Allocate(0))
	assert.Equal(t, uint32(10), s.AvailableSeats)

	assert.ErrorIs(t, s.Allocate(-1), model.ErrSeatAccounting)
}

func TestSession_Release(t *testing.T) {
	s := model.Session{TotalSeats: 10, AvailableSeats: 7}

	require.NoError(t, s.Release(3))
	assert.Equal(t, uint32(10), s.AvailableSeats)

	// Over-capacity release means the stored state was already corrupt.
	err := s.Release(1)
	require.ErrorIs(t, err, model.ErrSeatAccounting)
	assert.Equal(t, uint32(10), s.AvailableSeats, "no clamping on error")

	assert.ErrorIs(t, s.Release(-2), model.ErrSeatAccounting)
}

func TestSession_Adjust(t *testing.T) {
	s := model.Session{TotalSeats: 10, AvailableSeats: 5}

	require.NoError(t, s.Adjust(2))
	assert.Equal(t, uint32(3), s.AvailableSeats)

	require.NoError(t, s.Adjust(-4))
	assert.Equal(t, uint32(7), s.AvailableSeats)

	require.NoError(t, s.Adjust(0))
	assert.Equal(t, uint32(7), s.AvailableSeats)

	assert.ErrorIs(t, s.Adjust(4), model.ErrInsufficientSeats)
	assert.ErrorIs(t, s.Adjust(-4), model.ErrSeatAccounting)
}

func TestSession_CanAllocate(t *testing.T) {
	s := model.Session{TotalSeats: 10, AvailableSeats: 2}

	assert.True(t, s.CanAllocate(0))
	assert.True(t, s.CanAllocate(2))
	assert.False(t, s.CanAllocate(3))
	assert.False(t, s.CanAllocate(-1))
}

func TestSession_Started(t *testing.T) {
	start := time.Date(2026, 9, 15, 19, 0, 0, 0, time.UTC)
	s := model.Session{StartTime: start}

	assert.False(t, s.Started(start.Add(-time.Minute)))
	assert.True(t, s.Started(start), "start instant counts as started")
	assert.True(t, s.Started(start.Add(time.Minute)))
}

func TestReservation_HoldsSeat(t *testing.T) {
	r := model.Reservation{SeatNumbers: []uint32{2, 5, 9}}

	assert.True(t, r.HoldsSeat(5))
	assert.False(t, r.HoldsSeat(4))
}
