package engine

import (
	"sort"

	"github.com/kinoflow/cinema-reservation/internal/model"
)

// FindConflicts returns the subset of candidate seat numbers already held by
// live reservations on the session, excluding the reservation with
// excludeID (pass 0 to exclude nothing). The result is sorted ascending so
// error messages stay deterministic. Pure function, no side effects.
func FindConflicts(candidate []uint32, existing []model.Reservation, excludeID uint64) []uint32 {
	taken := make(map[uint32]struct{})
	for i := range existing {
		if excludeID != 0 && existing[i].ID == excludeID {
			continue
		}
		for _, seat := range existing[i].SeatNumbers {
			taken[seat] = struct{}{}
		}
	}
	var conflicts []uint32
	seen := make(map[uint32]struct{})
	for _, seat := range candidate {
		if _, dup := seen[seat]; dup {
			continue
		}
		seen[seat] = struct{}{}
		if _, ok := taken[seat]; ok {
			conflicts = append(conflicts, seat)
		}
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i] < conflicts[j] })
	return conflicts
}

// normalizeSeats validates and sorts a requested seat list. It rejects empty
// lists and duplicates with ErrInvalidSeats and returns a sorted copy so the
// caller's slice is never mutated. Range checking against the session
// capacity happens separately once the session row is loaded.
func normalizeSeats(seats []uint32) ([]uint32, error) {
	if len(seats) == 0 {
		return nil, ErrInvalidSeats
	}
	out := make([]uint32, len(seats))
	copy(out, seats)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	for i := 1; i < len(out); i++ {
		if out[i] == out[i-1] {
			return nil, ErrInvalidSeats
		}
	}
	return out, nil
}

// checkSeatRange verifies every seat number is 1-based and no greater than
// the session capacity.
func checkSeatRange(seats []uint32, totalSeats uint32) error {
	for _, seat := range seats {
		if seat == 0 || seat > totalSeats {
			return ErrSeatOutOfRange
		}
	}
	return nil
}
