package engine

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kinoflow/cinema-reservation/internal/model"
)

// Engine orchestrates reservation create/modify/cancel against the Store.
// Every mutating call follows the same discipline: open a transaction, lock
// the rows it will touch (reservation first when one is targeted, then its
// session), re-read state under the lock, apply seat arithmetic, persist
// both sides, commit. Version checks are a second, client-facing guard on
// top of the row locks; they catch stale reads that committed between the
// client's fetch and this request.
type Engine struct {
	store Store
}

// New constructs an Engine bound to the given store.
func New(store Store) *Engine {
	if store == nil {
		panic("nil store passed to engine.New")
	}
	return &Engine{store: store}
}

// CreateRequest carries the validated input for Create. SeatsCount is the
// count the client declared alongside the seat list; the two must agree.
type CreateRequest struct {
	SessionID   uint64
	UserID      uint64
	SeatNumbers []uint32
	SeatsCount  int
}

// Create books a new reservation. It locks the target session row before
// reading availability or existing reservations, so two concurrent creates
// for the same session serialize and can never both take the same seat.
func (e *Engine) Create(ctx context.Context, req CreateRequest) (*model.Reservation, error) {
	if len(req.SeatNumbers) != req.SeatsCount {
		return nil, fmt.Errorf("%w: seat numbers count (%d) does not match seats count (%d)",
			ErrSeatCountMismatch, len(req.SeatNumbers), req.SeatsCount)
	}
	seats, err := normalizeSeats(req.SeatNumbers)
	if err != nil {
		return nil, err
	}

	tx, err := e.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Serialization point: the exclusive session lock is held from here
	// until commit.
	sess, err := tx.LockSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if err := checkSeatRange(seats, sess.TotalSeats); err != nil {
		return nil, err
	}
	if err := sess.Allocate(req.SeatsCount); err != nil {
		return nil, err
	}

	existing, err := tx.ReservationsBySession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if conflicts := FindConflicts(seats, existing, 0); len(conflicts) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrSeatsAlreadyBooked, joinSeats(conflicts))
	}

	ok, err := tx.UserExists(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	res := &model.Reservation{
		UserID:      req.UserID,
		SessionID:   req.SessionID,
		SeatNumbers: seats,
		SeatsBooked: uint32(len(seats)),
		ReservedAt:  time.Now().UTC(),
		Version:     0,
	}
	if err := tx.InsertReservation(ctx, res); err != nil {
		return nil, err
	}
	if err := tx.SaveSession(ctx, sess); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return res, nil
}

// Modify replaces a reservation's seat set in place, adjusting the session's
// available pool by the size delta. When expectedVersion is non-nil it must
// equal the reservation's current version or the call fails with
// ErrVersionConflict before anything is touched.
func (e *Engine) Modify(ctx context.Context, reservationID uint64, newSeatNumbers []uint32, expectedVersion *uint32) (*model.Reservation, error) {
	seats, err := normalizeSeats(newSeatNumbers)
	if err != nil {
		return nil, err
	}

	tx, err := e.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.LockReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(res, expectedVersion); err != nil {
		return nil, err
	}

	sess, err := tx.LockSession(ctx, res.SessionID)
	if err != nil {
		return nil, err
	}
	if err := checkSeatRange(seats, sess.TotalSeats); err != nil {
		return nil, err
	}

	existing, err := tx.ReservationsBySession(ctx, res.SessionID)
	if err != nil {
		return nil, err
	}
	if conflicts := FindConflicts(seats, existing, res.ID); len(conflicts) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrSeatsAlreadyBooked, joinSeats(conflicts))
	}

	delta := len(seats) - int(res.SeatsBooked)
	if err := sess.Adjust(delta); err != nil {
		return nil, err
	}

	res.SeatNumbers = seats
	res.SeatsBooked = uint32(len(seats))
	res.Version++
	if err := tx.UpdateReservation(ctx, res); err != nil {
		return nil, err
	}
	if err := tx.SaveSession(ctx, sess); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return res, nil
}

// Cancel deletes a reservation and returns its seats to the session pool.
// The reservation row is locked first, then its session, the same order
// Modify uses, so concurrent cancel/modify/create on one session cannot
// deadlock.
func (e *Engine) Cancel(ctx context.Context, reservationID uint64, expectedVersion *uint32) error {
	tx, err := e.store.Begin(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.LockReservation(ctx, reservationID)
	if err != nil {
		return err
	}
	if err := checkVersion(res, expectedVersion); err != nil {
		return err
	}

	sess, err := tx.LockSession(ctx, res.SessionID)
	if err != nil {
		return err
	}
	if err := sess.Release(int(res.SeatsBooked)); err != nil {
		return err
	}

	if err := tx.DeleteReservation(ctx, res.ID); err != nil {
		return err
	}
	if err := tx.SaveSession(ctx, sess); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Reservation returns a single reservation or ErrReservationNotFound.
func (e *Engine) Reservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	return e.store.GetReservation(ctx, id)
}

// ReservationsByUser lists a user's reservations, newest first.
func (e *Engine) ReservationsByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return e.store.ListReservationsByUser(ctx, userID)
}

// ReservationsBySession lists all live reservations for a session.
func (e *Engine) ReservationsBySession(ctx context.Context, sessionID uint64) ([]model.Reservation, error) {
	return e.store.ListReservationsBySession(ctx, sessionID)
}

// BookedSeats flattens the seat numbers of all live reservations for a
// session into one ascending list. The booking UI uses it to grey out taken
// seats. An unknown session yields an empty list, matching the list
// semantics of ReservationsBySession.
func (e *Engine) BookedSeats(ctx context.Context, sessionID uint64) ([]uint32, error) {
	reservations, err := e.store.ListReservationsBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	booked := make([]uint32, 0)
	for i := range reservations {
		booked = append(booked, reservations[i].SeatNumbers...)
	}
	sort.Slice(booked, func(i, j int) bool { return booked[i] < booked[j] })
	return booked, nil
}

// checkVersion compares a client-supplied expected version against the
// reservation's current one. A nil expectation skips the guard.
func checkVersion(r *model.Reservation, expected *uint32) error {
	if expected == nil || *expected == r.Version {
		return nil
	}
	return fmt.Errorf("%w. Current version: %d, expected: %d", ErrVersionConflict, r.Version, *expected)
}

// joinSeats renders seat numbers as "5, 7, 12" for error messages.
func joinSeats(seats []uint32) string {
	parts := make([]string, len(seats))
	for i, s := range seats {
		parts[i] = strconv.FormatUint(uint64(s), 10)
	}
	return strings.Join(parts, ", ")
}
