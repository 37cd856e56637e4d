package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kinoflow/cinema-reservation/internal/engine"
	"github.com/kinoflow/cinema-reservation/internal/model"
)

// Store implements engine.Store on top of MySQL. Pessimistic locking uses
// SELECT ... FOR UPDATE inside an InnoDB transaction, so exclusion works
// across every server process sharing the database; no in-process state is
// involved. Not-found rows are mapped to the engine's sentinel errors here
// so the engine never sees sql.ErrNoRows.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store bound to the given database handle.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// DB exposes the underlying handle for callers that need to compose
// transactions with other repositories.
func (s *Store) DB() *sql.DB { return s.db }

// Begin opens a transaction for one engine operation.
func (s *Store) Begin(ctx context.Context) (engine.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &storeTx{tx: tx}, nil
}

const sessionCols = `id, movie_id, movie_title, description, start_time, end_time,
	room_number, price_cents, total_seats, available_seats, version, created_at, updated_at`

const reservationCols = `id, user_id, session_id, seat_numbers, seats_booked, reserved_at, version`

// GetSession returns a session by id without locking. Used for read-only
// catalog lookups; the engine locks via the transaction instead.
func (s *Store) GetSession(ctx context.Context, id uint64) (*model.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionCols+` FROM sessions WHERE id = ?`, id)
	return scanSession(row)
}

// GetReservation returns a reservation by id or engine.ErrReservationNotFound.
func (s *Store) GetReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reservationCols+` FROM reservations WHERE id = ?`, id)
	return scanReservation(row)
}

// ListReservationsByUser returns a user's reservations, newest first.
func (s *Store) ListReservationsByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE user_id = ? ORDER BY reserved_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// ListReservationsBySession returns all live reservations for a session.
func (s *Store) ListReservationsBySession(ctx context.Context, sessionID uint64) ([]model.Reservation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// storeTx implements engine.Tx over one *sql.Tx. Row locks taken by the
// Lock* methods are held until Commit or Rollback ends the transaction.
type storeTx struct {
	tx *sql.Tx
}

func (t *storeTx) Commit() error   { return t.tx.Commit() }
func (t *storeTx) Rollback() error { return t.tx.Rollback() }

// LockSession reads the session row under an exclusive lock. Every engine
// mutation for a session funnels through this lock, which is what prevents
// two concurrent creates from both seeing the same availability.
func (t *storeTx) LockSession(ctx context.Context, id uint64) (*model.Session, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT `+sessionCols+` FROM sessions WHERE id = ? FOR UPDATE`, id)
	return scanSession(row)
}

// SaveSession persists the session's seat counts and bumps its version in
// the same statement.
func (t *storeTx) SaveSession(ctx context.Context, s *model.Session) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE sessions SET available_seats = ?, version = version + 1 WHERE id = ?`,
		s.AvailableSeats, s.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return engine.ErrSessionNotFound
	}
	s.Version++
	return nil
}

// LockReservation reads the reservation row under an exclusive lock.
func (t *storeTx) LockReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT `+reservationCols+` FROM reservations WHERE id = ? FOR UPDATE`, id)
	return scanReservation(row)
}

// ReservationsBySession lists the live set inside the transaction. Callers
// hold the session lock first, so the set cannot change under us.
func (t *storeTx) ReservationsBySession(ctx context.Context, sessionID uint64) ([]model.Reservation, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// InsertReservation writes a new reservation and populates its generated id.
func (t *storeTx) InsertReservation(ctx context.Context, r *model.Reservation) error {
	seatsJSON, err := json.Marshal(r.SeatNumbers)
	if err != nil {
		return err
	}
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO reservations (user_id, session_id, seat_numbers, seats_booked, reserved_at, version)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.UserID, r.SessionID, seatsJSON, r.SeatsBooked, r.ReservedAt, r.Version)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = uint64(id)
	return nil
}

// UpdateReservation persists a modified seat set. The version was already
// bumped by the engine; the row is written as given.
func (t *storeTx) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	seatsJSON, err := json.Marshal(r.SeatNumbers)
	if err != nil {
		return err
	}
	res, err := t.tx.ExecContext(ctx,
		`UPDATE reservations SET seat_numbers = ?, seats_booked = ?, version = ? WHERE id = ?`,
		seatsJSON, r.SeatsBooked, r.Version, r.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return engine.ErrReservationNotFound
	}
	return nil
}

// DeleteReservation removes the row. The caller holds its lock.
func (t *storeTx) DeleteReservation(ctx context.Context, id uint64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return engine.ErrReservationNotFound
	}
	return nil
}

// UserExists reports whether the user id references a row.
func (t *storeTx) UserExists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := t.tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*model.Session, error) {
	var s model.Session
	var movieID sql.NullInt64
	var desc sql.NullString
	err := row.Scan(&s.ID, &movieID, &s.MovieTitle, &desc, &s.StartTime, &s.EndTime,
		&s.RoomNumber, &s.PriceCents, &s.TotalSeats, &s.AvailableSeats, &s.Version,
		&s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, engine.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if movieID.Valid {
		id := uint64(movieID.Int64)
		s.MovieID = &id
	}
	if desc.Valid {
		d := desc.String
		s.Description = &d
	}
	return &s, nil
}

func scanReservation(row rowScanner) (*model.Reservation, error) {
	var r model.Reservation
	var seatsJSON []byte
	err := row.Scan(&r.ID, &r.UserID, &r.SessionID, &seatsJSON, &r.SeatsBooked, &r.ReservedAt, &r.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, engine.ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(seatsJSON) > 0 {
		if err := json.Unmarshal(seatsJSON, &r.SeatNumbers); err != nil {
			return nil, fmt.Errorf("decode seat_numbers for reservation %d: %w", r.ID, err)
		}
	}
	return &r, nil
}

func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
