package repository

import (
	"context"
	"database/sql"

	"github.com/kinoflow/cinema-reservation/internal/model"
)

// SessionRepo manages catalog-level persistence for sessions: creation,
// metadata updates and deletion. Seat counts are written here only while a
// session has no reservations; once bookings exist the reservation engine
// is the sole writer of available_seats and version.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo constructs a SessionRepo with the given DB handle.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// Create inserts a new session with available_seats = total_seats and
// version 0, and populates the generated id and timestamps.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (movie_id, movie_title, description, start_time, end_time,
		   room_number, price_cents, total_seats, available_seats, version)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		s.MovieID, s.MovieTitle, s.Description, s.StartTime, s.EndTime,
		s.RoomNumber, s.PriceCents, s.TotalSeats, s.TotalSeats)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.AvailableSeats = s.TotalSeats
	s.Version = 0
	row := r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM sessions WHERE id = ?`, s.ID)
	return row.Scan(&s.CreatedAt, &s.UpdatedAt)
}

// List returns all sessions ordered by start time. Listing stays unpaged;
// admin pagination belongs to the HTTP layer and is out of scope here.
func (r *SessionRepo) List(ctx context.Context) ([]model.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionCols+` FROM sessions ORDER BY start_time, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// HasReservations reports whether any live reservation references the
// session.
func (r *SessionRepo) HasReservations(ctx context.Context, sessionID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SessionUpdate lists the catalog fields an admin may change. Nil fields are
// left untouched. TotalSeats is only honored while the session has no
// reservations; afterwards capacity is frozen.
type SessionUpdate struct {
	MovieID     *uint64
	MovieTitle  *string
	Description *string
	StartTime   *string // DB format "2006-01-02 15:04:05" UTC
	EndTime     *string
	RoomNumber  *uint32
	PriceCents  *uint32
	TotalSeats  *uint32
}

// Update applies a partial catalog update. Changing TotalSeats on a session
// that already has reservations returns ErrConflict: resizing a booked
// session cannot be reconciled with the seats already sold. When capacity
// does change, available_seats is reset to the new total (the session is
// known to be empty).
func (r *SessionRepo) Update(ctx context.Context, sessionID uint64, upd SessionUpdate) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the row so a concurrent booking cannot slip in between the
	// reservation check and the capacity write.
	var currentTotal uint32
	err = tx.QueryRowContext(ctx,
		`SELECT total_seats FROM sessions WHERE id = ? FOR UPDATE`, sessionID).Scan(&currentTotal)
	if err != nil {
		return err
	}

	if upd.TotalSeats != nil && *upd.TotalSeats != currentTotal {
		var n int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM reservations WHERE session_id = ?`, sessionID).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return ErrConflict
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE sessions SET total_seats = ?, available_seats = ?, version = version + 1 WHERE id = ?`,
			*upd.TotalSeats, *upd.TotalSeats, sessionID); err != nil {
			return err
		}
	}

	set := ""
	args := make([]any, 0, 8)
	add := func(col string, v any) {
		if set != "" {
			set += ", "
		}
		set += col + " = ?"
		args = append(args, v)
	}
	if upd.MovieID != nil {
		add("movie_id", *upd.MovieID)
	}
	if upd.MovieTitle != nil {
		add("movie_title", *upd.MovieTitle)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.StartTime != nil {
		add("start_time", *upd.StartTime)
	}
	if upd.EndTime != nil {
		add("end_time", *upd.EndTime)
	}
	if upd.RoomNumber != nil {
		add("room_number", *upd.RoomNumber)
	}
	if upd.PriceCents != nil {
		add("price_cents", *upd.PriceCents)
	}
	if set != "" {
		args = append(args, sessionID)
		if _, err := tx.ExecContext(ctx, `UPDATE sessions SET `+set+` WHERE id = ?`, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a session that has no reservations. Sessions with live
// bookings return ErrConflict; cancel the bookings first.
func (r *SessionRepo) Delete(ctx context.Context, sessionID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var n int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE session_id = ? FOR UPDATE`, sessionID).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
