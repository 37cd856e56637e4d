package engine_test

import (
	"context"
	"sync"

	"github.com/kinoflow/cinema-reservation/internal/engine"
	"github.com/kinoflow/cinema-reservation/internal/model"
)

// memStore is an in-memory engine.Store used by the tests. A store-wide
// mutex is held from Begin until Commit or Rollback, giving the same
// serializable behavior the SQL store gets from row locks. Transactions
// operate on a cloned snapshot; Commit publishes the snapshot, Rollback
// discards it, so a failed operation leaves the store untouched.
type memStore struct {
	mu           sync.Mutex
	sessions     map[uint64]model.Session
	reservations map[uint64]model.Reservation
	users        map[uint64]bool
	nextResID    uint64
}

func newMemStore() *memStore {
	return &memStore{
		sessions:     make(map[uint64]model.Session),
		reservations: make(map[uint64]model.Reservation),
		users:        make(map[uint64]bool),
	}
}

func (m *memStore) addSession(s model.Session) {
	m.sessions[s.ID] = s
}

func (m *memStore) addUser(id uint64) {
	m.users[id] = true
}

// seedReservation inserts a reservation directly, adjusting the session's
// available pool the way a committed booking would have.
func (m *memStore) seedReservation(r model.Reservation) {
	if r.ID == 0 {
		m.nextResID++
		r.ID = m.nextResID
	} else if r.ID > m.nextResID {
		m.nextResID = r.ID
	}
	r.SeatNumbers = cloneSeats(r.SeatNumbers)
	m.reservations[r.ID] = r
	s := m.sessions[r.SessionID]
	s.AvailableSeats -= r.SeatsBooked
	m.sessions[r.SessionID] = s
}

func (m *memStore) session(id uint64) model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

func (m *memStore) reservationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reservations)
}

func (m *memStore) Begin(ctx context.Context) (engine.Tx, error) {
	m.mu.Lock()
	return &memTx{
		store:        m,
		sessions:     cloneSessions(m.sessions),
		reservations: cloneReservations(m.reservations),
		nextResID:    m.nextResID,
	}, nil
}

func (m *memStore) GetSession(ctx context.Context, id uint64) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, engine.ErrSessionNotFound
	}
	return &s, nil
}

func (m *memStore) GetReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, engine.ErrReservationNotFound
	}
	r.SeatNumbers = cloneSeats(r.SeatNumbers)
	return &r, nil
}

func (m *memStore) ListReservationsByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Reservation, 0)
	for _, r := range m.reservations {
		if r.UserID == userID {
			r.SeatNumbers = cloneSeats(r.SeatNumbers)
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) ListReservationsBySession(ctx context.Context, sessionID uint64) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return listBySession(m.reservations, sessionID), nil
}

// memTx mutates a snapshot under the store lock.
type memTx struct {
	store        *memStore
	sessions     map[uint64]model.Session
	reservations map[uint64]model.Reservation
	nextResID    uint64
	done         bool
}

func (t *memTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.sessions = t.sessions
	t.store.reservations = t.reservations
	t.store.nextResID = t.nextResID
	t.store.mu.Unlock()
	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func (t *memTx) LockSession(ctx context.Context, id uint64) (*model.Session, error) {
	s, ok := t.sessions[id]
	if !ok {
		return nil, engine.ErrSessionNotFound
	}
	return &s, nil
}

func (t *memTx) SaveSession(ctx context.Context, s *model.Session) error {
	if _, ok := t.sessions[s.ID]; !ok {
		return engine.ErrSessionNotFound
	}
	s.Version++
	t.sessions[s.ID] = *s
	return nil
}

func (t *memTx) LockReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	r, ok := t.reservations[id]
	if !ok {
		return nil, engine.ErrReservationNotFound
	}
	r.SeatNumbers = cloneSeats(r.SeatNumbers)
	return &r, nil
}

func (t *memTx) ReservationsBySession(ctx context.Context, sessionID uint64) ([]model.Reservation, error) {
	return listBySession(t.reservations, sessionID), nil
}

func (t *memTx) InsertReservation(ctx context.Context, r *model.Reservation) error {
	t.nextResID++
	r.ID = t.nextResID
	stored := *r
	stored.SeatNumbers = cloneSeats(r.SeatNumbers)
	t.reservations[r.ID] = stored
	return nil
}

func (t *memTx) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	if _, ok := t.reservations[r.ID]; !ok {
		return engine.ErrReservationNotFound
	}
	stored := *r
	stored.SeatNumbers = cloneSeats(r.SeatNumbers)
	t.reservations[r.ID] = stored
	return nil
}

func (t *memTx) DeleteReservation(ctx context.Context, id uint64) error {
	if _, ok := t.reservations[id]; !ok {
		return engine.ErrReservationNotFound
	}
	delete(t.reservations, id)
	return nil
}

func (t *memTx) UserExists(ctx context.Context, id uint64) (bool, error) {
	return t.store.users[id], nil
}

func cloneSeats(seats []uint32) []uint32 {
	out := make([]uint32, len(seats))
	copy(out, seats)
	return out
}

func cloneSessions(in map[uint64]model.Session) map[uint64]model.Session {
	out := make(map[uint64]model.Session, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneReservations(in map[uint64]model.Reservation) map[uint64]model.Reservation {
	out := make(map[uint64]model.Reservation, len(in))
	for k, v := range in {
		v.SeatNumbers = cloneSeats(v.SeatNumbers)
		out[k] = v
	}
	return out
}

func listBySession(reservations map[uint64]model.Reservation, sessionID uint64) []model.Reservation {
	out := make([]model.Reservation, 0)
	for _, r := range reservations {
		if r.SessionID == sessionID {
			r.SeatNumbers = cloneSeats(r.SeatNumbers)
			out = append(out, r)
		}
	}
	return out
}
