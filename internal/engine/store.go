package engine

import (
	"context"

	"github.com/kinoflow/cinema-reservation/internal/model"
)

// Store is the persistence port the engine runs against. Begin opens a
// transaction whose row locks serialize all mutations touching a session;
// the read methods are plain consistent reads used by the query operations
// and require no locking.
type Store interface {
	Begin(ctx context.Context) (Tx, error)

	GetSession(ctx context.Context, id uint64) (*model.Session, error)
	GetReservation(ctx context.Context, id uint64) (*model.Reservation, error)
	ListReservationsByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
	ListReservationsBySession(ctx context.Context, sessionID uint64) ([]model.Reservation, error)
}

// Tx is one atomic unit of work. Implementations must guarantee that every
// row returned by a Lock* call stays exclusively held until Commit or
// Rollback, and that Rollback leaves state exactly as before Begin.
type Tx interface {
	SessionCatalog
	ReservationStore
	UserDirectory

	Commit() error
	Rollback() error
}

// SessionCatalog supplies session lookup and locking inside a transaction.
// LockSession must take the exclusive row lock (SELECT ... FOR UPDATE or an
// equivalent) before returning, and SaveSession must bump the session's
// version as part of the write.
type SessionCatalog interface {
	LockSession(ctx context.Context, id uint64) (*model.Session, error)
	SaveSession(ctx context.Context, s *model.Session) error
}

// ReservationStore persists reservations inside a transaction.
// LockReservation locks the reservation row exclusively; it is always called
// before LockSession so every operation acquires locks in the same order.
// ReservationsBySession is read after the owning session is locked, which
// makes the returned live set stable for conflict detection.
type ReservationStore interface {
	LockReservation(ctx context.Context, id uint64) (*model.Reservation, error)
	ReservationsBySession(ctx context.Context, sessionID uint64) ([]model.Reservation, error)
	InsertReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservation(ctx context.Context, r *model.Reservation) error
	DeleteReservation(ctx context.Context, id uint64) error
}

// UserDirectory answers whether a principal exists. The engine treats users
// as an external collaborator and only ever needs existence.
type UserDirectory interface {
	UserExists(ctx context.Context, id uint64) (bool, error)
}
