package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kinoflow/cinema-reservation/internal/engine"
	"github.com/kinoflow/cinema-reservation/internal/model"
	"github.com/kinoflow/cinema-reservation/internal/queue"
	"github.com/kinoflow/cinema-reservation/internal/repository"
	queue_publisher "github.com/kinoflow/cinema-reservation/internal/service"
)

// ReservationHandler exposes the reservation engine over HTTP. Handlers do
// ownership checks and input validation; all seat accounting and conflict
// detection happens inside the engine. The start-time restriction on modify
// is enforced here and only here: the engine has no time-based rules, and
// create/cancel carry no such check.
type ReservationHandler struct {
	Engine *engine.Engine
	Store  *repository.Store // read-side session lookups for policy and events
}

// NewReservationHandler constructs a ReservationHandler. Both dependencies
// must be non-nil.
func NewReservationHandler(eng *engine.Engine, store *repository.Store) *ReservationHandler {
	if eng == nil || store == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Engine: eng, Store: store}
}

// ----- DTOs -----

type createReservationReq struct {
	SessionID   uint64   `json:"session_id"`
	SeatsCount  int      `json:"seats_count"`
	SeatNumbers []uint32 `json:"seat_numbers"`
}

type modifyReservationReq struct {
	SeatNumbers     []uint32 `json:"seat_numbers"`
	ExpectedVersion *uint32  `json:"expected_version,omitempty"`
}

type cancelReservationReq struct {
	ExpectedVersion *uint32 `json:"expected_version,omitempty"`
}

type reservationResp struct {
	ID          uint64   `json:"id"`
	UserID      uint64   `json:"user_id"`
	SessionID   uint64   `json:"session_id"`
	SeatNumbers []uint32 `json:"seat_numbers"`
	SeatsBooked uint32   `json:"seats_booked"`
	ReservedAt  string   `json:"reserved_at"`
	Version     uint32   `json:"version"`
}

func toReservationResp(r *model.Reservation) reservationResp {
	return reservationResp{
		ID:          r.ID,
		UserID:      r.UserID,
		SessionID:   r.SessionID,
		SeatNumbers: r.SeatNumbers,
		SeatsBooked: r.SeatsBooked,
		ReservedAt:  r.ReservedAt.UTC().Format(time.RFC3339),
		Version:     r.Version,
	}
}

// checkSeatInput rejects malformed seat lists before they reach the engine:
// empty lists, zero seat numbers and duplicates. Range against the session
// capacity is the engine's job.
func checkSeatInput(seats []uint32) string {
	if len(seats) == 0 {
		return "seat_numbers is required"
	}
	seen := make(map[uint32]struct{}, len(seats))
	for _, s := range seats {
		if s == 0 {
			return "seat numbers must be positive"
		}
		if _, dup := seen[s]; dup {
			return "seat numbers must be unique"
		}
		seen[s] = struct{}{}
	}
	return ""
}

// Create handles POST /v1/reservations. The authenticated user books
// seats_count specific seats on a session; seats are granted all-or-nothing.
// Responds 201 with the reservation, or the engine's error mapped to
// 400/404/409.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.SessionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id is required"})
	}
	if req.SeatsCount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats_count must be positive"})
	}
	if msg := checkSeatInput(req.SeatNumbers); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	res, err := h.Engine.Create(c.Request().Context(), engine.CreateRequest{
		SessionID:   req.SessionID,
		UserID:      userID,
		SeatNumbers: req.SeatNumbers,
		SeatsCount:  req.SeatsCount,
	})
	if err != nil {
		return writeEngineError(c, err)
	}

	h.publishEvent(queue.EventReservationCreated, res)
	return c.JSON(http.StatusCreated, toReservationResp(res))
}

// Modify handles PATCH /v1/reservations/:id/modify. It replaces the seat
// set of the caller's own reservation. Sessions that already started cannot
// be modified; that check is business policy and lives here rather than in
// the engine.
func (h *ReservationHandler) Modify(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req modifyReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := checkSeatInput(req.SeatNumbers); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx := c.Request().Context()
	current, err := h.Engine.Reservation(ctx, resID)
	if err != nil {
		return writeEngineError(c, err)
	}
	if current.UserID != userID && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only modify your own reservations"})
	}
	sess, err := h.Store.GetSession(ctx, current.SessionID)
	if err != nil {
		return writeEngineError(c, err)
	}
	if sess.Started(time.Now().UTC()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot modify a reservation for a session that has already started"})
	}

	res, err := h.Engine.Modify(ctx, resID, req.SeatNumbers, req.ExpectedVersion)
	if err != nil {
		return writeEngineError(c, err)
	}

	h.publishEvent(queue.EventReservationModified, res)
	return c.JSON(http.StatusOK, toReservationResp(res))
}

// Cancel handles PATCH /v1/reservations/:id/cancel. It deletes the caller's
// reservation and returns its seats to the pool. The body may carry an
// expected_version for the optimistic guard and is optional.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req cancelReservationReq
	_ = c.Bind(&req) // empty body allowed

	ctx := c.Request().Context()
	current, err := h.Engine.Reservation(ctx, resID)
	if err != nil {
		return writeEngineError(c, err)
	}
	if current.UserID != userID && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only cancel your own reservations"})
	}

	if err := h.Engine.Cancel(ctx, resID, req.ExpectedVersion); err != nil {
		return writeEngineError(c, err)
	}

	h.publishEvent(queue.EventReservationCancelled, current)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Get handles GET /v1/reservations/:id. Users may only read their own
// reservations; admins may read any.
func (h *ReservationHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Engine.Reservation(c.Request().Context(), resID)
	if err != nil {
		return writeEngineError(c, err)
	}
	if res.UserID != userID && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only view your own reservations"})
	}
	return c.JSON(http.StatusOK, toReservationResp(res))
}

// ListMine handles GET /v1/reservations/my, listing the caller's
// reservations newest first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Engine.ReservationsByUser(c.Request().Context(), userID)
	if err != nil {
		return writeEngineError(c, err)
	}
	out := make([]reservationResp, 0, len(items))
	for i := range items {
		out = append(out, toReservationResp(&items[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListBySession handles GET /v1/sessions/:id/reservations, listing all live
// reservations for a session. Admin-only: seat ownership of other customers
// is not public data.
func (h *ReservationHandler) ListBySession(c echo.Context) error {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	items, err := h.Engine.ReservationsBySession(c.Request().Context(), sessionID)
	if err != nil {
		return writeEngineError(c, err)
	}
	out := make([]reservationResp, 0, len(items))
	for i := range items {
		out = append(out, toReservationResp(&items[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// BookedSeats handles GET /v1/sessions/:id/booked-seats. The booking UI
// calls it to grey out seats that are already taken.
func (h *ReservationHandler) BookedSeats(c echo.Context) error {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	seats, err := h.Engine.BookedSeats(c.Request().Context(), sessionID)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"session_id":   sessionID,
		"booked_seats": seats,
	})
}

// publishEvent emits a reservation lifecycle event in the background. Event
// delivery is best-effort; a broker outage must never fail a booking.
func (h *ReservationHandler) publishEvent(eventType string, r *model.Reservation) {
	ev := queue.ReservationEvent{
		Type:          eventType,
		ReservationID: r.ID,
		UserID:        r.UserID,
		SessionID:     r.SessionID,
		SeatNumbers:   r.SeatNumbers,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	// Session details are decoration on a best-effort message; skip them
	// if the lookup fails (e.g. the session was removed after a cancel).
	if sess, err := h.Store.GetSession(ctx, r.SessionID); err == nil {
		ev.MovieTitle = sess.MovieTitle
		ev.StartsAt = sess.StartTime.UTC().Format(time.RFC3339)
	}
	go func() {
		defer cancel()
		_ = queue_publisher.PublishReservationEvent(ctx, ev)
	}()
}
