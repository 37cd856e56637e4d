package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kinoflow/cinema-reservation/internal/model"
	"github.com/kinoflow/cinema-reservation/internal/repository"
)

// SessionHandler serves the session catalog: admins create, update and
// delete sessions; listing and reading are public so customers can browse
// the schedule without an account.
type SessionHandler struct {
	Sessions *repository.SessionRepo
	Store    *repository.Store
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(sessions *repository.SessionRepo, store *repository.Store) *SessionHandler {
	return &SessionHandler{Sessions: sessions, Store: store}
}

// dbTime is the format session times are stored in (UTC, no zone suffix).
const dbTime = "2006-01-02 15:04:05"

type createSessionReq struct {
	MovieID     *uint64 `json:"movie_id,omitempty"`
	MovieTitle  string  `json:"movie_title"`
	Description *string `json:"description,omitempty"`
	StartTime   string  `json:"start_time"` // RFC 3339
	EndTime     string  `json:"end_time"`   // RFC 3339
	RoomNumber  uint32  `json:"room_number"`
	PriceCents  uint32  `json:"price_cents"`
	TotalSeats  uint32  `json:"total_seats"`
}

type updateSessionReq struct {
	MovieID     *uint64 `json:"movie_id,omitempty"`
	MovieTitle  *string `json:"movie_title,omitempty"`
	Description *string `json:"description,omitempty"`
	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
	RoomNumber  *uint32 `json:"room_number,omitempty"`
	PriceCents  *uint32 `json:"price_cents,omitempty"`
	TotalSeats  *uint32 `json:"total_seats,omitempty"`
}

type sessionResp struct {
	ID             uint64  `json:"id"`
	MovieID        *uint64 `json:"movie_id,omitempty"`
	MovieTitle     string  `json:"movie_title"`
	Description    *string `json:"description,omitempty"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	RoomNumber     uint32  `json:"room_number"`
	PriceCents     uint32  `json:"price_cents"`
	TotalSeats     uint32  `json:"total_seats"`
	AvailableSeats uint32  `json:"available_seats"`
	Version        uint32  `json:"version"`
}

func toSessionResp(s *model.Session) sessionResp {
	return sessionResp{
		ID:             s.ID,
		MovieID:        s.MovieID,
		MovieTitle:     s.MovieTitle,
		Description:    s.Description,
		StartTime:      s.StartTime.UTC().Format(time.RFC3339),
		EndTime:        s.EndTime.UTC().Format(time.RFC3339),
		RoomNumber:     s.RoomNumber,
		PriceCents:     s.PriceCents,
		TotalSeats:     s.TotalSeats,
		AvailableSeats: s.AvailableSeats,
		Version:        s.Version,
	}
}

// Create handles POST /v1/sessions (admin). A new session opens with its
// full capacity available.
func (h *SessionHandler) Create(c echo.Context) error {
	var req createSessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.MovieTitle == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_title is required"})
	}
	if req.TotalSeats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_seats must be positive"})
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be RFC 3339"})
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be RFC 3339"})
	}
	if !end.After(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time"})
	}

	s := &model.Session{
		MovieID:     req.MovieID,
		MovieTitle:  req.MovieTitle,
		Description: req.Description,
		StartTime:   start.UTC(),
		EndTime:     end.UTC(),
		RoomNumber:  req.RoomNumber,
		PriceCents:  req.PriceCents,
		TotalSeats:  req.TotalSeats,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Sessions.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, toSessionResp(s))
}

// List handles GET /v1/sessions (public), ordered by start time.
func (h *SessionHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, err := h.Sessions.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]sessionResp, 0, len(items))
	for i := range items {
		out = append(out, toSessionResp(&items[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/sessions/:id (public).
func (h *SessionHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	s, err := h.Store.GetSession(ctx, id)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResp(s))
}

// Update handles PATCH /v1/sessions/:id (admin). Capacity changes are
// rejected with 409 once the session has reservations.
func (h *SessionHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	var req updateSessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	upd := repository.SessionUpdate{
		MovieID:     req.MovieID,
		MovieTitle:  req.MovieTitle,
		Description: req.Description,
		RoomNumber:  req.RoomNumber,
		PriceCents:  req.PriceCents,
		TotalSeats:  req.TotalSeats,
	}
	if req.StartTime != nil {
		t, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be RFC 3339"})
		}
		v := t.UTC().Format(dbTime)
		upd.StartTime = &v
	}
	if req.EndTime != nil {
		t, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be RFC 3339"})
		}
		v := t.UTC().Format(dbTime)
		upd.EndTime = &v
	}
	if req.TotalSeats != nil && *req.TotalSeats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_seats must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Sessions.Update(ctx, id, upd); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "cannot change capacity of a session with reservations"})
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	s, err := h.Store.GetSession(ctx, id)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResp(s))
}

// Delete handles DELETE /v1/sessions/:id (admin). Sessions with live
// reservations cannot be removed.
func (h *SessionHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Sessions.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "cannot delete a session with reservations"})
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
