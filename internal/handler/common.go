package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kinoflow/cinema-reservation/internal/engine"
	"github.com/kinoflow/cinema-reservation/internal/model"
)

// getUserID extracts the authenticated user id stored by the JWT middleware
// and converts it to uint64. JWT number claims decode as float64, so several
// representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// isAdmin reports whether the authenticated request carries the admin role.
func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == model.RoleAdmin
}

// pathID parses a positive numeric :id-style path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id != 0
}

// writeEngineError maps an engine error to its HTTP response. Domain error
// kinds keep their message (it carries counts, seat lists or versions the
// client needs); anything else is reported as a generic database error so
// storage failures are never disguised as domain outcomes.
func writeEngineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, engine.ErrSessionNotFound),
		errors.Is(err, engine.ErrReservationNotFound),
		errors.Is(err, engine.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrVersionConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrSeatCountMismatch),
		errors.Is(err, engine.ErrInsufficientSeats),
		errors.Is(err, engine.ErrSeatsAlreadyBooked),
		errors.Is(err, engine.ErrSeatOutOfRange),
		errors.Is(err, engine.ErrInvalidSeats):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrSeatAccounting):
		// Stored state is inconsistent; surface loudly, never as a
		// client error.
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seat inventory inconsistency detected"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
