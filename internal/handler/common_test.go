package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinoflow/cinema-reservation/internal/engine"
	"github.com/kinoflow/cinema-reservation/internal/model"
)

func testContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestWriteEngineError_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"session not found", engine.ErrSessionNotFound, http.StatusNotFound},
		{"reservation not found", engine.ErrReservationNotFound, http.StatusNotFound},
		{"user not found", engine.ErrUserNotFound, http.StatusNotFound},
		{"version conflict", engine.ErrVersionConflict, http.StatusConflict},
		{"count mismatch", engine.ErrSeatCountMismatch, http.StatusBadRequest},
		{"insufficient seats", engine.ErrInsufficientSeats, http.StatusBadRequest},
		{"seats already booked", engine.ErrSeatsAlreadyBooked, http.StatusBadRequest},
		{"seat out of range", engine.ErrSeatOutOfRange, http.StatusBadRequest},
		{"invalid seats", engine.ErrInvalidSeats, http.StatusBadRequest},
		{"seat accounting", model.ErrSeatAccounting, http.StatusInternalServerError},
		{"unexpected", fmt.Errorf("connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := testContext(t)
			require.NoError(t, writeEngineError(c, tc.err))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestWriteEngineError_WrappedErrorsKeepDetail(t *testing.T) {
	c, rec := testContext(t)
	err := fmt.Errorf("%w: 2, 3", engine.ErrSeatsAlreadyBooked)
	require.NoError(t, writeEngineError(c, err))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "seats already booked: 2, 3")
}

func TestGetUserID(t *testing.T) {
	c, _ := testContext(t)
	c.Set("user_id", float64(42)) // JWT number claims decode as float64
	id, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	c.Set("user_id", "17")
	id, err = getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(17), id)

	c.Set("user_id", nil)
	_, err = getUserID(c)
	assert.Error(t, err)
}

func TestCheckSeatInput(t *testing.T) {
	assert.Equal(t, "seat_numbers is required", checkSeatInput(nil))
	assert.Equal(t, "seat numbers must be positive", checkSeatInput([]uint32{1, 0}))
	assert.Equal(t, "seat numbers must be unique", checkSeatInput([]uint32{3, 3}))
	assert.Empty(t, checkSeatInput([]uint32{1, 2, 3}))
}

func TestPathID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("12")

	id, ok := pathID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, uint64(12), id)

	c.SetParamValues("abc")
	_, ok = pathID(c, "id")
	assert.False(t, ok)

	c.SetParamValues("0")
	_, ok = pathID(c, "id")
	assert.False(t, ok)
}
