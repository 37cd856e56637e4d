package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinoflow/cinema-reservation/internal/middleware"
	"github.com/kinoflow/cinema-reservation/internal/model"
	"github.com/kinoflow/cinema-reservation/internal/utils"
)

const testSecret = "unit-test-secret"

func runProtected(t *testing.T, authHeader string, mw ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	_ = handler(c)
	return rec, c
}

func TestJWTAuth_ValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, model.RoleUser, 15)
	require.NoError(t, err)

	rec, c := runProtected(t, "Bearer "+tok.Token, middleware.JWTAuth(testSecret))
	assert.Equal(t, http.StatusOK, rec.Code)

	// JWT numbers decode as float64.
	assert.Equal(t, float64(42), c.Get("user_id"))
	assert.Equal(t, model.RoleUser, c.Get("role"))
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	rec, _ := runProtected(t, "", middleware.JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", 42, model.RoleUser, 15)
	require.NoError(t, err)

	rec, _ := runProtected(t, "Bearer "+tok.Token, middleware.JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_Garbage(t *testing.T) {
	rec, _ := runProtected(t, "Bearer not.a.jwt", middleware.JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, model.RoleUser, 15)
	require.NoError(t, err)

	// A regular user passes a user-level gate.
	rec, _ := runProtected(t, "Bearer "+tok.Token,
		middleware.JWTAuth(testSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)

	// But not an admin-only gate.
	rec, _ = runProtected(t, "Bearer "+tok.Token,
		middleware.JWTAuth(testSecret),
		middleware.RequireRole(model.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_NoRoleInContext(t *testing.T) {
	rec, _ := runProtected(t, "", middleware.RequireRole(model.RoleUser))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
