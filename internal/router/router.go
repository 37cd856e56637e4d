package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kinoflow/cinema-reservation/internal/config"
	"github.com/kinoflow/cinema-reservation/internal/handler"
	"github.com/kinoflow/cinema-reservation/internal/middleware"
	"github.com/kinoflow/cinema-reservation/internal/model"
)

// Deps bundles everything the route table needs. The Redis client may be
// nil, in which case rate limiting and response caching are disabled and
// the middleware passes requests straight through.
type Deps struct {
	Cfg          config.Config
	Redis        *redis.Client
	Auth         *handler.AuthHandler
	Movies       *handler.MovieHandler
	Sessions     *handler.SessionHandler
	Reservations *handler.ReservationHandler
}

// Register wires the full route table onto the provided Echo instance.
//
// Public:     health check, catalog reads, per-session booked seats.
// User:       reservation lifecycle and own-profile reads (valid JWT).
// Admin:      catalog writes and per-session reservation listings.
func Register(e *echo.Echo, d Deps) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	limit := middleware.RateLimit(d.Cfg.RateLimit, d.Redis)
	cache := middleware.CacheResponse(d.Cfg.Cache, d.Redis)

	// Unauthenticated auth operations. Rate limited so credential stuffing
	// cannot hammer the login endpoint.
	authGroup := e.Group("/v1/auth")
	authGroup.POST("/register", d.Auth.Register, limit)
	authGroup.POST("/login", d.Auth.Login, limit)

	// Public catalog browsing; reads are cacheable.
	e.GET("/v1/movies", d.Movies.List, cache)
	e.GET("/v1/movies/:id", d.Movies.Get, cache)
	e.GET("/v1/sessions", d.Sessions.List, cache)
	e.GET("/v1/sessions/:id", d.Sessions.Get)
	// The seat map backs the booking UI and changes on every reservation,
	// so it gets the short cache TTL rather than none at all.
	e.GET("/v1/sessions/:id/booked-seats", d.Reservations.BookedSeats, cache)

	// Everything below requires a valid access token.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(d.Cfg.JWTSecret))
	auth.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))

	auth.GET("/me", d.Auth.Me)

	auth.POST("/reservations", d.Reservations.Create, limit)
	auth.GET("/reservations/my", d.Reservations.ListMine)
	auth.GET("/reservations/:id", d.Reservations.Get)
	auth.PATCH("/reservations/:id/modify", d.Reservations.Modify, limit)
	auth.PATCH("/reservations/:id/cancel", d.Reservations.Cancel, limit)

	// Admin-only catalog management and reservation oversight.
	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(d.Cfg.JWTSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))

	admin.POST("/movies", d.Movies.Create)
	admin.PUT("/movies/:id", d.Movies.Update)
	admin.DELETE("/movies/:id", d.Movies.Delete)

	admin.POST("/sessions", d.Sessions.Create)
	admin.PATCH("/sessions/:id", d.Sessions.Update)
	admin.DELETE("/sessions/:id", d.Sessions.Delete)
	admin.GET("/sessions/:id/reservations", d.Reservations.ListBySession)
}
