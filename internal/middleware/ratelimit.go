package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kinoflow/cinema-reservation/internal/config"
)

// RateLimit returns a fixed-window request limiter backed by Redis. Each
// client IP gets cfg.Limit requests per cfg.Window per route; the counter
// key expires with the window. When the limiter is disabled or Redis is
// unavailable the middleware is a pass-through, availability wins over
// throttling.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			window := time.Now().Unix() / int64(cfg.Window.Seconds())
			key := fmt.Sprintf("%s:%s:%s:%d", cfg.Prefix, c.RealIP(), c.Path(), window)

			ctx := c.Request().Context()
			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				// Redis hiccup: let the request through.
				return next(c)
			}
			if n == 1 {
				rdb.Expire(ctx, key, cfg.Window)
			}
			if n > int64(cfg.Limit) {
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
			}
			return next(c)
		}
	}
}
