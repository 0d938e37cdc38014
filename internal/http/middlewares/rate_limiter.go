package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"taskmind.com/taskmind/internal/ratelimit"
	"taskmind.com/taskmind/pkg/exceptions"
)

// RateLimiter allows limit requests per client IP in each window. When the
// store fails the request is let through and the failure logged.
func RateLimiter(store ratelimit.Store, limit int, window time.Duration, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limit <= 0 {
				return next(c)
			}

			count, err := store.Hit(c.Request().Context(), c.RealIP(), window)
			if err != nil {
				logger.Warn("rate limiter unavailable", "error", err)
				return next(c)
			}
			if count > int64(limit) {
				return exceptions.ErrRateLimited
			}

			return next(c)
		}
	}
}
