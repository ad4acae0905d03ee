package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Allower is a keyed token bucket.
type Allower interface {
	Allow(key string, capacity, refillPerSec float64) bool
}

// RateLimit rejects clients exceeding perMinute requests with 429.
// Capacity equals perMinute so short bursts are absorbed.
func RateLimit(limiter Allower, perMinute int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if limiter == nil || perMinute <= 0 {
			return next
		}
		capacity := float64(perMinute)
		refill := capacity / 60
		return func(c echo.Context) error {
			if !limiter.Allow(ClientIP(c), capacity, refill) {
				c.Response().Header().Set("Retry-After", "60")
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "Too Many Requests",
				})
			}
			return next(c)
		}
	}
}
