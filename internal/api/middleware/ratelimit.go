package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clubhub/clubhub-api/internal/api/metrics"
	"github.com/clubhub/clubhub-api/internal/core/domain"
	"github.com/clubhub/clubhub-api/internal/core/ports"
)

const (
	headerLimit     = "X-RateLimit-Limit"
	headerRemaining = "X-RateLimit-Remaining"
	headerReset     = "X-RateLimit-Reset"
)

var errTooManyRequests = domain.TooManyRequests("too_many_requests",
	"Too many requests from this IP, please try again later")

// RateLimit caps requests per client IP. A nil limiter disables the check.
// Limiter failures let the request through.
func RateLimit(limiter ports.RateLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if limiter == nil {
			return next
		}
		return func(c echo.Context) error {
			ip := c.RealIP()
			res, err := limiter.Allow(c.Request().Context(), ip)
			if err != nil {
				log.Warn().Err(err).Str("ip", ip).Msg("rate limiter unavailable")
				return next(c)
			}

			h := c.Response().Header()
			h.Set(headerLimit, strconv.Itoa(res.Limit))
			h.Set(headerRemaining, strconv.Itoa(res.Remaining))
			h.Set(headerReset, strconv.Itoa(int(math.Ceil(res.ResetIn.Seconds()))))

			if !res.Allowed {
				metrics.RateLimitedTotal.Inc()
				return errTooManyRequests
			}
			return next(c)
		}
	}
}
