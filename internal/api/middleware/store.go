package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// StoreChecker reports whether the document store is reachable,
// reconnecting if needed.
type StoreChecker interface {
	Ensure(ctx context.Context) error
}

// EnsureStore fails the request with 503 when the store cannot be reached.
func EnsureStore(store StoreChecker, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := store.Ensure(c.Request().Context()); err != nil {
				log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("document store unavailable")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Internal server error")
			}
			return next(c)
		}
	}
}
