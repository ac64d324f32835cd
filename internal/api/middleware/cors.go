package middleware

import (
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// CORS wraps echo's CORS middleware and also stamps the headers on requests
// without an Origin header, which echo passes through untouched. The
// wildcard origin is only stamped when the allow list contains "*".
func CORS(cfg echomiddleware.CORSConfig) echo.MiddlewareFunc {
	cors := echomiddleware.CORSWithConfig(cfg)
	wildcard := slices.Contains(cfg.AllowOrigins, "*")
	methods := strings.Join(cfg.AllowMethods, ",")
	headers := strings.Join(cfg.AllowHeaders, ",")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		withCORS := cors(next)
		return func(c echo.Context) error {
			if c.Request().Header.Get(echo.HeaderOrigin) != "" {
				return withCORS(c)
			}
			h := c.Response().Header()
			if wildcard {
				h.Set(echo.HeaderAccessControlAllowOrigin, "*")
			}
			if methods != "" {
				h.Set(echo.HeaderAccessControlAllowMethods, methods)
			}
			if headers != "" {
				h.Set(echo.HeaderAccessControlAllowHeaders, headers)
			}
			if cfg.AllowCredentials {
				h.Set(echo.HeaderAccessControlAllowCredentials, "true")
			}
			return next(c)
		}
	}
}
