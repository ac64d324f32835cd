package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sxc/scholarhub/internal/api/middleware"
	"github.com/sxc/scholarhub/internal/core/domain"
)

// actor returns the user resolved by the LoadUser middleware. A missing
// user means the route was registered without the auth stages.
func actor(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, middleware.MsgAuthRequired)
	}
	return user, nil
}

// bind decodes the request body into dst and runs the registered validator.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return c.Validate(dst)
}
