package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/sxc/scholarhub/internal/core/domain"
	"github.com/sxc/scholarhub/internal/core/ports"
)

// Context keys set by the authentication pipeline.
const (
	SessionKey = "session"
	UserKey    = "user"
)

// CurrentSession returns the session stored by Authenticate.
func CurrentSession(c echo.Context) (*ports.Session, bool) {
	s, ok := c.Get(SessionKey).(*ports.Session)
	return s, ok && s != nil
}

// CurrentUser returns the user stored by LoadUser.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	u, ok := c.Get(UserKey).(*domain.User)
	return u, ok && u != nil
}
