package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sxc/scholarhub/internal/core/domain"
	"github.com/sxc/scholarhub/internal/core/ports"
)

const (
	MsgAuthRequired = "Authentication required"
	MsgNoToken      = "No token provided"
	MsgInvalidToken = "Invalid token"
	MsgUserNotFound = "User not found"

	bearerPrefix = "Bearer "
)

// Authenticator decodes bearer tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*ports.Session, error)
}

// Authenticate requires an "Authorization: Bearer <token>" header and
// stores the decoded session in the context. missingMsg is returned when
// the header is absent or not a bearer credential.
func Authenticate(auth Authenticator, missingMsg string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return echo.NewHTTPError(http.StatusUnauthorized, missingMsg)
			}

			session, err := auth.Authenticate(c.Request().Context(), strings.TrimSpace(header[len(bearerPrefix):]))
			if err != nil {
				if errors.Is(err, domain.ErrInvalidToken) {
					return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidToken)
				}
				return err
			}

			c.Set(SessionKey, session)
			return next(c)
		}
	}
}

// UserFinder loads users by id.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// LoadUser resolves the acting user from the session set by Authenticate.
func LoadUser(users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, ok := CurrentSession(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgAuthRequired)
			}

			user, err := users.FindByID(c.Request().Context(), session.UserID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusNotFound, MsgUserNotFound)
				}
				return err
			}

			c.Set(UserKey, user)
			return next(c)
		}
	}
}
