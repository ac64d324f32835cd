package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sxc/scholarhub/internal/core/domain"
	"github.com/sxc/scholarhub/internal/core/ports"
)

type stubAuthenticator struct {
	sessions map[string]*ports.Session
	err      error
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*ports.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	session, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return session, nil
}

type stubUsers map[string]*domain.User

func (s stubUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func newAuthenticator() *stubAuthenticator {
	return &stubAuthenticator{sessions: map[string]*ports.Session{
		"good":  {UserID: "u1", TokenID: "t1", ExpiresAt: time.Now().Add(time.Hour)},
		"ghost": {UserID: "missing", TokenID: "t2", ExpiresAt: time.Now().Add(time.Hour)},
	}}
}

func serve(t *testing.T, mw []echo.MiddlewareFunc, header string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := next
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthenticate_ValidToken(t *testing.T) {
	called := false
	rec := serve(t, []echo.MiddlewareFunc{Authenticate(newAuthenticator(), MsgAuthRequired)}, "Bearer good", func(c echo.Context) error {
		called = true
		session, ok := CurrentSession(c)
		if !ok || session.UserID != "u1" {
			t.Fatalf("session not set: %+v", session)
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		missing string
		wantMsg string
	}{
		{"missing header", "", MsgAuthRequired, MsgAuthRequired},
		{"missing header verify wording", "", MsgNoToken, MsgNoToken},
		{"non bearer scheme", "Token good", MsgAuthRequired, MsgAuthRequired},
		{"lowercase scheme", "bearer good", MsgAuthRequired, MsgAuthRequired},
		{"invalid token", "Bearer nope", MsgAuthRequired, MsgInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, []echo.MiddlewareFunc{Authenticate(newAuthenticator(), tt.missing)}, tt.header, func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if got := rec.Body.String(); !strings.Contains(got, tt.wantMsg) {
				t.Fatalf("expected message %q in %s", tt.wantMsg, got)
			}
		})
	}
}

func TestAuthenticate_PropagatesUnexpectedErrors(t *testing.T) {
	boom := errors.New("boom")
	auth := &stubAuthenticator{err: boom}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good")
	c := e.NewContext(req, httptest.NewRecorder())

	err := Authenticate(auth, MsgAuthRequired)(func(echo.Context) error { return nil })(c)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestLoadUser(t *testing.T) {
	users := stubUsers{"u1": {ID: "u1", Role: domain.RoleStudent}}
	chain := []echo.MiddlewareFunc{Authenticate(newAuthenticator(), MsgAuthRequired), LoadUser(users)}

	rec := serve(t, chain, "Bearer good", func(c echo.Context) error {
		user, ok := CurrentUser(c)
		if !ok || user.ID != "u1" {
			t.Fatalf("user not set")
		}
		return c.NoContent(http.StatusOK)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = serve(t, chain, "Bearer ghost", func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), MsgUserNotFound) {
		t.Fatalf("expected 404 User not found, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestLoadUser_WithoutSession(t *testing.T) {
	rec := serve(t, []echo.MiddlewareFunc{LoadUser(stubUsers{})}, "", func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
