package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type stubStore struct{ err error }

func (s stubStore) Ensure(context.Context) error { return s.err }

func asHTTPError(err error, target **echo.HTTPError) bool {
	return errors.As(err, target)
}

func TestEnsureStore(t *testing.T) {
	e := echo.New()

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/resources", nil), httptest.NewRecorder())
	called := false
	err := EnsureStore(stubStore{}, zerolog.Nop())(func(echo.Context) error {
		called = true
		return nil
	})(c)
	if err != nil || !called {
		t.Fatalf("expected pass-through, got %v (called=%v)", err, called)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/api/resources", nil), httptest.NewRecorder())
	err = EnsureStore(stubStore{err: errors.New("no servers")}, zerolog.Nop())(func(echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})(c)
	var he *echo.HTTPError
	if !asHTTPError(err, &he) || he.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %v", err)
	}
}
