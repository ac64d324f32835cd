package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sxc/scholarhub/internal/api/middleware"
	"github.com/sxc/scholarhub/internal/core/domain"
	"github.com/sxc/scholarhub/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	logoutFn   func(ctx context.Context, session *ports.Session) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*ports.Session, error) {
	return nil, domain.ErrInvalidToken
}

func (s *stubAuthService) Logout(ctx context.Context, session *ports.Session) error {
	return s.logoutFn(ctx, session)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.Email != "alice@sxc.edu" || in.Name != "Alice" || in.Year != "2" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.AuthResult{
				Token: "tok",
				User:  &domain.User{ID: "u1", Email: in.Email, Role: domain.RoleStudent, PasswordHash: "hash"},
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register",
		`{"email":"alice@sxc.edu","password":"secret","name":"Alice","department":"CS","year":"2"}`), rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "hash") || strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("password leaked: %s", rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "tok" {
		t.Fatalf("expected token, got %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["role"] != domain.RoleStudent {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register", `{"email":"bob@sxc.edu"}`), httptest.NewRecorder())
	err := handler.Register(c)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Message != "All fields are required" {
		t.Fatalf("unexpected message %q", ve.Message)
	}
	if !strings.Contains(ve.Details, "password is required") {
		t.Fatalf("expected json field names in details, got %q", ve.Details)
	}
}

func TestAuthHandler_Register_MalformedBody(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register", `{"email":`), httptest.NewRecorder())
	err := handler.Register(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrUserExists
		},
	})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register",
		`{"email":"a@sxc.edu","password":"p","name":"A","department":"CS","year":"1"}`), httptest.NewRecorder())
	if err := handler.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		loginFn func(ctx context.Context, email, password string) (*ports.AuthResult, error)
		wantErr func(error) bool
	}{
		{
			name: "success",
			body: `{"email":"a@sxc.edu","password":"pw"}`,
			loginFn: func(_ context.Context, email, password string) (*ports.AuthResult, error) {
				return &ports.AuthResult{Token: "tok", User: &domain.User{ID: "u1", Email: email}}, nil
			},
			wantErr: func(err error) bool { return err == nil },
		},
		{
			name:    "missing password",
			body:    `{"email":"a@sxc.edu"}`,
			wantErr: domain.IsValidation,
		},
		{
			name: "bad credentials",
			body: `{"email":"a@sxc.edu","password":"nope"}`,
			loginFn: func(context.Context, string, string) (*ports.AuthResult, error) {
				return nil, domain.ErrInvalidCredentials
			},
			wantErr: func(err error) bool { return errors.Is(err, domain.ErrInvalidCredentials) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			handler := NewAuthHandler(&stubAuthService{loginFn: tt.loginFn})
			rec := httptest.NewRecorder()
			c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", tt.body), rec)

			err := handler.Login(c)
			if !tt.wantErr(err) {
				t.Fatalf("unexpected error: %v", err)
			}
			if err == nil && !strings.Contains(rec.Body.String(), `"token":"tok"`) {
				t.Fatalf("expected token in body, got %s", rec.Body.String())
			}
		})
	}
}

func TestAuthHandler_Verify(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil), rec)
	c.Set(middleware.UserKey, &domain.User{ID: "u1", Email: "a@sxc.edu"})

	if err := handler.Verify(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.Contains(rec.Body.String(), "token") || !strings.Contains(rec.Body.String(), `"id":"u1"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEcho()
	var revoked string
	handler := NewAuthHandler(&stubAuthService{
		logoutFn: func(_ context.Context, s *ports.Session) error {
			revoked = s.TokenID
			return nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), rec)
	c.Set(middleware.SessionKey, &ports.Session{UserID: "u1", TokenID: "jti-1"})

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if revoked != "jti-1" {
		t.Fatalf("expected jti-1 revoked, got %q", revoked)
	}
}
