package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sxc/scholarhub/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		err         error
		wantCode    int
		wantError   string
		wantDetails string
	}{
		{"unmatched route", "/api/nope", echo.ErrNotFound, http.StatusNotFound, "Route /nope not found", ""},
		{"wrong method", "/api/resources", echo.ErrMethodNotAllowed, http.StatusNotFound, "Route /resources not found", ""},
		{"http error", "/api/users", echo.NewHTTPError(http.StatusForbidden, "Admin access required"), http.StatusForbidden, "Admin access required", ""},
		{"validation", "/api/resources", &domain.ValidationError{Message: "Required fields are missing", Details: "title is required"}, http.StatusBadRequest, "Required fields are missing", "title is required"},
		{"duplicate user", "/api/auth/register", fmt.Errorf("create: %w", domain.ErrUserExists), http.StatusBadRequest, "User already exists", ""},
		{"bad credentials", "/api/auth/login", domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password", ""},
		{"missing resource", "/api/resources/x", domain.ErrResourceNotFound, http.StatusNotFound, "Resource not found", ""},
		{"unexpected", "/api/resources", errors.New("socket closed: 10.0.0.3"), http.StatusInternalServerError, "Internal server error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, tt.path, nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error != tt.wantError || resp.Details != tt.wantDetails {
				t.Fatalf("got %+v", resp)
			}
		})
	}
}
