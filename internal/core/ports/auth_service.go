package ports

import (
	"context"
	"time"

	"github.com/sxc/scholarhub/internal/core/domain"
)

// Session is the decoded content of a bearer token.
type Session struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}

// TokenRevoker records revoked token ids until their natural expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RegisterInput carries the profile supplied at registration.
type RegisterInput struct {
	Email      string
	Password   string
	Name       string
	Department string
	Year       string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Authenticate decodes a bearer token and rejects revoked ones.
	Authenticate(ctx context.Context, token string) (*Session, error)
	Logout(ctx context.Context, session *Session) error
}
