package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sxc/scholarhub/internal/core/domain"
	"github.com/sxc/scholarhub/internal/core/ports"
	"github.com/sxc/scholarhub/internal/pkg/metrics"
)

// AuthService implements registration, login and bearer-token sessions.
type AuthService struct {
	users   ports.UserRepository
	tokens  *TokenService
	revoker ports.TokenRevoker
	admins  map[string]struct{}
	logger  zerolog.Logger
}

// NewAuthService builds an AuthService. Users registering with an email in
// adminEmails receive the admin role. revoker may be nil, in which case
// logout is a no-op and tokens are only bounded by their expiry.
func NewAuthService(users ports.UserRepository, tokens *TokenService, revoker ports.TokenRevoker, adminEmails []string, logger zerolog.Logger) *AuthService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e != "" {
			admins[e] = struct{}{}
		}
	}
	return &AuthService{users: users, tokens: tokens, revoker: revoker, admins: admins, logger: logger}
}

func (s *AuthService) roleFor(email string) string {
	if _, ok := s.admins[email]; ok {
		return domain.RoleAdmin
	}
	return domain.RoleStudent
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" || in.Department == "" || in.Year == "" {
		return nil, domain.NewValidationError("All fields are required")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Department:   in.Department,
		Year:         in.Year,
		Role:         s.roleFor(in.Email),
		RecentViews:  []string{},
		Bookmarks:    []string{},
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	metrics.RegistrationsTotal.WithLabelValues(user.Role).Inc()
	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user registered")

	token, err := s.tokens.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.NewValidationError("Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (*ports.Session, error) {
	session, err := s.tokens.DecodeToken(token)
	if err != nil {
		return nil, err
	}
	if s.revoker == nil || session.TokenID == "" {
		return session, nil
	}
	revoked, err := s.revoker.IsRevoked(ctx, session.TokenID)
	if err != nil {
		// Deny-list errors fail open.
		s.logger.Warn().Err(err).Str("token_id", session.TokenID).Msg("revocation check failed")
		return session, nil
	}
	if revoked {
		return nil, domain.ErrInvalidToken
	}
	return session, nil
}

func (s *AuthService) Logout(ctx context.Context, session *ports.Session) error {
	if s.revoker == nil || session == nil || session.TokenID == "" {
		return nil
	}
	if err := s.revoker.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", session.UserID).Msg("session revoked")
	return nil
}
