package ports

import (
	"context"

	"github.com/sxc/scholarhub/internal/core/domain"
)

// UserRepository defines persistence operations for the users collection.
type UserRepository interface {
	// Create inserts a new user. A duplicate email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// ListAll returns up to limit users; PasswordHash is always empty.
	ListAll(ctx context.Context, limit int) ([]*domain.User, error)
	// RecordDownload increments the download counter and pushes resourceID
	// onto the recent-views list in a single update.
	RecordDownload(ctx context.Context, userID, resourceID string) error
	// ToggleBookmark flips membership of resourceID and reports whether it
	// is bookmarked afterwards.
	ToggleBookmark(ctx context.Context, userID, resourceID string) (bool, error)
	// SetRole changes the role of the user with the given email.
	SetRole(ctx context.Context, email, role string) error
}
