package ports

import (
	"context"
	"time"

	"github.com/sxc/scholarhub/internal/core/domain"
)

// ResourceFilter carries the optional search criteria. Empty fields are
// ignored; non-empty ones are ANDed together.
type ResourceFilter struct {
	Text       string // case-insensitive substring of title, description or subject
	Department string
	Year       string
	Type       string
}

// IsEmpty reports whether no criterion is set.
func (f ResourceFilter) IsEmpty() bool {
	return f.Text == "" && f.Department == "" && f.Year == "" && f.Type == ""
}

// ResourceRepository defines persistence operations for the resources
// collection. Every read except GetWithContent omits FileContent.
type ResourceRepository interface {
	// ListRecent returns resources ordered by uploadedAt descending.
	ListRecent(ctx context.Context, limit int) ([]*domain.Resource, error)
	Search(ctx context.Context, filter ResourceFilter, limit int) ([]*domain.Resource, error)
	GetByID(ctx context.Context, id string) (*domain.Resource, error)
	GetWithContent(ctx context.Context, id string) (*domain.Resource, error)
	Create(ctx context.Context, r *domain.Resource) error
	// Update applies patch, stamps updatedAt and returns the stored result.
	Update(ctx context.Context, id string, patch domain.ResourcePatch, at time.Time) (*domain.Resource, error)
	// Delete reports whether a document was removed.
	Delete(ctx context.Context, id string) (bool, error)
	IncrementDownloadCount(ctx context.Context, id string) error
	CountByUploader(ctx context.Context, userID string) (int64, error)
	ListByUploader(ctx context.Context, userID string, limit int) ([]*domain.Resource, error)
	// ListByIDs returns the resources whose id is in ids. Missing ids are
	// skipped; result order is not tied to ids.
	ListByIDs(ctx context.Context, ids []string, limit int) ([]*domain.Resource, error)
	TopByDownloadCount(ctx context.Context, limit int) ([]*domain.Resource, error)
}

// DownloadEventRepository persists the download audit trail.
type DownloadEventRepository interface {
	InsertDownload(ctx context.Context, event *domain.DownloadEvent) error
}
