package ports

import (
	"context"

	"github.com/sxc/scholarhub/internal/core/domain"
)

// CreateResourceInput is the DTO passed from the transport layer to
// ResourceService.Create.
type CreateResourceInput struct {
	Title       string
	Description string
	Subject     string
	Department  string
	Year        string
	Semester    string
	Type        string
	// FileContent is a data URL ("data:<mime>;base64,<payload>") or bare base64.
	FileContent string
	FileName    string
	FileType    string
	GDriveLink  string
}

// ResourceService defines use-case operations for resources.
type ResourceService interface {
	List(ctx context.Context) ([]*domain.Resource, error)
	Search(ctx context.Context, filter ResourceFilter) ([]*domain.Resource, error)
	Get(ctx context.Context, id string) (*domain.Resource, error)
	Create(ctx context.Context, actor *domain.User, in CreateResourceInput) (string, error)
	Update(ctx context.Context, id string, patch domain.ResourcePatch) (*domain.Resource, error)
	Delete(ctx context.Context, id string) error
	// Download returns the resource with its content and records the
	// download against both the resource and the actor.
	Download(ctx context.Context, actor *domain.User, id string) (*domain.Resource, error)
	ToggleBookmark(ctx context.Context, actor *domain.User, id string) (bool, error)
}

// UserService exposes read access to users.
type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

// DownloadRecorder accepts download audit events for asynchronous handling.
type DownloadRecorder interface {
	Enqueue(event domain.DownloadEvent)
}

// DownloadAuditor persists a single download audit event.
type DownloadAuditor interface {
	Process(ctx context.Context, event domain.DownloadEvent) error
}
