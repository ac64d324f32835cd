package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sxc/scholarhub/internal/core/domain"
	"github.com/sxc/scholarhub/internal/core/ports"
	"github.com/sxc/scholarhub/internal/pkg/metrics"
)

const (
	// ListLimit caps the unfiltered resource list.
	ListLimit = 1000
	// SearchLimit caps search results.
	SearchLimit = 100
)

type ResourceService struct {
	resources ports.ResourceRepository
	users     ports.UserRepository
	audit     ports.DownloadRecorder
	logger    zerolog.Logger
	now       func() time.Time
}

// NewResourceService builds a ResourceService. audit may be nil.
func NewResourceService(resources ports.ResourceRepository, users ports.UserRepository, audit ports.DownloadRecorder, logger zerolog.Logger) *ResourceService {
	return &ResourceService{
		resources: resources,
		users:     users,
		audit:     audit,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *ResourceService) List(ctx context.Context) ([]*domain.Resource, error) {
	return s.resources.ListRecent(ctx, ListLimit)
}

// Search returns resources matching every non-empty criterion. An empty
// filter yields the recent list capped at SearchLimit.
func (s *ResourceService) Search(ctx context.Context, filter ports.ResourceFilter) ([]*domain.Resource, error) {
	if filter.IsEmpty() {
		return s.resources.ListRecent(ctx, SearchLimit)
	}
	return s.resources.Search(ctx, filter, SearchLimit)
}

func (s *ResourceService) Get(ctx context.Context, id string) (*domain.Resource, error) {
	return s.resources.GetByID(ctx, id)
}

// Create validates in and stores a new resource uploaded by actor. It
// returns the new resource id.
func (s *ResourceService) Create(ctx context.Context, actor *domain.User, in ports.CreateResourceInput) (string, error) {
	if missing := missingFields(in); len(missing) > 0 {
		return "", &domain.ValidationError{Message: "Required fields are missing", Details: strings.Join(missing, ", ")}
	}

	hasFile, hasLink := in.FileContent != "", in.GDriveLink != ""
	switch {
	case hasFile && hasLink:
		return "", domain.NewValidationError("Provide either a file or a Google Drive link, not both")
	case !hasFile && !hasLink:
		return "", domain.NewValidationError("Either a file or a Google Drive link is required")
	case hasLink && !domain.IsDriveLink(in.GDriveLink):
		return "", &domain.ValidationError{Message: "Invalid Google Drive link", Details: "link must start with " + domain.DriveLinkPrefix}
	}

	now := s.now()
	r := &domain.Resource{
		ID:             uuid.NewString(),
		Title:          in.Title,
		Description:    in.Description,
		Subject:        in.Subject,
		Department:     in.Department,
		Year:           in.Year,
		Semester:       in.Semester,
		Type:           in.Type,
		UploadedBy:     actor.ID,
		UploadedByName: actor.Name,
		UploadedAt:     now,
		CreatedAt:      now,
	}

	kind := "link"
	if hasFile {
		file, err := decodeFileContent(in.FileContent, in.FileType)
		if err != nil {
			return "", err
		}
		r.FileContent = file.Data
		r.FileSize = int64(len(file.Data))
		r.FileType = file.MIME
		r.FileName = in.FileName
		if r.FileName == "" {
			r.FileName = defaultFileName(in.Title, file.Extension)
		}
		r.HasFile = true
		kind = "file"
	} else {
		r.GDriveLink = in.GDriveLink
	}

	if err := s.resources.Create(ctx, r); err != nil {
		return "", fmt.Errorf("create resource: %w", err)
	}
	metrics.UploadsTotal.WithLabelValues(kind).Inc()
	s.logger.Info().Str("resource_id", r.ID).Str("uploaded_by", actor.ID).Str("kind", kind).Msg("resource created")
	return r.ID, nil
}

func missingFields(in ports.CreateResourceInput) []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"title", in.Title},
		{"department", in.Department},
		{"year", in.Year},
		{"type", in.Type},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Update applies the editable fields of patch. It does not clear an existing
// file when a link is added.
func (s *ResourceService) Update(ctx context.Context, id string, patch domain.ResourcePatch) (*domain.Resource, error) {
	if patch.GDriveLink != nil && *patch.GDriveLink != "" && !domain.IsDriveLink(*patch.GDriveLink) {
		return nil, &domain.ValidationError{Message: "Invalid Google Drive link", Details: "link must start with " + domain.DriveLinkPrefix}
	}
	updated, err := s.resources.Update(ctx, id, patch, s.now())
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("resource_id", id).Msg("resource updated")
	return updated, nil
}

func (s *ResourceService) Delete(ctx context.Context, id string) error {
	deleted, err := s.resources.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrResourceNotFound
	}
	s.logger.Info().Str("resource_id", id).Msg("resource deleted")
	return nil
}

// Download loads the resource with its file and records the download. The
// counter bump and audit event are best effort.
func (s *ResourceService) Download(ctx context.Context, actor *domain.User, id string) (*domain.Resource, error) {
	r, err := s.resources.GetWithContent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.HasFile || len(r.FileContent) == 0 {
		return nil, domain.ErrNoFileContent
	}

	if err := s.resources.IncrementDownloadCount(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("resource_id", id).Msg("failed to increment download count")
	}
	if err := s.users.RecordDownload(ctx, actor.ID, id); err != nil {
		s.logger.Warn().Err(err).Str("user_id", actor.ID).Str("resource_id", id).Msg("failed to record download")
	}
	if s.audit != nil {
		s.audit.Enqueue(domain.DownloadEvent{ResourceID: id, UserID: actor.ID, DownloadedAt: s.now()})
	}
	metrics.DownloadsTotal.Inc()
	return r, nil
}

// ToggleBookmark flips the bookmark of an existing resource for actor.
func (s *ResourceService) ToggleBookmark(ctx context.Context, actor *domain.User, id string) (bool, error) {
	if _, err := s.resources.GetByID(ctx, id); err != nil {
		return false, err
	}
	bookmarked, err := s.users.ToggleBookmark(ctx, actor.ID, id)
	if err != nil {
		return false, err
	}
	action := "removed"
	if bookmarked {
		action = "added"
	}
	metrics.BookmarkTogglesTotal.WithLabelValues(action).Inc()
	return bookmarked, nil
}
