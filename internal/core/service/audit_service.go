package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sxc/scholarhub/internal/core/domain"
	"github.com/sxc/scholarhub/internal/core/ports"
)

type auditService struct {
	repo ports.DownloadEventRepository
	log  zerolog.Logger
}

// NewAuditService returns a DownloadAuditor backed by repo.
func NewAuditService(repo ports.DownloadEventRepository, log zerolog.Logger) ports.DownloadAuditor {
	return &auditService{repo: repo, log: log}
}

// Process validates and persists one download event.
func (s *auditService) Process(ctx context.Context, event domain.DownloadEvent) error {
	if event.ResourceID == "" || event.UserID == "" {
		return fmt.Errorf("process download event: %w", domain.NewValidationError("resource and user are required"))
	}
	if err := s.repo.InsertDownload(ctx, &event); err != nil {
		return fmt.Errorf("process download event: %w", err)
	}
	s.log.Debug().
		Str("resource_id", event.ResourceID).
		Str("user_id", event.UserID).
		Msg("download audited")
	return nil
}
