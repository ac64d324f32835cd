package service

import (
	"context"
	"fmt"

	"github.com/sxc/scholarhub/internal/core/domain"
	"github.com/sxc/scholarhub/internal/core/ports"
)

const (
	dashboardRecentLimit   = domain.MaxRecentViews
	dashboardBookmarkLimit = 10
	dashboardTrendingLimit = 6
	dashboardUploadLimit   = 5
)

type DashboardService struct {
	resources ports.ResourceRepository
}

func NewDashboardService(resources ports.ResourceRepository) *DashboardService {
	return &DashboardService{resources: resources}
}

// Student hydrates the user's recent views and bookmarks in stored order and
// adds the trending list. Ids of deleted resources are skipped.
func (s *DashboardService) Student(ctx context.Context, user *domain.User) (*ports.StudentDashboard, error) {
	recent, err := s.hydrate(ctx, user.RecentViews, dashboardRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("student dashboard: recent: %w", err)
	}
	bookmarked, err := s.hydrate(ctx, user.Bookmarks, dashboardBookmarkLimit)
	if err != nil {
		return nil, fmt.Errorf("student dashboard: bookmarks: %w", err)
	}
	trending, err := s.resources.TopByDownloadCount(ctx, dashboardTrendingLimit)
	if err != nil {
		return nil, fmt.Errorf("student dashboard: trending: %w", err)
	}
	return &ports.StudentDashboard{
		TotalDownloads:      user.Downloads,
		RecentResources:     recent,
		BookmarkedResources: bookmarked,
		TrendingResources:   trending,
	}, nil
}

func (s *DashboardService) Admin(ctx context.Context, user *domain.User) (*ports.AdminDashboard, error) {
	total, err := s.resources.CountByUploader(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("admin dashboard: count: %w", err)
	}
	recent, err := s.resources.ListByUploader(ctx, user.ID, dashboardUploadLimit)
	if err != nil {
		return nil, fmt.Errorf("admin dashboard: uploads: %w", err)
	}
	return &ports.AdminDashboard{
		TotalUploads:    total,
		RecentUploads:   recent,
		PendingRequests: []string{},
	}, nil
}

func (s *DashboardService) hydrate(ctx context.Context, ids []string, limit int) ([]*domain.Resource, error) {
	if len(ids) > limit {
		ids = ids[:limit]
	}
	if len(ids) == 0 {
		return []*domain.Resource{}, nil
	}
	found, err := s.resources.ListByIDs(ctx, ids, limit)
	if err != nil {
		return nil, err
	}
	return orderByIDs(found, ids), nil
}

// orderByIDs returns resources arranged in the order of ids, skipping ids
// with no matching resource.
func orderByIDs(resources []*domain.Resource, ids []string) []*domain.Resource {
	byID := make(map[string]*domain.Resource, len(resources))
	for _, r := range resources {
		byID[r.ID] = r
	}
	out := make([]*domain.Resource, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
			delete(byID, id)
		}
	}
	return out
}
