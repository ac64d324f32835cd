package ports

import (
	"context"

	"github.com/sxc/scholarhub/internal/core/domain"
)

// StudentDashboard aggregates a user's activity with the trending list.
type StudentDashboard struct {
	TotalDownloads      int
	RecentResources     []*domain.Resource
	BookmarkedResources []*domain.Resource
	TrendingResources   []*domain.Resource
}

// AdminDashboard summarises an admin's own uploads.
type AdminDashboard struct {
	TotalUploads    int64
	RecentUploads   []*domain.Resource
	PendingRequests []string
}

type DashboardService interface {
	Student(ctx context.Context, user *domain.User) (*StudentDashboard, error)
	Admin(ctx context.Context, user *domain.User) (*AdminDashboard, error)
}
