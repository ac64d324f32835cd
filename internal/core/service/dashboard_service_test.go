package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sxc/scholarhub/internal/core/domain"
	"github.com/sxc/scholarhub/internal/testutil/memstore"
)

func seedResources(t *testing.T, store *memstore.Store, n int, uploader string) {
	t.Helper()
	base := time.Now().UTC()
	for i := 0; i < n; i++ {
		r := &domain.Resource{
			ID:            fmt.Sprintf("r%02d", i),
			Title:         fmt.Sprintf("Resource %d", i),
			UploadedBy:    uploader,
			UploadedAt:    base.Add(time.Duration(i) * time.Minute),
			DownloadCount: i,
		}
		if err := store.Resources.Create(context.Background(), r); err != nil {
			t.Fatalf("seed resource: %v", err)
		}
	}
}

func TestDashboardService_Student(t *testing.T) {
	store := memstore.New()
	seedResources(t, store, 12, "admin-1")
	svc := NewDashboardService(store.Resources)

	user := &domain.User{
		ID:          "u1",
		Downloads:   7,
		RecentViews: []string{"r05", "deleted", "r01", "r09"},
		Bookmarks:   []string{"r11", "r00", "r10", "r01", "r02", "r03", "r04", "r05", "r06", "r07", "r08"},
	}
	dash, err := svc.Student(context.Background(), user)
	if err != nil {
		t.Fatalf("Student returned error: %v", err)
	}
	if dash.TotalDownloads != 7 {
		t.Fatalf("expected 7 downloads, got %d", dash.TotalDownloads)
	}
	if got := fmt.Sprint(ids(dash.RecentResources)); got != "[r05 r01 r09]" {
		t.Fatalf("recent resources in stored order expected, got %s", got)
	}
	if len(dash.BookmarkedResources) != 10 || dash.BookmarkedResources[0].ID != "r11" {
		t.Fatalf("expected first 10 bookmarks in order, got %v", ids(dash.BookmarkedResources))
	}
	if got := fmt.Sprint(ids(dash.TrendingResources)); got != "[r11 r10 r09 r08 r07 r06]" {
		t.Fatalf("unexpected trending %s", got)
	}
}

func TestDashboardService_Student_Empty(t *testing.T) {
	svc := NewDashboardService(memstore.New().Resources)

	dash, err := svc.Student(context.Background(), &domain.User{ID: "u1"})
	if err != nil {
		t.Fatalf("Student returned error: %v", err)
	}
	if dash.RecentResources == nil || dash.BookmarkedResources == nil || len(dash.TrendingResources) != 0 {
		t.Fatalf("expected empty non-nil lists, got %+v", dash)
	}
}

func TestDashboardService_Admin(t *testing.T) {
	store := memstore.New()
	seedResources(t, store, 7, "admin-1")
	_ = store.Resources.Create(context.Background(), &domain.Resource{ID: "other", UploadedBy: "admin-2", UploadedAt: time.Now()})
	svc := NewDashboardService(store.Resources)

	dash, err := svc.Admin(context.Background(), &domain.User{ID: "admin-1", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Admin returned error: %v", err)
	}
	if dash.TotalUploads != 7 {
		t.Fatalf("expected 7 uploads, got %d", dash.TotalUploads)
	}
	if got := fmt.Sprint(ids(dash.RecentUploads)); got != "[r06 r05 r04 r03 r02]" {
		t.Fatalf("unexpected recent uploads %s", got)
	}
	if dash.PendingRequests == nil || len(dash.PendingRequests) != 0 {
		t.Fatalf("expected empty pending requests")
	}
}

func TestDashboardService_StoreError(t *testing.T) {
	store := memstore.New()
	store.Err = domain.ErrStoreUnavailable
	svc := NewDashboardService(store.Resources)

	if _, err := svc.Student(context.Background(), &domain.User{ID: "u1", RecentViews: []string{"r1"}}); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := svc.Admin(context.Background(), &domain.User{ID: "u1"}); err == nil {
		t.Fatalf("expected error")
	}
}
