package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/sxc/scholarhub/internal/core/domain"
	"github.com/sxc/scholarhub/internal/core/ports"
)

const collectionDownloadEvents = "download_events"

// DownloadEventRepository implements ports.DownloadEventRepository using MongoDB.
type DownloadEventRepository struct {
	store Provider
}

// NewDownloadEventRepository creates a new DownloadEventRepository.
func NewDownloadEventRepository(store Provider) ports.DownloadEventRepository {
	return &DownloadEventRepository{store: store}
}

// InsertDownload persists a download to the download_events audit collection.
func (r *DownloadEventRepository) InsertDownload(ctx context.Context, event *domain.DownloadEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	db, err := r.store.Acquire(ctx)
	if err != nil {
		return err
	}
	doc := bson.M{
		"resourceId":   event.ResourceID,
		"userId":       event.UserID,
		"downloadedAt": event.DownloadedAt.UTC(),
		"processedAt":  time.Now().UTC(),
	}
	if _, err := db.Collection(collectionDownloadEvents).InsertOne(ctx, doc); err != nil {
		r.store.ReportError(err)
		return fmt.Errorf("insert download event: %w", err)
	}
	return nil
}
