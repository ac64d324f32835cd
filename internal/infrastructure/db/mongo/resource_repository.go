package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sxc/scholarhub/internal/core/domain"
	"github.com/sxc/scholarhub/internal/core/ports"
)

const collectionResources = "resources"

// metadataProjection strips the Mongo id and the file payload.
var metadataProjection = bson.M{"_id": 0, "fileContent": 0}

// ResourceRepository implements ports.ResourceRepository using MongoDB.
type ResourceRepository struct {
	store Provider
}

func NewResourceRepository(store Provider) *ResourceRepository {
	return &ResourceRepository{store: store}
}

var _ ports.ResourceRepository = (*ResourceRepository)(nil)

func (r *ResourceRepository) col(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(collectionResources), nil
}

func (r *ResourceRepository) fail(op string, err error) error {
	r.store.ReportError(err)
	return fmt.Errorf("%s: %w", op, err)
}

func (r *ResourceRepository) find(ctx context.Context, op string, filter interface{}, opts *options.FindOptions) ([]*domain.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := r.col(ctx)
	if err != nil {
		return nil, err
	}
	cur, err := col.Find(ctx, filter, opts.SetProjection(metadataProjection))
	if err != nil {
		return nil, r.fail(op, err)
	}
	out := make([]*domain.Resource, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, r.fail(op, err)
	}
	return out, nil
}

func newestFirst(limit int) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "uploadedAt", Value: -1}}).
		SetLimit(int64(limit))
}

// ListRecent returns resources ordered by uploadedAt descending.
func (r *ResourceRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Resource, error) {
	return r.find(ctx, "list resources", bson.M{}, newestFirst(limit))
}

// Search returns resources matching every non-empty field of f.
func (r *ResourceRepository) Search(ctx context.Context, f ports.ResourceFilter, limit int) ([]*domain.Resource, error) {
	return r.find(ctx, "search resources", searchFilter(f), newestFirst(limit))
}

func (r *ResourceRepository) findOne(ctx context.Context, id string, withContent bool) (*domain.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := r.col(ctx)
	if err != nil {
		return nil, err
	}
	opts := options.FindOne().SetProjection(bson.M{"_id": 0})
	if !withContent {
		opts.SetProjection(metadataProjection)
	}
	var res domain.Resource
	if err := col.FindOne(ctx, bson.M{"id": id}, opts).Decode(&res); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrResourceNotFound
		}
		return nil, r.fail("find resource", err)
	}
	return &res, nil
}

func (r *ResourceRepository) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	return r.findOne(ctx, id, false)
}

// GetWithContent includes the file payload. Only the download path uses it.
func (r *ResourceRepository) GetWithContent(ctx context.Context, id string) (*domain.Resource, error) {
	return r.findOne(ctx, id, true)
}

func (r *ResourceRepository) Create(ctx context.Context, res *domain.Resource) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := r.col(ctx)
	if err != nil {
		return err
	}
	if _, err := col.InsertOne(ctx, res); err != nil {
		return r.fail("insert resource", err)
	}
	return nil
}

// Update applies patch with $set and returns the document after the update.
func (r *ResourceRepository) Update(ctx context.Context, id string, patch domain.ResourcePatch, at time.Time) (*domain.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := r.col(ctx)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(metadataProjection)

	var res domain.Resource
	err = col.FindOneAndUpdate(ctx, bson.M{"id": id}, patchUpdate(patch, at.UTC()), opts).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrResourceNotFound
		}
		return nil, r.fail("update resource", err)
	}
	return &res, nil
}

func (r *ResourceRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := r.col(ctx)
	if err != nil {
		return false, err
	}
	res, err := col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return false, r.fail("delete resource", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *ResourceRepository) IncrementDownloadCount(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := r.col(ctx)
	if err != nil {
		return err
	}
	if _, err := col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$inc": bson.M{"downloadCount": 1}}); err != nil {
		return r.fail("increment download count", err)
	}
	return nil
}

func (r *ResourceRepository) CountByUploader(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := r.col(ctx)
	if err != nil {
		return 0, err
	}
	n, err := col.CountDocuments(ctx, bson.M{"uploadedBy": userID})
	if err != nil {
		return 0, r.fail("count resources", err)
	}
	return n, nil
}

func (r *ResourceRepository) ListByUploader(ctx context.Context, userID string, limit int) ([]*domain.Resource, error) {
	return r.find(ctx, "list uploads", bson.M{"uploadedBy": userID}, newestFirst(limit))
}

func (r *ResourceRepository) ListByIDs(ctx context.Context, ids []string, limit int) ([]*domain.Resource, error) {
	if len(ids) == 0 {
		return []*domain.Resource{}, nil
	}
	return r.find(ctx, "list resources by id", bson.M{"id": bson.M{"$in": ids}}, options.Find().SetLimit(int64(limit)))
}

func (r *ResourceRepository) TopByDownloadCount(ctx context.Context, limit int) ([]*domain.Resource, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "downloadCount", Value: -1}, {Key: "uploadedAt", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, "list trending", bson.M{}, opts)
}
