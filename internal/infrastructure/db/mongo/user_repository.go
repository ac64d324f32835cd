package mongo

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sxc/scholarhub/internal/core/domain"
	"github.com/sxc/scholarhub/internal/core/ports"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	store Provider
}

func NewUserRepository(store Provider) *UserRepository {
	return &UserRepository{store: store}
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) col(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(collectionUsers), nil
}

func (r *UserRepository) fail(op string, err error) error {
	r.store.ReportError(err)
	return fmt.Errorf("%s: %w", op, err)
}

// Create inserts user. The unique email index is the only duplicate check.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := r.col(ctx)
	if err != nil {
		return err
	}
	if _, err := col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return r.fail("insert user", err)
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := r.col(ctx)
	if err != nil {
		return nil, err
	}
	var u domain.User
	if err := col.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 0})).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, r.fail("find user", err)
	}
	normalize(&u)
	return &u, nil
}

// normalize replaces missing activity lists with empty ones.
func normalize(u *domain.User) {
	if u.RecentViews == nil {
		u.RecentViews = []string{}
	}
	if u.Bookmarks == nil {
		u.Bookmarks = []string{}
	}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

// ListAll returns users oldest first without password hashes.
func (r *UserRepository) ListAll(ctx context.Context, limit int) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := r.col(ctx)
	if err != nil {
		return nil, err
	}
	opts := options.Find().
		SetProjection(bson.M{"_id": 0, "password": 0}).
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(int64(limit))
	cur, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, r.fail("list users", err)
	}
	out := make([]*domain.User, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, r.fail("list users", err)
	}
	for _, u := range out {
		normalize(u)
	}
	return out, nil
}

func (r *UserRepository) RecordDownload(ctx context.Context, userID, resourceID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := r.col(ctx)
	if err != nil {
		return err
	}
	res, err := col.UpdateOne(ctx, bson.M{"id": userID}, recordDownloadUpdate(resourceID))
	if err != nil {
		return r.fail("record download", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ToggleBookmark(ctx context.Context, userID, resourceID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := r.col(ctx)
	if err != nil {
		return false, err
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"_id": 0, "bookmarks": 1})

	var after struct {
		Bookmarks []string `bson:"bookmarks"`
	}
	err = col.FindOneAndUpdate(ctx, bson.M{"id": userID}, toggleBookmarkUpdate(resourceID), opts).Decode(&after)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, domain.ErrUserNotFound
		}
		return false, r.fail("toggle bookmark", err)
	}
	return slices.Contains(after.Bookmarks, resourceID), nil
}

func (r *UserRepository) SetRole(ctx context.Context, email, role string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := r.col(ctx)
	if err != nil {
		return err
	}
	res, err := col.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return r.fail("set role", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
