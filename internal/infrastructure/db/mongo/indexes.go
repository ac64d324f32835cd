package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const indexTimeout = 30 * time.Second

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

// indexPlan lists every index the repositories rely on. The unique email
// index is the only guard against duplicate registrations.
func indexPlan() []collectionIndexes {
	return []collectionIndexes{
		{collectionUsers, []mongo.IndexModel{
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{collectionResources, []mongo.IndexModel{
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "uploadedAt", Value: -1}}},
			{Keys: bson.D{{Key: "downloadCount", Value: -1}}},
			{Keys: bson.D{{Key: "uploadedBy", Value: 1}, {Key: "uploadedAt", Value: -1}}},
			{Keys: bson.D{{Key: "department", Value: 1}, {Key: "year", Value: 1}, {Key: "type", Value: 1}}},
		}},
		{collectionDownloadEvents, []mongo.IndexModel{
			{Keys: bson.D{{Key: "resourceId", Value: 1}, {Key: "downloadedAt", Value: -1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		}},
	}
}

// EnsureIndexes creates the indexes of every collection on db. Creating an
// existing index is a no-op, so it runs as the Gateway's OnConnect hook.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	for _, plan := range indexPlan() {
		if _, err := db.Collection(plan.collection).Indexes().CreateMany(ctx, plan.models); err != nil {
			return fmt.Errorf("create %s indexes: %w", plan.collection, err)
		}
	}
	return nil
}
