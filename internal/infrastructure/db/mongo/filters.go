package mongo

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sxc/scholarhub/internal/core/domain"
	"github.com/sxc/scholarhub/internal/core/ports"
)

// searchFilter builds the query for a resource search. Text is matched as a
// case-insensitive literal substring.
func searchFilter(f ports.ResourceFilter) bson.M {
	filter := bson.M{}
	if f.Text != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Text), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": rx},
			bson.M{"description": rx},
			bson.M{"subject": rx},
		}
	}
	if f.Department != "" {
		filter["department"] = f.Department
	}
	if f.Year != "" {
		filter["year"] = f.Year
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	return filter
}

func literal(v string) bson.D {
	return bson.D{{Key: "$literal", Value: v}}
}

// arrayField resolves a possibly missing array field to an empty array.
func arrayField(name string) bson.D {
	return bson.D{{Key: "$ifNull", Value: bson.A{"$" + name, bson.A{}}}}
}

// without removes every occurrence of id from the named array field.
func without(name, id string) bson.D {
	return bson.D{{Key: "$filter", Value: bson.D{
		{Key: "input", Value: arrayField(name)},
		{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", literal(id)}}}},
	}}}
}

// recordDownloadUpdate increments downloads and moves resourceID to the
// front of recentViews, capped at domain.MaxRecentViews, in one update.
func recordDownloadUpdate(resourceID string) bson.A {
	return bson.A{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "downloads", Value: bson.D{{Key: "$add", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$downloads", 0}}}, 1,
			}}}},
			{Key: "recentViews", Value: bson.D{{Key: "$slice", Value: bson.A{
				bson.D{{Key: "$concatArrays", Value: bson.A{
					bson.A{literal(resourceID)},
					without("recentViews", resourceID),
				}}},
				domain.MaxRecentViews,
			}}}},
		}}},
	}
}

// toggleBookmarkUpdate removes resourceID from bookmarks when present and
// appends it otherwise.
func toggleBookmarkUpdate(resourceID string) bson.A {
	return bson.A{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "bookmarks", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$in", Value: bson.A{literal(resourceID), arrayField("bookmarks")}}},
				without("bookmarks", resourceID),
				bson.D{{Key: "$concatArrays", Value: bson.A{
					arrayField("bookmarks"),
					bson.A{literal(resourceID)},
				}}},
			}}}},
		}}},
	}
}

// patchUpdate converts an edit into a $set that also stamps updatedAt.
func patchUpdate(patch domain.ResourcePatch, at time.Time) bson.M {
	set := bson.M{"updatedAt": at}
	for k, v := range patch.Fields() {
		set[k] = v
	}
	return bson.M{"$set": set}
}
