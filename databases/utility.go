package databases

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PageOptions returns find options for the given 1-based page, sorted by
// sortField. A negative direction sorts descending.
func PageOptions(limit, page int, sortField string, direction int) *options.FindOptions {
	if limit <= 0 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	return options.Find().
		SetLimit(int64(limit)).
		SetSkip(int64((page - 1) * limit)).
		SetSort(bson.D{{Key: sortField, Value: direction}})
}
