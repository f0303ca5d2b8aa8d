package databases

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var indexes = map[string][]mongo.IndexModel{
	invitationCodeName: {
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "clubId", Value: 1}, {Key: "status", Value: 1}}},
	},
	memberName: {
		{Keys: bson.D{{Key: "clubId", Value: 1}, {Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	clubName: {
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	adminCollectionName: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	eventName: {
		{Keys: bson.D{{Key: "clubId", Value: 1}, {Key: "date", Value: 1}}},
	},
	emailRecordName: {
		{Keys: bson.D{{Key: "clubId", Value: 1}, {Key: "sentAt", Value: -1}}},
	},
}

// EnsureIndexes creates the unique and lookup indexes every collection relies on
func EnsureIndexes(ctx context.Context, db DatabaseHelper) error {
	for name, models := range indexes {
		if err := db.Collection(name).CreateIndexes(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}
