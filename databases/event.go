package databases

// go generate: mockery --name EventDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BaselBoulos/la-maison-privee/models"
)

const eventName = "events"

// EventDatabase contains the methods to use with the event database
type EventDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Event, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Event, error)
	InsertOne(ctx context.Context, event models.Event) (primitive.ObjectID, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) error
	UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error)
	ReplaceVersioned(ctx context.Context, event *models.Event) error
	DeleteOne(ctx context.Context, filter interface{}) error
}

type eventDatabase struct {
	db DatabaseHelper
}

// NewEventDatabase initializes a new instance of event database with the provided db connection
func NewEventDatabase(db DatabaseHelper) EventDatabase {
	return &eventDatabase{
		db: db,
	}
}

func (e *eventDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Event, error) {
	event := &models.Event{}
	err := e.db.Collection(eventName).FindOne(ctx, filter, opts...).Decode(event)
	if err != nil {
		return nil, translate(err, "event")
	}
	return event, nil
}

func (e *eventDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Event, error) {
	events := []models.Event{}
	cur, err := e.db.Collection(eventName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, translate(err, "events")
	}
	if err = cur.Decode(&events); err != nil {
		return nil, translate(err, "events")
	}
	return events, nil
}

func (e *eventDatabase) InsertOne(ctx context.Context, event models.Event) (primitive.ObjectID, error) {
	res, err := e.db.Collection(eventName).InsertOne(ctx, event)
	return insertedID(res, err, "event")
}

func (e *eventDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) error {
	res, err := e.db.Collection(eventName).UpdateOne(ctx, filter, update)
	return updated(res, err, "event")
}

func (e *eventDatabase) UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	res, err := e.db.Collection(eventName).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, translate(err, "events")
	}
	return res.ModifiedCount, nil
}

// ReplaceVersioned writes event back only if nobody else wrote it since it was
// read. On success the event carries its new version; ErrVersionConflict means
// the caller must reload and retry.
func (e *eventDatabase) ReplaceVersioned(ctx context.Context, event *models.Event) error {
	filter := bson.M{"_id": event.ID, "clubId": event.ClubID, "__v": event.Version}

	next := *event
	next.Version++
	next.UpdatedAt = time.Now().UTC()

	res, err := e.db.Collection(eventName).ReplaceOne(ctx, filter, next)
	if err != nil {
		return translate(err, "event")
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	*event = next
	return nil
}

func (e *eventDatabase) DeleteOne(ctx context.Context, filter interface{}) error {
	res, err := e.db.Collection(eventName).DeleteOne(ctx, filter)
	return deleted(res, err, "event")
}
