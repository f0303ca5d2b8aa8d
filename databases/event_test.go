package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/BaselBoulos/la-maison-privee/apperrors"
	"github.com/BaselBoulos/la-maison-privee/databases"
	mocksdb "github.com/BaselBoulos/la-maison-privee/databases/mocks"
	"github.com/BaselBoulos/la-maison-privee/models"
)

func eventDB(conn *mocksdb.CollectionHelper) databases.EventDatabase {
	db := &mocksdb.DatabaseHelper{}
	db.On("Collection", "events").Return(conn)
	return databases.NewEventDatabase(db)
}

func TestEventDatabase_ReplaceVersioned(t *testing.T) {
	conn := &mocksdb.CollectionHelper{}
	event := &models.Event{ID: primitive.NewObjectID(), ClubID: 2, Version: 4}

	conn.On("ReplaceOne", mock.Anything, bson.M{"_id": event.ID, "clubId": 2, "__v": int32(4)}, mock.MatchedBy(func(e models.Event) bool {
		return e.Version == 5
	})).Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	err := eventDB(conn).ReplaceVersioned(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, int32(5), event.Version)
	assert.False(t, event.UpdatedAt.IsZero())
}

func TestEventDatabase_ReplaceVersionedConflict(t *testing.T) {
	conn := &mocksdb.CollectionHelper{}
	event := &models.Event{ID: primitive.NewObjectID(), ClubID: 2, Version: 4}
	conn.On("ReplaceOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{}, nil)

	err := eventDB(conn).ReplaceVersioned(context.Background(), event)
	assert.ErrorIs(t, err, databases.ErrVersionConflict)
	assert.Equal(t, int32(4), event.Version)
}

func TestEventDatabase_FindOneNotFound(t *testing.T) {
	conn := &mocksdb.CollectionHelper{}
	sr := &mocksdb.SingleResultHelper{}
	sr.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	conn.On("FindOne", mock.Anything, mock.Anything).Return(sr)

	_, err := eventDB(conn).FindOne(context.Background(), bson.M{"_id": primitive.NewObjectID()})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestEventDatabase_UpdateOneMissing(t *testing.T) {
	conn := &mocksdb.CollectionHelper{}
	conn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{}, nil)

	err := eventDB(conn).UpdateOne(context.Background(), bson.M{}, bson.M{"$set": bson.M{"title": "x"}})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestEventDatabase_FindDecodesAll(t *testing.T) {
	conn := &mocksdb.CollectionHelper{}
	cur := &mocksdb.CursorHelper{}
	cur.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		out := args.Get(0).(*[]models.Event)
		*out = append(*out, models.Event{Title: "Wine Night"})
	})
	conn.On("Find", mock.Anything, mock.Anything).Return(cur, nil)

	events, err := eventDB(conn).Find(context.Background(), bson.M{"clubId": 1})
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, "Wine Night", events[0].Title)
}

func TestMemberDatabase_InsertOneDuplicate(t *testing.T) {
	conn := &mocksdb.CollectionHelper{}
	db := &mocksdb.DatabaseHelper{}
	db.On("Collection", "members").Return(conn)
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}
	conn.On("InsertOne", mock.Anything, mock.Anything).Return(nil, dup)

	_, err := databases.NewMemberDatabase(db).InsertOne(context.Background(), models.Member{Email: "a@b.c"})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestMemberDatabase_FindFailure(t *testing.T) {
	conn := &mocksdb.CollectionHelper{}
	db := &mocksdb.DatabaseHelper{}
	db.On("Collection", "members").Return(conn)
	conn.On("Find", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := databases.NewMemberDatabase(db).Find(context.Background(), bson.M{})
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
}

func TestEnsureIndexes(t *testing.T) {
	conn := &mocksdb.CollectionHelper{}
	db := &mocksdb.DatabaseHelper{}
	db.On("Collection", mock.Anything).Return(conn)
	conn.On("CreateIndexes", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, databases.EnsureIndexes(context.Background(), db))
	db.AssertCalled(t, "Collection", "invitationCodes")
	db.AssertCalled(t, "Collection", "members")
}
