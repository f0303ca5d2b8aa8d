package databases

// go generate: mockery --name MemberDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BaselBoulos/la-maison-privee/models"
)

const memberName = "members"

// MemberDatabase contains the methods to use with the member database
type MemberDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Member, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Member, error)
	InsertOne(ctx context.Context, member models.Member) (primitive.ObjectID, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) error
	UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error)
	DeleteOne(ctx context.Context, filter interface{}) error
	DeleteMany(ctx context.Context, filter interface{}) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type memberDatabase struct {
	db DatabaseHelper
}

// NewMemberDatabase initializes a new instance of member database with the provided db connection
func NewMemberDatabase(db DatabaseHelper) MemberDatabase {
	return &memberDatabase{
		db: db,
	}
}

func (m *memberDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Member, error) {
	member := &models.Member{}
	err := m.db.Collection(memberName).FindOne(ctx, filter, opts...).Decode(member)
	if err != nil {
		return nil, translate(err, "member")
	}
	return member, nil
}

func (m *memberDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Member, error) {
	members := []models.Member{}
	cur, err := m.db.Collection(memberName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, translate(err, "members")
	}
	if err = cur.Decode(&members); err != nil {
		return nil, translate(err, "members")
	}
	return members, nil
}

func (m *memberDatabase) InsertOne(ctx context.Context, member models.Member) (primitive.ObjectID, error) {
	res, err := m.db.Collection(memberName).InsertOne(ctx, member)
	return insertedID(res, err, "member")
}

func (m *memberDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) error {
	res, err := m.db.Collection(memberName).UpdateOne(ctx, filter, update)
	return updated(res, err, "member")
}

func (m *memberDatabase) UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	res, err := m.db.Collection(memberName).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, translate(err, "members")
	}
	return res.ModifiedCount, nil
}

func (m *memberDatabase) DeleteOne(ctx context.Context, filter interface{}) error {
	res, err := m.db.Collection(memberName).DeleteOne(ctx, filter)
	return deleted(res, err, "member")
}

func (m *memberDatabase) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	res, err := m.db.Collection(memberName).DeleteMany(ctx, filter)
	if err != nil {
		return 0, translate(err, "members")
	}
	return res.DeletedCount, nil
}

func (m *memberDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	count, err := m.db.Collection(memberName).CountDocuments(ctx, filter)
	if err != nil {
		return 0, translate(err, "members")
	}
	return count, nil
}
