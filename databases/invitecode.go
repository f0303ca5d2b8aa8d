package databases

// go generate: mockery --name InvitationCodeDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BaselBoulos/la-maison-privee/models"
)

const invitationCodeName = "invitationCodes"

// InvitationCodeDatabase contains the methods to use with the invitation code database
type InvitationCodeDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.InvitationCode, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.InvitationCode, error)
	InsertOne(ctx context.Context, code models.InvitationCode) (primitive.ObjectID, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) error
	DeleteOne(ctx context.Context, filter interface{}) error
	DeleteMany(ctx context.Context, filter interface{}) (int64, error)
}

type invitationCodeDatabase struct {
	db DatabaseHelper
}

// NewInvitationCodeDatabase initializes a new instance of invitation code database with the provided db connection
func NewInvitationCodeDatabase(db DatabaseHelper) InvitationCodeDatabase {
	return &invitationCodeDatabase{
		db: db,
	}
}

func (c *invitationCodeDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.InvitationCode, error) {
	code := &models.InvitationCode{}
	err := c.db.Collection(invitationCodeName).FindOne(ctx, filter, opts...).Decode(code)
	if err != nil {
		return nil, translate(err, "invitation code")
	}
	return code, nil
}

func (c *invitationCodeDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.InvitationCode, error) {
	codes := []models.InvitationCode{}
	cur, err := c.db.Collection(invitationCodeName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, translate(err, "invitation codes")
	}
	if err = cur.Decode(&codes); err != nil {
		return nil, translate(err, "invitation codes")
	}
	return codes, nil
}

func (c *invitationCodeDatabase) InsertOne(ctx context.Context, code models.InvitationCode) (primitive.ObjectID, error) {
	res, err := c.db.Collection(invitationCodeName).InsertOne(ctx, code)
	return insertedID(res, err, "invitation code")
}

func (c *invitationCodeDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) error {
	res, err := c.db.Collection(invitationCodeName).UpdateOne(ctx, filter, update)
	return updated(res, err, "invitation code")
}

func (c *invitationCodeDatabase) DeleteOne(ctx context.Context, filter interface{}) error {
	res, err := c.db.Collection(invitationCodeName).DeleteOne(ctx, filter)
	return deleted(res, err, "invitation code")
}

func (c *invitationCodeDatabase) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	res, err := c.db.Collection(invitationCodeName).DeleteMany(ctx, filter)
	if err != nil {
		return 0, translate(err, "invitation codes")
	}
	return res.DeletedCount, nil
}
