package databases

// go generate: mockery --name InterestDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BaselBoulos/la-maison-privee/models"
)

const interestName = "interests"

// InterestDatabase contains the methods to use with the interest database
type InterestDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Interest, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Interest, error)
	InsertOne(ctx context.Context, interest models.Interest) (primitive.ObjectID, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) error
	DeleteOne(ctx context.Context, filter interface{}) error
}

type interestDatabase struct {
	db DatabaseHelper
}

// NewInterestDatabase initializes a new instance of interest database with the provided db connection
func NewInterestDatabase(db DatabaseHelper) InterestDatabase {
	return &interestDatabase{
		db: db,
	}
}

func (i *interestDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Interest, error) {
	interest := &models.Interest{}
	err := i.db.Collection(interestName).FindOne(ctx, filter, opts...).Decode(interest)
	if err != nil {
		return nil, translate(err, "interest")
	}
	return interest, nil
}

func (i *interestDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Interest, error) {
	interests := []models.Interest{}
	cur, err := i.db.Collection(interestName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, translate(err, "interests")
	}
	if err = cur.Decode(&interests); err != nil {
		return nil, translate(err, "interests")
	}
	return interests, nil
}

func (i *interestDatabase) InsertOne(ctx context.Context, interest models.Interest) (primitive.ObjectID, error) {
	res, err := i.db.Collection(interestName).InsertOne(ctx, interest)
	return insertedID(res, err, "interest")
}

func (i *interestDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) error {
	res, err := i.db.Collection(interestName).UpdateOne(ctx, filter, update)
	return updated(res, err, "interest")
}

func (i *interestDatabase) DeleteOne(ctx context.Context, filter interface{}) error {
	res, err := i.db.Collection(interestName).DeleteOne(ctx, filter)
	return deleted(res, err, "interest")
}
