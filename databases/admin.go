package databases

// go generate: mockery --name AdminDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BaselBoulos/la-maison-privee/models"
)

const adminCollectionName = "admins"

// AdminDatabase defines the interface for admin user operations
type AdminDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Admin, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Admin, error)
	InsertOne(ctx context.Context, admin models.Admin) (primitive.ObjectID, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) error
}

type adminDatabase struct {
	db DatabaseHelper
}

// NewAdminDatabase creates a new admin database wrapper
func NewAdminDatabase(db DatabaseHelper) AdminDatabase {
	return &adminDatabase{db: db}
}

func (a *adminDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Admin, error) {
	admin := &models.Admin{}
	err := a.db.Collection(adminCollectionName).FindOne(ctx, filter, opts...).Decode(admin)
	if err != nil {
		return nil, translate(err, "admin")
	}
	return admin, nil
}

func (a *adminDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Admin, error) {
	admins := []models.Admin{}
	cur, err := a.db.Collection(adminCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, translate(err, "admins")
	}
	if err = cur.Decode(&admins); err != nil {
		return nil, translate(err, "admins")
	}
	return admins, nil
}

func (a *adminDatabase) InsertOne(ctx context.Context, admin models.Admin) (primitive.ObjectID, error) {
	res, err := a.db.Collection(adminCollectionName).InsertOne(ctx, admin)
	return insertedID(res, err, "admin")
}

func (a *adminDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) error {
	res, err := a.db.Collection(adminCollectionName).UpdateOne(ctx, filter, update)
	return updated(res, err, "admin")
}
