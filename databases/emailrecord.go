package databases

// go generate: mockery --name EmailRecordDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BaselBoulos/la-maison-privee/models"
)

const emailRecordName = "emailRecords"

// EmailRecordDatabase contains the methods to use with the email history database
type EmailRecordDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.EmailRecord, error)
	InsertOne(ctx context.Context, record models.EmailRecord) (primitive.ObjectID, error)
}

type emailRecordDatabase struct {
	db DatabaseHelper
}

// NewEmailRecordDatabase initializes a new instance of email record database with the provided db connection
func NewEmailRecordDatabase(db DatabaseHelper) EmailRecordDatabase {
	return &emailRecordDatabase{
		db: db,
	}
}

func (e *emailRecordDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.EmailRecord, error) {
	records := []models.EmailRecord{}
	cur, err := e.db.Collection(emailRecordName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, translate(err, "email records")
	}
	if err = cur.Decode(&records); err != nil {
		return nil, translate(err, "email records")
	}
	return records, nil
}

func (e *emailRecordDatabase) InsertOne(ctx context.Context, record models.EmailRecord) (primitive.ObjectID, error) {
	res, err := e.db.Collection(emailRecordName).InsertOne(ctx, record)
	return insertedID(res, err, "email record")
}
