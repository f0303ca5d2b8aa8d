package databases

// go generate: mockery --name ClubDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BaselBoulos/la-maison-privee/models"
)

const clubName = "clubs"

// ClubDatabase contains the methods to use with the club database
type ClubDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Club, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Club, error)
	InsertOne(ctx context.Context, club models.Club) error
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) error
	DeleteOne(ctx context.Context, filter interface{}) error
	NextID(ctx context.Context) (int, error)
}

type clubDatabase struct {
	db DatabaseHelper
}

// NewClubDatabase initializes a new instance of club database with the provided db connection
func NewClubDatabase(db DatabaseHelper) ClubDatabase {
	return &clubDatabase{
		db: db,
	}
}

func (c *clubDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Club, error) {
	club := &models.Club{}
	err := c.db.Collection(clubName).FindOne(ctx, filter, opts...).Decode(club)
	if err != nil {
		return nil, translate(err, "club")
	}
	return club, nil
}

func (c *clubDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Club, error) {
	clubs := []models.Club{}
	cur, err := c.db.Collection(clubName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, translate(err, "clubs")
	}
	if err = cur.Decode(&clubs); err != nil {
		return nil, translate(err, "clubs")
	}
	return clubs, nil
}

func (c *clubDatabase) InsertOne(ctx context.Context, club models.Club) error {
	_, err := c.db.Collection(clubName).InsertOne(ctx, club)
	return translate(err, "club")
}

func (c *clubDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) error {
	res, err := c.db.Collection(clubName).UpdateOne(ctx, filter, update)
	return updated(res, err, "club")
}

func (c *clubDatabase) DeleteOne(ctx context.Context, filter interface{}) error {
	res, err := c.db.Collection(clubName).DeleteOne(ctx, filter)
	return deleted(res, err, "club")
}

// NextID returns one more than the highest club id in use
func (c *clubDatabase) NextID(ctx context.Context) (int, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: -1}}).SetLimit(1)
	clubs, err := c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return 0, err
	}
	if len(clubs) == 0 {
		return 1, nil
	}
	return clubs[0].ID + 1, nil
}
