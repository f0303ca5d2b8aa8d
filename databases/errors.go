package databases

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/BaselBoulos/la-maison-privee/apperrors"
)

// ErrVersionConflict is returned by versioned writes when the document changed
// since it was read
var ErrVersionConflict = errors.New("document was modified concurrently")

// translate maps driver errors to application error kinds
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperrors.NotFound("%s not found", what)
	case mongo.IsDuplicateKeyError(err):
		return apperrors.Wrap(apperrors.KindConflict, err, what+" already exists")
	}
	return apperrors.Wrap(apperrors.KindInternal, err, "failed to access "+what)
}

func updated(res *mongo.UpdateResult, err error, what string) error {
	if err != nil {
		return translate(err, what)
	}
	if res != nil && res.MatchedCount == 0 {
		return apperrors.NotFound("%s not found", what)
	}
	return nil
}

func deleted(res *mongo.DeleteResult, err error, what string) error {
	if err != nil {
		return translate(err, what)
	}
	if res != nil && res.DeletedCount == 0 {
		return apperrors.NotFound("%s not found", what)
	}
	return nil
}

func insertedID(res InsertOneResultHelper, err error, what string) (primitive.ObjectID, error) {
	if err != nil {
		return primitive.NilObjectID, translate(err, what)
	}
	id, _ := res.Decode().(primitive.ObjectID)
	return id, nil
}
