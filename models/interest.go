package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Interest holds the structure for the interests collection in mongo. An
// interest without a ClubID is global and visible to every club.
type Interest struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty" yaml:"-"`
	Name      string             `json:"name" bson:"name" yaml:"name"`
	Icon      string             `json:"icon,omitempty" bson:"icon,omitempty" yaml:"icon,omitempty"`
	Enabled   bool               `json:"enabled" bson:"enabled" yaml:"enabled"`
	ClubID    *int               `json:"clubId,omitempty" bson:"clubId,omitempty" yaml:"clubId,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt" yaml:"-"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt" yaml:"-"`
}
