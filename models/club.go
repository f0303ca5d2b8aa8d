package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SeedClubMaxID is the highest id among the seed clubs, which can never be deleted
const SeedClubMaxID = 3

// Club holds the structure for the clubs collection in mongo. Every other
// document carries the numeric ID as its clubId.
type Club struct {
	ObjectID  primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ID        int                `json:"id" bson:"id" yaml:"id"`
	Name      string             `json:"name" bson:"name" yaml:"name"`
	Slug      string             `json:"slug" bson:"slug" yaml:"slug"`
	Theme     ClubTheme          `json:"theme" bson:"theme" yaml:"theme"`
	Locale    string             `json:"locale" bson:"locale" yaml:"locale"`
	Currency  string             `json:"currency" bson:"currency" yaml:"currency"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt" yaml:"-"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt" yaml:"-"`
}

// ClubTheme holds the branding of a club
type ClubTheme struct {
	Primary string `json:"primary" bson:"primary" yaml:"primary"`
	Accent  string `json:"accent" bson:"accent" yaml:"accent"`
	Logo    string `json:"logo,omitempty" bson:"logo,omitempty" yaml:"logo,omitempty"`
}

// IsSeed reports whether the club is one of the undeletable seed tenants
func (c Club) IsSeed() bool {
	return c.ID <= SeedClubMaxID
}
