package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin represents a dashboard administrator. Role is "super" or "club"; a club
// admin is limited to ClubID and AllowedClubIDs.
type Admin struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email          string             `bson:"email" json:"email"`
	PasswordHash   string             `bson:"passwordHash" json:"-"`
	Name           string             `bson:"name" json:"name"`
	Role           string             `bson:"role" json:"role"`
	ClubID         int                `bson:"clubId,omitempty" json:"clubId,omitempty"`
	AllowedClubIDs []int              `bson:"allowedClubIds,omitempty" json:"allowedClubIds,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AuthResponse is returned by the login and token endpoints
type AuthResponse struct {
	Token string `json:"token"`
	Admin Admin  `json:"admin"`
}
