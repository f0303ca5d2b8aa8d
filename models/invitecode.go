package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CodeStatus represents whether an invitation code has been redeemed
type CodeStatus string

// Predefined CodeStatus values
const (
	CodeStatusUnused CodeStatus = "unused"
	CodeStatusUsed   CodeStatus = "used"
)

// IsValid checks if the CodeStatus value is one of the predefined constants
func (s CodeStatus) IsValid() bool {
	return s == CodeStatusUnused || s == CodeStatusUsed
}

// InvitationCode represents the structure of an invitation code document in
// MongoDB. Code is unique across every club.
type InvitationCode struct {
	ID             primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Code           string              `json:"code" bson:"code" index:"unique"`
	Status         CodeStatus          `json:"status" bson:"status"`
	AssignedMember *primitive.ObjectID `json:"assignedMember,omitempty" bson:"assignedMember,omitempty"`
	ClubID         int                 `json:"clubId" bson:"clubId"`
	CreatedAt      time.Time           `json:"createdAt" bson:"createdAt"`
	UsedAt         *time.Time          `json:"usedAt,omitempty" bson:"usedAt,omitempty"`
	ExpiresAt      *time.Time          `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
}

// Expired reports whether the code has an expiry that lies before now
func (c InvitationCode) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// InvitationCodeVerification is the response of the public verify endpoint
type InvitationCodeVerification struct {
	Valid   bool            `json:"valid"`
	Message string          `json:"message"`
	Code    *InvitationCode `json:"code,omitempty"`
}
