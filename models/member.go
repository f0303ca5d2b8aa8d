package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberStatus represents the lifecycle state of a member
type MemberStatus string

// Predefined MemberStatus values
const (
	MemberStatusActive   MemberStatus = "active"
	MemberStatusInactive MemberStatus = "inactive"
	MemberStatusInvited  MemberStatus = "invited"
)

// ValidMemberStatuses returns all valid MemberStatus values
func ValidMemberStatuses() []MemberStatus {
	return []MemberStatus{
		MemberStatusActive,
		MemberStatusInactive,
		MemberStatusInvited,
	}
}

// IsValid checks if the MemberStatus value is one of the predefined constants
func (s MemberStatus) IsValid() bool {
	for _, valid := range ValidMemberStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// Member holds the structure for the members collection in mongo. Tier and
// attendance count are derived from the club's events on every read.
type Member struct {
	ID             primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name           string               `json:"name" bson:"name"`
	Email          string               `json:"email" bson:"email"`
	Phone          string               `json:"phone,omitempty" bson:"phone,omitempty"`
	City           string               `json:"city,omitempty" bson:"city,omitempty"`
	Interests      []primitive.ObjectID `json:"interests" bson:"interests"`
	Status         MemberStatus         `json:"status" bson:"status"`
	JoinedDate     Day                  `json:"joinedDate" bson:"joinedDate"`
	InvitationCode *primitive.ObjectID  `json:"invitationCode,omitempty" bson:"invitationCode,omitempty"`
	ProfilePhoto   string               `json:"profilePhoto,omitempty" bson:"profilePhoto,omitempty"`
	ClubID         int                  `json:"clubId" bson:"clubId"`
	CreatedAt      time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// MemberResponse is the API view of a member with its derived tier
type MemberResponse struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	Phone           string       `json:"phone,omitempty"`
	City            string       `json:"city,omitempty"`
	Interests       []string     `json:"interests"`
	Status          MemberStatus `json:"status"`
	JoinedDate      Day          `json:"joinedDate"`
	InvitationCode  string       `json:"invitationCode,omitempty"`
	ProfilePhoto    string       `json:"profilePhoto,omitempty"`
	Tier            string       `json:"tier"`
	AttendanceCount int          `json:"attendanceCount"`
	ClubID          int          `json:"clubId"`
}
