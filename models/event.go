package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event holds the structure for the events collection in mongo. Version is
// bumped on every RSVP, waitlist or attendance write and guards concurrent
// read-modify-write cycles.
type Event struct {
	ID               primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title            string               `json:"title" bson:"title"`
	Date             Day                  `json:"date" bson:"date"`
	Time             string               `json:"time" bson:"time"`
	Location         string               `json:"location" bson:"location"`
	MaxCapacity      *int                 `json:"maxCapacity,omitempty" bson:"maxCapacity,omitempty"`
	Price            *float64             `json:"price,omitempty" bson:"price,omitempty"`
	Description      string               `json:"description" bson:"description"`
	Image            string               `json:"image,omitempty" bson:"image,omitempty"`
	TargetInterests  []primitive.ObjectID `json:"targetInterests" bson:"targetInterests"`
	TargetCities     []string             `json:"targetCities" bson:"targetCities"`
	InvitedMemberIDs []primitive.ObjectID `json:"invitedMembersIds" bson:"invitedMembersIds"`
	RSVPs            RSVPs                `json:"rsvps" bson:"rsvps"`
	Waitlist         []primitive.ObjectID `json:"waitlist" bson:"waitlist"`
	Attendance       *Attendance          `json:"attendance,omitempty" bson:"attendance,omitempty"`
	ClubID           int                  `json:"clubId" bson:"clubId"`
	Version          int32                `json:"__v" bson:"__v"`
	CreatedAt        time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// RSVPs holds the three mutually exclusive response sets of an event
type RSVPs struct {
	Yes   []primitive.ObjectID `json:"yes" bson:"yes"`
	No    []primitive.ObjectID `json:"no" bson:"no"`
	Maybe []primitive.ObjectID `json:"maybe" bson:"maybe"`
}

// Attendance holds the two mutually exclusive attendance sets of an event
type Attendance struct {
	Attended []primitive.ObjectID `json:"attended" bson:"attended"`
	NoShow   []primitive.ObjectID `json:"noShow" bson:"noShow"`
}

// AttendanceSummary is returned by the attendance endpoint
type AttendanceSummary struct {
	EventID    string     `json:"eventId"`
	EventTitle string     `json:"eventTitle"`
	Attendance Attendance `json:"attendance"`
	RSVPs      RSVPCounts `json:"rsvps"`
	Waitlist   int        `json:"waitlist"`
}

// RSVPCounts holds the size of each response set
type RSVPCounts struct {
	Yes   int `json:"yes"`
	No    int `json:"no"`
	Maybe int `json:"maybe"`
}
