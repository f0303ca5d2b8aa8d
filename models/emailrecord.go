package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmailStatus is the delivery outcome of a single email
type EmailStatus string

// Predefined EmailStatus values
const (
	EmailStatusSent   EmailStatus = "sent"
	EmailStatusFailed EmailStatus = "failed"
)

// EmailRecord is one delivery attempt to one member, kept for the history views
type EmailRecord struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	MemberID    primitive.ObjectID `json:"memberId" bson:"memberId"`
	MemberEmail string             `json:"memberEmail" bson:"memberEmail"`
	Subject     string             `json:"subject" bson:"subject"`
	Body        string             `json:"body" bson:"body"`
	SentAt      time.Time          `json:"sentAt" bson:"sentAt"`
	Status      EmailStatus        `json:"status" bson:"status"`
	ClubID      int                `json:"clubId" bson:"clubId"`
	Error       string             `json:"error,omitempty" bson:"error,omitempty"`
}

// EmailBatchResult summarises a bulk or filtered send
type EmailBatchResult struct {
	Success  bool     `json:"success"`
	Total    int      `json:"total"`
	Sent     []string `json:"sent"`
	Failed   []string `json:"failed"`
	NotFound []string `json:"notFound,omitempty"`
}
