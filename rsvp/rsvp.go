// Package rsvp holds the RSVP, waitlist and attendance rules of an event.
// Every function mutates the event in place and performs no I/O, so callers
// can wrap one call in a single versioned read-modify-write.
package rsvp

import (
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/BaselBoulos/la-maison-privee/apperrors"
	"github.com/BaselBoulos/la-maison-privee/models"
)

// Response is a member's answer to an invitation
type Response string

// Predefined Response values
const (
	Yes   Response = "yes"
	No    Response = "no"
	Maybe Response = "maybe"
)

// ParseResponse validates s as a Response
func ParseResponse(s string) (Response, error) {
	switch r := Response(s); r {
	case Yes, No, Maybe:
		return r, nil
	}
	return "", apperrors.InvalidInput("invalid response %q, expected yes, no or maybe", s)
}

// AttendanceStatus is the outcome recorded for a member after an event
type AttendanceStatus string

// Predefined AttendanceStatus values
const (
	Attended AttendanceStatus = "attended"
	NoShow   AttendanceStatus = "noShow"
)

// ParseAttendanceStatus validates s as an AttendanceStatus
func ParseAttendanceStatus(s string) (AttendanceStatus, error) {
	switch st := AttendanceStatus(s); st {
	case Attended, NoShow:
		return st, nil
	}
	return "", apperrors.InvalidInput("invalid attendance status %q, expected attended or noShow", s)
}

// Outcome reports where SetRSVP placed the member
type Outcome string

// Predefined Outcome values
const (
	Recorded   Outcome = "recorded"
	Waitlisted Outcome = "waitlisted"
)

// IsFull reports whether the event has a capacity and the yes set has reached it
func IsFull(e *models.Event) bool {
	return e.MaxCapacity != nil && len(e.RSVPs.Yes) >= *e.MaxCapacity
}

// SetRSVP records response for memberID. The member is first removed from every
// RSVP set; a yes on a full event puts them on the waitlist instead.
func SetRSVP(e *models.Event, memberID primitive.ObjectID, response Response) (Outcome, error) {
	if e == nil {
		return "", apperrors.NotFound("event not found")
	}
	if _, err := ParseResponse(string(response)); err != nil {
		return "", err
	}

	e.RSVPs.Yes = without(e.RSVPs.Yes, memberID)
	e.RSVPs.No = without(e.RSVPs.No, memberID)
	e.RSVPs.Maybe = without(e.RSVPs.Maybe, memberID)

	switch response {
	case Yes:
		if IsFull(e) {
			e.Waitlist = with(e.Waitlist, memberID)
			return Waitlisted, nil
		}
		e.RSVPs.Yes = append(e.RSVPs.Yes, memberID)
	case No:
		e.RSVPs.No = append(e.RSVPs.No, memberID)
	case Maybe:
		e.RSVPs.Maybe = append(e.RSVPs.Maybe, memberID)
	}
	e.Waitlist = without(e.Waitlist, memberID)
	return Recorded, nil
}

// AddToWaitlist appends memberID unless it is already queued
func AddToWaitlist(e *models.Event, memberID primitive.ObjectID) error {
	if e == nil {
		return apperrors.NotFound("event not found")
	}
	e.Waitlist = with(e.Waitlist, memberID)
	return nil
}

// RemoveFromWaitlist drops memberID from the waitlist if present
func RemoveFromWaitlist(e *models.Event, memberID primitive.ObjectID) error {
	if e == nil {
		return apperrors.NotFound("event not found")
	}
	e.Waitlist = without(e.Waitlist, memberID)
	return nil
}

// PromoteWaitlist admits members from the head of the waitlist into the yes
// set while capacity allows and returns them in admission order.
func PromoteWaitlist(e *models.Event) ([]primitive.ObjectID, error) {
	if e == nil {
		return nil, apperrors.NotFound("event not found")
	}
	var promoted []primitive.ObjectID
	for len(e.Waitlist) > 0 && !IsFull(e) {
		id := e.Waitlist[0]
		e.Waitlist = e.Waitlist[1:]
		e.RSVPs.No = without(e.RSVPs.No, id)
		e.RSVPs.Maybe = without(e.RSVPs.Maybe, id)
		e.RSVPs.Yes = with(e.RSVPs.Yes, id)
		promoted = append(promoted, id)
	}
	return promoted, nil
}

// MarkAttendance moves memberID into the set for status. RSVP state is left
// untouched so walk-ins can be recorded.
func MarkAttendance(e *models.Event, memberID primitive.ObjectID, status AttendanceStatus) error {
	if e == nil {
		return apperrors.NotFound("event not found")
	}
	if _, err := ParseAttendanceStatus(string(status)); err != nil {
		return err
	}
	if e.Attendance == nil {
		e.Attendance = &models.Attendance{Attended: []primitive.ObjectID{}, NoShow: []primitive.ObjectID{}}
	}
	e.Attendance.Attended = without(e.Attendance.Attended, memberID)
	e.Attendance.NoShow = without(e.Attendance.NoShow, memberID)
	if status == Attended {
		e.Attendance.Attended = append(e.Attendance.Attended, memberID)
	} else {
		e.Attendance.NoShow = append(e.Attendance.NoShow, memberID)
	}
	return nil
}

// BulkMarkAttendance applies MarkAttendance to every id and returns how many
// were processed before the first error.
func BulkMarkAttendance(e *models.Event, memberIDs []primitive.ObjectID, status AttendanceStatus) (int, error) {
	if e == nil {
		return 0, apperrors.NotFound("event not found")
	}
	if _, err := ParseAttendanceStatus(string(status)); err != nil {
		return 0, err
	}
	for i, id := range memberIDs {
		if err := MarkAttendance(e, id, status); err != nil {
			return i, err
		}
	}
	return len(memberIDs), nil
}

// StatusOf returns the RSVP of memberID, or "" when they have not answered
func StatusOf(e *models.Event, memberID primitive.ObjectID) Response {
	switch {
	case slices.Contains(e.RSVPs.Yes, memberID):
		return Yes
	case slices.Contains(e.RSVPs.No, memberID):
		return No
	case slices.Contains(e.RSVPs.Maybe, memberID):
		return Maybe
	}
	return ""
}

// Normalize replaces nil sets with empty ones so the event renders as []
func Normalize(e *models.Event) {
	for _, s := range []*[]primitive.ObjectID{
		&e.RSVPs.Yes, &e.RSVPs.No, &e.RSVPs.Maybe, &e.Waitlist,
		&e.InvitedMemberIDs, &e.TargetInterests,
	} {
		if *s == nil {
			*s = []primitive.ObjectID{}
		}
	}
	if e.TargetCities == nil {
		e.TargetCities = []string{}
	}
}

func with(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

func without(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	return slices.DeleteFunc(ids, func(x primitive.ObjectID) bool { return x == id })
}
