package handlers

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/BaselBoulos/la-maison-privee/api"
	"github.com/BaselBoulos/la-maison-privee/apperrors"
	"github.com/BaselBoulos/la-maison-privee/databases"
	"github.com/BaselBoulos/la-maison-privee/models"
	"github.com/BaselBoulos/la-maison-privee/rsvp"
)

// maxEventRetries bounds the reload-and-retry loop on version conflicts
const maxEventRetries = 5

// Event exported for testing purposes
type Event struct {
	Scope
	DB    databases.EventDatabase
	MDB   databases.MemberDatabase
	IDB   databases.InterestDatabase
	Hub   *LiveHub
	Clock func() time.Time
}

type eventRequest struct {
	Title           *string     `json:"title"`
	Date            *models.Day `json:"date"`
	Time            *string     `json:"time"`
	Location        *string     `json:"location"`
	MaxCapacity     *int        `json:"maxCapacity"`
	Price           *float64    `json:"price"`
	Description     *string     `json:"description"`
	Image           *string     `json:"image"`
	TargetInterests []string    `json:"targetInterests"`
	TargetCities    []string    `json:"targetCities"`
}

type rsvpRequest struct {
	MemberID string `json:"memberId"`
	Response string `json:"response"`
}

type memberRequestID struct {
	MemberID string `json:"memberId"`
}

type attendanceRequest struct {
	MemberID string `json:"memberId"`
	Status   string `json:"status"`
}

type bulkAttendanceRequest struct {
	MemberIDs []string `json:"memberIds"`
	Status    string   `json:"status"`
}

type rsvpResponse struct {
	Outcome rsvp.Outcome  `json:"outcome"`
	Event   *models.Event `json:"event"`
}

type promoteResponse struct {
	Promoted []string      `json:"promoted"`
	Event    *models.Event `json:"event"`
}

type bulkAttendanceResponse struct {
	Processed int           `json:"processed"`
	Event     *models.Event `json:"event"`
}

// EventsHandler lists the resolved club's events, upcoming ones first
func (e Event) EventsHandler(w http.ResponseWriter, r *http.Request) {
	clubID := e.clubID(r)
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	events, err := e.DB.Find(ctx, bson.M{"clubId": clubID})
	if err != nil {
		writeError(w, err)
		return
	}
	sortUpcomingFirst(events, clock(e.Clock))
	for i := range events {
		rsvp.Normalize(&events[i])
	}
	writeJSON(w, http.StatusOK, events)
}

// sortUpcomingFirst orders events dated today or later ascending, followed by
// past events ascending
func sortUpcomingFirst(events []models.Event, now time.Time) {
	y, m, d := now.Date()
	today := models.NewDay(y, m, d)
	sort.SliceStable(events, func(i, j int) bool {
		ui := !events[i].Date.Before(today.Time)
		uj := !events[j].Date.Before(today.Time)
		if ui != uj {
			return ui
		}
		return events[i].Date.Before(events[j].Date.Time)
	})
}

// EventHandler returns one event
func (e Event) EventHandler(w http.ResponseWriter, r *http.Request) {
	clubID := e.clubID(r)
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	event, err := e.find(ctx, r, clubID)
	if err != nil {
		writeError(w, err)
		return
	}
	rsvp.Normalize(event)
	writeJSON(w, http.StatusOK, event)
}

// CreateEventHandler adds an event and snapshots the members it targets
func (e Event) CreateEventHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := e.mutationClubID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req eventRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" || req.Date == nil || req.Date.IsZero() {
		writeError(w, apperrors.InvalidInput("title and date are required"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	now := clock(e.Clock)
	event := models.Event{
		ClubID:    clubID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	rsvp.Normalize(&event)
	if err := e.apply(ctx, clubID, &event, req); err != nil {
		writeError(w, err)
		return
	}

	event.ID, err = e.DB.InsertOne(ctx, event)
	if err != nil {
		writeError(w, err)
		return
	}
	zap.S().Infow("event created", "clubId", clubID, "eventId", event.ID.Hex(), "invited", len(event.InvitedMemberIDs))
	writeJSON(w, http.StatusCreated, event)
}

// UpdateEventHandler changes the fields present in the body
func (e Event) UpdateEventHandler(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	e.mutateAndRespond(w, r, func(ctx context.Context, event *models.Event) (interface{}, error) {
		if err := e.apply(ctx, event.ClubID, event, req); err != nil {
			return nil, err
		}
		return event, nil
	})
}

// DeleteEventHandler removes an event
func (e Event) DeleteEventHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := e.mutationClubID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := objectID(mux.Vars(r)["id"], "event")
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := e.DB.DeleteOne(ctx, bson.M{"_id": id, "clubId": clubID}); err != nil {
		writeError(w, err)
		return
	}
	e.Hub.Broadcast(clubID, LiveEventDeleted, map[string]string{"id": id.Hex()})
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "event deleted successfully"})
}

// RSVPHandler records a member's response. A yes on a full event lands on the
// waitlist, reported by outcome "waitlisted".
func (e Event) RSVPHandler(w http.ResponseWriter, r *http.Request) {
	var req rsvpRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	response, err := rsvp.ParseResponse(req.Response)
	if err != nil {
		writeError(w, err)
		return
	}
	e.memberMutation(w, r, req.MemberID, func(event *models.Event, member primitive.ObjectID) (interface{}, error) {
		outcome, err := rsvp.SetRSVP(event, member, response)
		if err != nil {
			return nil, err
		}
		return rsvpResponse{Outcome: outcome, Event: event}, nil
	})
}

// AddToWaitlistHandler queues a member for the event
func (e Event) AddToWaitlistHandler(w http.ResponseWriter, r *http.Request) {
	var req memberRequestID
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	e.memberMutation(w, r, req.MemberID, func(event *models.Event, member primitive.ObjectID) (interface{}, error) {
		return event, rsvp.AddToWaitlist(event, member)
	})
}

// RemoveFromWaitlistHandler drops a member from the waitlist
func (e Event) RemoveFromWaitlistHandler(w http.ResponseWriter, r *http.Request) {
	member, err := objectID(mux.Vars(r)["memberId"], "member")
	if err != nil {
		writeError(w, err)
		return
	}
	e.mutateAndRespond(w, r, func(_ context.Context, event *models.Event) (interface{}, error) {
		return event, rsvp.RemoveFromWaitlist(event, member)
	})
}

// PromoteWaitlistHandler admits waitlisted members while capacity allows
func (e Event) PromoteWaitlistHandler(w http.ResponseWriter, r *http.Request) {
	e.mutateAndRespond(w, r, func(_ context.Context, event *models.Event) (interface{}, error) {
		promoted, err := rsvp.PromoteWaitlist(event)
		if err != nil {
			return nil, err
		}
		return promoteResponse{Promoted: hexes(promoted), Event: event}, nil
	})
}

// AttendanceHandler summarises RSVPs, waitlist and attendance of an event
func (e Event) AttendanceHandler(w http.ResponseWriter, r *http.Request) {
	clubID := e.clubID(r)
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	event, err := e.find(ctx, r, clubID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attendanceSummary(event))
}

func attendanceSummary(event *models.Event) models.AttendanceSummary {
	s := models.AttendanceSummary{
		EventID:    event.ID.Hex(),
		EventTitle: event.Title,
		Attendance: models.Attendance{Attended: []primitive.ObjectID{}, NoShow: []primitive.ObjectID{}},
		RSVPs: models.RSVPCounts{
			Yes:   len(event.RSVPs.Yes),
			No:    len(event.RSVPs.No),
			Maybe: len(event.RSVPs.Maybe),
		},
		Waitlist: len(event.Waitlist),
	}
	if event.Attendance != nil {
		s.Attendance.Attended = append(s.Attendance.Attended, event.Attendance.Attended...)
		s.Attendance.NoShow = append(s.Attendance.NoShow, event.Attendance.NoShow...)
	}
	return s
}

// MarkAttendanceHandler records whether one member attended
func (e Event) MarkAttendanceHandler(w http.ResponseWriter, r *http.Request) {
	var req attendanceRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	status, err := rsvp.ParseAttendanceStatus(req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	e.memberMutation(w, r, req.MemberID, func(event *models.Event, member primitive.ObjectID) (interface{}, error) {
		return event, rsvp.MarkAttendance(event, member, status)
	})
}

// BulkAttendanceHandler records the same attendance status for many members
func (e Event) BulkAttendanceHandler(w http.ResponseWriter, r *http.Request) {
	var req bulkAttendanceRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	status, err := rsvp.ParseAttendanceStatus(req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(req.MemberIDs) == 0 {
		writeError(w, apperrors.InvalidInput("memberIds must not be empty"))
		return
	}
	ids, invalid := objectIDs(req.MemberIDs)
	if len(invalid) > 0 {
		writeError(w, apperrors.InvalidInput("invalid member ids: %s", strings.Join(invalid, ", ")))
		return
	}

	e.mutateAndRespond(w, r, func(ctx context.Context, event *models.Event) (interface{}, error) {
		if err := e.checkMembers(ctx, event.ClubID, ids); err != nil {
			return nil, err
		}
		n, err := rsvp.BulkMarkAttendance(event, ids, status)
		if err != nil {
			return nil, err
		}
		return bulkAttendanceResponse{Processed: n, Event: event}, nil
	})
}

// memberMutation runs apply for a member of the event's club
func (e Event) memberMutation(w http.ResponseWriter, r *http.Request, rawMember string, apply func(*models.Event, primitive.ObjectID) (interface{}, error)) {
	if strings.TrimSpace(rawMember) == "" {
		writeError(w, apperrors.InvalidInput("memberId is required"))
		return
	}
	member, err := objectID(rawMember, "member")
	if err != nil {
		writeError(w, err)
		return
	}
	e.mutateAndRespond(w, r, func(ctx context.Context, event *models.Event) (interface{}, error) {
		if err := e.checkMembers(ctx, event.ClubID, []primitive.ObjectID{member}); err != nil {
			return nil, err
		}
		return apply(event, member)
	})
}

// checkMembers fails with NotFound unless every id is a member of the club
func (e Event) checkMembers(ctx context.Context, clubID int, ids []primitive.ObjectID) error {
	distinct := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		distinct[id] = true
	}
	n, err := e.MDB.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}, "clubId": clubID})
	if err != nil {
		return err
	}
	if int(n) != len(distinct) {
		if len(distinct) == 1 {
			return apperrors.NotFound("member not found")
		}
		return apperrors.NotFound("%d of %d members not found", len(distinct)-int(n), len(distinct))
	}
	return nil
}

func (e Event) mutateAndRespond(w http.ResponseWriter, r *http.Request, apply func(context.Context, *models.Event) (interface{}, error)) {
	clubID, err := e.mutationClubID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := objectID(mux.Vars(r)["id"], "event")
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	var out interface{}
	_, err = e.mutate(ctx, clubID, id, func(event *models.Event) error {
		var err error
		out, err = apply(ctx, event)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// mutate is the read-modify-write unit of every event change: load the event
// of the club, apply, and write it back only if its version is unchanged.
// Conflicting writers reload and retry.
func (e Event) mutate(ctx context.Context, clubID int, id primitive.ObjectID, apply func(*models.Event) error) (*models.Event, error) {
	for attempt := 0; attempt < maxEventRetries; attempt++ {
		event, err := e.DB.FindOne(ctx, bson.M{"_id": id, "clubId": clubID})
		if err != nil {
			return nil, err
		}
		rsvp.Normalize(event)
		if err := apply(event); err != nil {
			return nil, err
		}
		err = e.DB.ReplaceVersioned(ctx, event)
		if err == nil {
			e.Hub.Broadcast(clubID, LiveEventUpdated, event)
			return event, nil
		}
		if !errors.Is(err, databases.ErrVersionConflict) {
			return nil, err
		}
		zap.S().Debugw("event version conflict, retrying", "eventId", id.Hex(), "attempt", attempt+1)
	}
	return nil, apperrors.Conflict("event %s is being modified concurrently, try again", id.Hex())
}

func (e Event) find(ctx context.Context, r *http.Request, clubID int) (*models.Event, error) {
	id, err := objectID(mux.Vars(r)["id"], "event")
	if err != nil {
		return nil, err
	}
	return e.DB.FindOne(ctx, bson.M{"_id": id, "clubId": clubID})
}

// apply copies the present request fields onto event. Changing the targeting
// retakes the invitee snapshot.
func (e Event) apply(ctx context.Context, clubID int, event *models.Event, req eventRequest) error {
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return apperrors.InvalidInput("title must not be empty")
		}
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Date != nil && !req.Date.IsZero() {
		event.Date = *req.Date
	}
	if req.Time != nil {
		event.Time = *req.Time
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Image != nil {
		event.Image = *req.Image
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return apperrors.InvalidInput("price must not be negative")
		}
		event.Price = req.Price
	}
	if req.MaxCapacity != nil {
		if *req.MaxCapacity < 1 {
			return apperrors.InvalidInput("maxCapacity must be at least 1")
		}
		if *req.MaxCapacity < len(event.RSVPs.Yes) {
			return apperrors.InvalidInput("maxCapacity %d is below the %d members already attending", *req.MaxCapacity, len(event.RSVPs.Yes))
		}
		event.MaxCapacity = req.MaxCapacity
	}

	retarget := false
	if req.TargetInterests != nil {
		ids, err := resolveInterests(ctx, e.IDB, clubID, req.TargetInterests)
		if err != nil {
			return err
		}
		event.TargetInterests = ids
		retarget = true
	}
	if req.TargetCities != nil {
		event.TargetCities = trimAll(req.TargetCities)
		retarget = true
	}
	if retarget {
		invited, err := e.invitees(ctx, clubID, event.TargetInterests, event.TargetCities)
		if err != nil {
			return err
		}
		event.InvitedMemberIDs = invited
	}
	return nil
}

// invitees returns the members of the club holding any of interests,
// restricted to cities when given
func (e Event) invitees(ctx context.Context, clubID int, interests []primitive.ObjectID, cities []string) ([]primitive.ObjectID, error) {
	ids := []primitive.ObjectID{}
	if len(interests) == 0 {
		return ids, nil
	}
	filter := bson.M{"clubId": clubID, "interests": bson.M{"$in": interests}}
	if len(cities) > 0 {
		filter["city"] = bson.M{"$in": cities}
	}
	members, err := e.MDB.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
