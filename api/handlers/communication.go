package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/BaselBoulos/la-maison-privee/api"
	"github.com/BaselBoulos/la-maison-privee/apperrors"
	"github.com/BaselBoulos/la-maison-privee/databases"
	"github.com/BaselBoulos/la-maison-privee/email"
	"github.com/BaselBoulos/la-maison-privee/models"
	templates "github.com/BaselBoulos/la-maison-privee/templates/html"
)

// defaultClubName brands emails of a club that can't be loaded
const defaultClubName = "La Maison Privée"

// Communication exported for testing purposes
type Communication struct {
	Scope
	Members Member
	CDB     databases.ClubDatabase
	RDB     databases.EmailRecordDatabase
	Sender  email.Sender
	Clock   func() time.Time
}

type emailMemberRequest struct {
	MemberID string `json:"memberId"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

type emailBulkRequest struct {
	MemberIDs []string `json:"memberIds"`
	Subject   string   `json:"subject"`
	Body      string   `json:"body"`
}

type emailFilters struct {
	Status    []string `json:"status"`
	Cities    []string `json:"cities"`
	Interests []string `json:"interests"`
}

type emailFilteredRequest struct {
	Subject string       `json:"subject"`
	Body    string       `json:"body"`
	Filters emailFilters `json:"filters"`
}

type emailMemberResponse struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message"`
	EmailRecord models.EmailRecord `json:"emailRecord"`
}

// historyPageSize is used when the request carries no limit
const historyPageSize = 50

// EmailMemberHandler sends one email to one member
func (c Communication) EmailMemberHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := c.mutationClubID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req emailMemberRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.MemberID == "" || strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Body) == "" {
		writeError(w, apperrors.InvalidInput("memberId, subject and body are required"))
		return
	}
	id, err := objectID(req.MemberID, "member")
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	member, err := c.Members.DB.FindOne(ctx, bson.M{"_id": id, "clubId": clubID})
	if err != nil {
		writeError(w, err)
		return
	}
	record := c.deliver(ctx, c.brand(ctx, clubID), *member, req.Subject, req.Body)
	if record.Status == models.EmailStatusFailed {
		writeError(w, apperrors.Wrap(apperrors.KindInternal, nil, "failed to send email: "+record.Error))
		return
	}
	writeJSON(w, http.StatusOK, emailMemberResponse{Success: true, Message: "email sent successfully", EmailRecord: record})
}

// EmailBulkHandler sends the same email to a list of members
func (c Communication) EmailBulkHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := c.mutationClubID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req emailBulkRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.MemberIDs == nil || strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Body) == "" {
		writeError(w, apperrors.InvalidInput("memberIds must be an array, and subject and body are required"))
		return
	}
	ids, invalid := objectIDs(req.MemberIDs)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	members, err := c.Members.DB.Find(ctx, bson.M{"_id": bson.M{"$in": ids}, "clubId": clubID})
	if err != nil {
		writeError(w, err)
		return
	}
	result := c.send(ctx, clubID, members, req.Subject, req.Body)
	result.Total = len(req.MemberIDs)
	result.NotFound = append(result.NotFound, invalid...)
	found := map[string]bool{}
	for _, m := range members {
		found[m.ID.Hex()] = true
	}
	for _, id := range ids {
		if !found[id.Hex()] {
			result.NotFound = append(result.NotFound, id.Hex())
		}
	}
	writeJSON(w, http.StatusOK, result)
}

// EmailFilteredHandler sends an email to every member matching the filters
func (c Communication) EmailFilteredHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := c.mutationClubID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req emailFilteredRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Body) == "" {
		writeError(w, apperrors.InvalidInput("subject and body are required"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	filter, err := c.Members.multiFilter(ctx, clubID, req.Filters.Status, req.Filters.Cities, req.Filters.Interests)
	if err != nil {
		writeError(w, err)
		return
	}
	members, err := c.Members.DB.Find(ctx, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	result := c.send(ctx, clubID, members, req.Subject, req.Body)
	result.Total = len(members)
	writeJSON(w, http.StatusOK, result)
}

// EmailHistoryHandler lists the resolved club's sent emails, newest first
func (c Communication) EmailHistoryHandler(w http.ResponseWriter, r *http.Request) {
	c.history(w, r, bson.M{"clubId": c.clubID(r)})
}

// MemberEmailHistoryHandler lists the emails sent to one member
func (c Communication) MemberEmailHistoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := objectID(mux.Vars(r)["memberId"], "member")
	if err != nil {
		writeError(w, err)
		return
	}
	c.history(w, r, bson.M{"clubId": c.clubID(r), "memberId": id})
}

func (c Communication) history(w http.ResponseWriter, r *http.Request, filter bson.M) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 500 {
		limit = historyPageSize
	}
	records, err := c.RDB.Find(ctx, filter, databases.PageOptions(limit, page, "sentAt", -1))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (c Communication) send(ctx context.Context, clubID int, members []models.Member, subject, body string) models.EmailBatchResult {
	result := models.EmailBatchResult{Success: true, Sent: []string{}, Failed: []string{}}
	club := c.brand(ctx, clubID)
	for _, m := range members {
		record := c.deliver(ctx, club, m, subject, body)
		if record.Status == models.EmailStatusSent {
			result.Sent = append(result.Sent, m.ID.Hex())
		} else {
			result.Failed = append(result.Failed, m.ID.Hex())
		}
	}
	zap.S().Infow("emails sent", "clubId", clubID, "sent", len(result.Sent), "failed", len(result.Failed))
	return result
}

// deliver sends one email and records the attempt
func (c Communication) deliver(ctx context.Context, club models.Club, m models.Member, subject, body string) models.EmailRecord {
	record := models.EmailRecord{
		MemberID:    m.ID,
		MemberEmail: m.Email,
		Subject:     subject,
		Body:        body,
		SentAt:      clock(c.Clock),
		Status:      models.EmailStatusSent,
		ClubID:      m.ClubID,
	}
	err := c.Sender.Send(ctx, email.Message{
		ToEmail:   m.Email,
		ToName:    m.Name,
		Subject:   subject,
		PlainText: body,
		HTML:      templates.RenderClubEmail(subject, body, club.Name, club.Theme.Accent),
	})
	if err != nil {
		zap.S().Warnw("failed to send email", "memberId", m.ID.Hex(), "error", err)
		record.Status = models.EmailStatusFailed
		record.Error = err.Error()
	}
	if record.ID, err = c.RDB.InsertOne(ctx, record); err != nil {
		zap.S().Errorw("failed to record email", "memberId", m.ID.Hex(), "error", err)
	}
	return record
}

// brand returns the club whose name and accent style the email
func (c Communication) brand(ctx context.Context, clubID int) models.Club {
	club, err := c.CDB.FindOne(ctx, bson.M{"id": clubID})
	if err != nil {
		return models.Club{ID: clubID, Name: defaultClubName}
	}
	return *club
}
