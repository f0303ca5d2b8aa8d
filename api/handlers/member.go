package handlers

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/BaselBoulos/la-maison-privee/api"
	"github.com/BaselBoulos/la-maison-privee/apperrors"
	"github.com/BaselBoulos/la-maison-privee/databases"
	"github.com/BaselBoulos/la-maison-privee/models"
	"github.com/BaselBoulos/la-maison-privee/tier"
)

// Member exported for testing purposes
type Member struct {
	Scope
	DB         databases.MemberDatabase
	EDB        databases.EventDatabase
	IDB        databases.InterestDatabase
	CDB        databases.InvitationCodeDatabase
	CodePrefix string
	Clock      func() time.Time
}

type memberRequest struct {
	Name           *string     `json:"name"`
	Email          *string     `json:"email"`
	Phone          *string     `json:"phone"`
	City           *string     `json:"city"`
	Interests      []string    `json:"interests"`
	Status         *string     `json:"status"`
	JoinedDate     *models.Day `json:"joinedDate"`
	InvitationCode *string     `json:"invitationCode"`
	ProfilePhoto   *string     `json:"profilePhoto"`
}

type memberTierResponse struct {
	MemberID string `json:"memberId"`
	tier.Info
}

var byJoinedDate = options.Find().SetSort(bson.D{{Key: "joinedDate", Value: -1}})

// MembersHandler lists the members of the resolved club. status filters
// exactly; city, email and name match case-insensitive substrings; interests
// takes names or ids and matches members holding any of them.
func (m Member) MembersHandler(w http.ResponseWriter, r *http.Request) {
	clubID := m.clubID(r)
	q := r.URL.Query()

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	filter := bson.M{"clubId": clubID}
	if s := q.Get("status"); s != "" {
		status, err := parseMemberStatus(s)
		if err != nil {
			writeError(w, err)
			return
		}
		filter["status"] = status
	}
	for _, field := range []string{"city", "email", "name"} {
		if v := strings.TrimSpace(q.Get(field)); v != "" {
			filter[field] = primitive.Regex{Pattern: regexp.QuoteMeta(v), Options: "i"}
		}
	}
	if refs := queryList(r, "interests"); len(refs) > 0 {
		ids, err := resolveInterests(ctx, m.IDB, clubID, refs)
		if err != nil {
			writeError(w, err)
			return
		}
		filter["interests"] = bson.M{"$in": ids}
	}
	m.respondList(ctx, w, clubID, filter)
}

// FilteredMembersHandler lists members matching any of several statuses,
// cities and interests
func (m Member) FilteredMembersHandler(w http.ResponseWriter, r *http.Request) {
	clubID := m.clubID(r)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	filter, err := m.multiFilter(ctx, clubID, queryList(r, "status"), queryList(r, "cities"), queryList(r, "interests"))
	if err != nil {
		writeError(w, err)
		return
	}
	m.respondList(ctx, w, clubID, filter)
}

// multiFilter builds the member query shared by the filtered listing and the
// filtered email send
func (m Member) multiFilter(ctx context.Context, clubID int, statuses, cities, interests []string) (bson.M, error) {
	filter := bson.M{"clubId": clubID}
	if len(statuses) > 0 {
		parsed := make([]models.MemberStatus, 0, len(statuses))
		for _, s := range statuses {
			status, err := parseMemberStatus(s)
			if err != nil {
				return nil, err
			}
			parsed = append(parsed, status)
		}
		filter["status"] = bson.M{"$in": parsed}
	}
	if len(cities) > 0 {
		filter["city"] = bson.M{"$in": cities}
	}
	if len(interests) > 0 {
		ids, err := resolveInterests(ctx, m.IDB, clubID, interests)
		if err != nil {
			return nil, err
		}
		filter["interests"] = bson.M{"$in": ids}
	}
	return filter, nil
}

func (m Member) respondList(ctx context.Context, w http.ResponseWriter, clubID int, filter bson.M) {
	members, err := m.DB.Find(ctx, filter, byJoinedDate)
	if err != nil {
		writeError(w, err)
		return
	}
	v, err := m.view(ctx, clubID, members)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]models.MemberResponse, len(members))
	for i := range members {
		out[i] = v.render(members[i])
	}
	writeJSON(w, http.StatusOK, out)
}

// MemberHandler returns one member with tier and attendance count
func (m Member) MemberHandler(w http.ResponseWriter, r *http.Request) {
	clubID := m.clubID(r)
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	member, err := m.find(ctx, r, clubID)
	if err != nil {
		writeError(w, err)
		return
	}
	m.respondOne(ctx, w, http.StatusOK, clubID, *member)
}

// MemberTierHandler returns where a member stands on the tier ladder
func (m Member) MemberTierHandler(w http.ResponseWriter, r *http.Request) {
	clubID := m.clubID(r)
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	member, err := m.find(ctx, r, clubID)
	if err != nil {
		writeError(w, err)
		return
	}
	events, err := m.EDB.Find(ctx, bson.M{"clubId": clubID})
	if err != nil {
		writeError(w, err)
		return
	}
	count := tier.AttendanceCount(member.ID, events, clock(m.Clock))
	writeJSON(w, http.StatusOK, memberTierResponse{MemberID: member.ID.Hex(), Info: tier.InfoFor(count)})
}

// CreateMemberHandler adds a member to the resolved club and consumes or
// creates the invitation code they joined with
func (m Member) CreateMemberHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := m.mutationClubID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req memberRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" || req.Email == nil || strings.TrimSpace(*req.Email) == "" {
		writeError(w, apperrors.InvalidInput("name and email are required"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	now := clock(m.Clock)
	member := models.Member{
		ID:         primitive.NewObjectID(),
		Name:       strings.TrimSpace(*req.Name),
		Email:      normalizeEmail(*req.Email),
		Interests:  []primitive.ObjectID{},
		Status:     models.MemberStatusInvited,
		JoinedDate: models.DayOf(now),
		ClubID:     clubID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := m.apply(ctx, clubID, &member, req); err != nil {
		writeError(w, err)
		return
	}
	if err := m.checkEmailFree(ctx, clubID, member.Email, primitive.NilObjectID); err != nil {
		writeError(w, err)
		return
	}

	raw := ""
	if req.InvitationCode != nil {
		raw = *req.InvitationCode
	}
	codeID, undo, err := claimCode(ctx, m.CDB, m.CodePrefix, clubID, raw, member.ID, now)
	if err != nil {
		writeError(w, err)
		return
	}
	member.InvitationCode = &codeID

	if _, err := m.DB.InsertOne(ctx, member); err != nil {
		undo()
		writeError(w, err)
		return
	}
	zap.S().Infow("member created", "clubId", clubID, "memberId", member.ID.Hex())
	m.respondOne(ctx, w, http.StatusCreated, clubID, member)
}

// UpdateMemberHandler changes the fields present in the body
func (m Member) UpdateMemberHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := m.mutationClubID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req memberRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	member, err := m.find(ctx, r, clubID)
	if err != nil {
		writeError(w, err)
		return
	}
	previousEmail := member.Email
	if err := m.apply(ctx, clubID, member, req); err != nil {
		writeError(w, err)
		return
	}
	if member.Email != previousEmail {
		if err := m.checkEmailFree(ctx, clubID, member.Email, member.ID); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.InvitationCode != nil {
		code, err := m.CDB.FindOne(ctx, bson.M{"code": strings.ToUpper(strings.TrimSpace(*req.InvitationCode)), "clubId": clubID})
		if err != nil {
			writeError(w, err)
			return
		}
		member.InvitationCode = &code.ID
	}
	member.UpdatedAt = clock(m.Clock)

	set := bson.M{
		"name":         member.Name,
		"email":        member.Email,
		"phone":        member.Phone,
		"city":         member.City,
		"interests":    member.Interests,
		"status":       member.Status,
		"joinedDate":   member.JoinedDate,
		"profilePhoto": member.ProfilePhoto,
		"updatedAt":    member.UpdatedAt,
	}
	if member.InvitationCode != nil {
		set["invitationCode"] = member.InvitationCode
	}
	if err := m.DB.UpdateOne(ctx, bson.M{"_id": member.ID, "clubId": clubID}, bson.M{"$set": set}); err != nil {
		writeError(w, err)
		return
	}
	m.respondOne(ctx, w, http.StatusOK, clubID, *member)
}

// DeleteMemberHandler removes a member and every reference events hold to them
func (m Member) DeleteMemberHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := m.mutationClubID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := objectID(mux.Vars(r)["id"], "member")
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := m.DB.DeleteOne(ctx, bson.M{"_id": id, "clubId": clubID}); err != nil {
		writeError(w, err)
		return
	}
	if _, err := m.EDB.UpdateMany(ctx, bson.M{"clubId": clubID}, pullMembers([]primitive.ObjectID{id})); err != nil {
		writeError(w, apperrors.Wrap(apperrors.KindInternal, err, "member deleted but events still reference them"))
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "member deleted successfully"})
}

// pullMembers removes ids from every member list of an event. The version
// bump makes in-flight read-modify-write event updates retry.
func pullMembers(ids []primitive.ObjectID) bson.M {
	in := bson.M{"$in": ids}
	return bson.M{"$inc": bson.M{"__v": 1}, "$pull": bson.M{
		"rsvps.yes":           in,
		"rsvps.no":            in,
		"rsvps.maybe":         in,
		"waitlist":            in,
		"invitedMembersIds":   in,
		"attendance.attended": in,
		"attendance.noShow":   in,
	}}
}

func (m Member) find(ctx context.Context, r *http.Request, clubID int) (*models.Member, error) {
	id, err := objectID(mux.Vars(r)["id"], "member")
	if err != nil {
		return nil, err
	}
	return m.DB.FindOne(ctx, bson.M{"_id": id, "clubId": clubID})
}

// apply copies the present request fields onto member
func (m Member) apply(ctx context.Context, clubID int, member *models.Member, req memberRequest) error {
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return apperrors.InvalidInput("name must not be empty")
		}
		member.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if !strings.Contains(email, "@") {
			return apperrors.InvalidInput("invalid email %q", *req.Email)
		}
		member.Email = email
	}
	if req.Phone != nil {
		member.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.City != nil {
		member.City = strings.TrimSpace(*req.City)
	}
	if req.Status != nil {
		status, err := parseMemberStatus(*req.Status)
		if err != nil {
			return err
		}
		member.Status = status
	}
	if req.JoinedDate != nil && !req.JoinedDate.IsZero() {
		member.JoinedDate = *req.JoinedDate
	}
	if req.ProfilePhoto != nil {
		member.ProfilePhoto = *req.ProfilePhoto
	}
	if req.Interests != nil {
		ids, err := resolveInterests(ctx, m.IDB, clubID, req.Interests)
		if err != nil {
			return err
		}
		member.Interests = ids
	}
	return nil
}

func (m Member) checkEmailFree(ctx context.Context, clubID int, email string, self primitive.ObjectID) error {
	existing, err := m.DB.FindOne(ctx, bson.M{"clubId": clubID, "email": email})
	switch {
	case err == nil:
		if existing.ID != self {
			return apperrors.Conflict("member with email %s already exists", email)
		}
		return nil
	case apperrors.KindOf(err) == apperrors.KindNotFound:
		return nil
	default:
		return err
	}
}

func (m Member) respondOne(ctx context.Context, w http.ResponseWriter, status, clubID int, member models.Member) {
	v, err := m.view(ctx, clubID, []models.Member{member})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, v.render(member))
}

// memberView holds what rendering a member needs beyond the member itself
type memberView struct {
	events    []models.Event
	interests map[primitive.ObjectID]string
	codes     map[primitive.ObjectID]string
	now       time.Time
}

func (m Member) view(ctx context.Context, clubID int, members []models.Member) (memberView, error) {
	v := memberView{
		interests: map[primitive.ObjectID]string{},
		codes:     map[primitive.ObjectID]string{},
		now:       clock(m.Clock),
	}
	if len(members) == 0 {
		return v, nil
	}

	var err error
	if v.events, err = m.EDB.Find(ctx, bson.M{"clubId": clubID}); err != nil {
		return v, err
	}
	interests, err := m.IDB.Find(ctx, visibleInterests(clubID))
	if err != nil {
		return v, err
	}
	for _, i := range interests {
		v.interests[i.ID] = i.Name
	}

	var codeIDs []primitive.ObjectID
	for _, member := range members {
		if member.InvitationCode != nil {
			codeIDs = append(codeIDs, *member.InvitationCode)
		}
	}
	if len(codeIDs) > 0 {
		codes, err := m.CDB.Find(ctx, bson.M{"_id": bson.M{"$in": codeIDs}})
		if err != nil {
			return v, err
		}
		for _, c := range codes {
			v.codes[c.ID] = c.Code
		}
	}
	return v, nil
}

func (v memberView) render(member models.Member) models.MemberResponse {
	t, count := tier.Calculate(member.ID, v.events, v.now)
	interests := make([]string, 0, len(member.Interests))
	for _, id := range member.Interests {
		if name, ok := v.interests[id]; ok {
			interests = append(interests, name)
		}
	}
	resp := models.MemberResponse{
		ID:              member.ID.Hex(),
		Name:            member.Name,
		Email:           member.Email,
		Phone:           member.Phone,
		City:            member.City,
		Interests:       interests,
		Status:          member.Status,
		JoinedDate:      member.JoinedDate,
		ProfilePhoto:    member.ProfilePhoto,
		Tier:            string(t),
		AttendanceCount: count,
		ClubID:          member.ClubID,
	}
	if member.InvitationCode != nil {
		resp.InvitationCode = v.codes[*member.InvitationCode]
	}
	return resp
}

func parseMemberStatus(s string) (models.MemberStatus, error) {
	status := models.MemberStatus(strings.TrimSpace(s))
	if !status.IsValid() {
		return "", apperrors.InvalidInput("invalid status %q, must be active, inactive or invited", s)
	}
	return status, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
