package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/BaselBoulos/la-maison-privee/api"
	"github.com/BaselBoulos/la-maison-privee/apperrors"
	"github.com/BaselBoulos/la-maison-privee/databases"
	"github.com/BaselBoulos/la-maison-privee/invitation"
	"github.com/BaselBoulos/la-maison-privee/models"
)

// maxGenerate is the largest batch a single generate request may ask for
const maxGenerate = 100

// InvitationCode exported for testing purposes
type InvitationCode struct {
	Scope
	DB     databases.InvitationCodeDatabase
	Prefix string
	Clock  func() time.Time
}

type generateRequest struct {
	Count         int `json:"count"`
	ExpiresInDays int `json:"expiresInDays"`
}

type verifyRequest struct {
	Code string `json:"code"`
}

// InvitationCodesHandler lists the codes of the resolved club, newest first,
// optionally filtered by ?status=unused|used
func (c InvitationCode) InvitationCodesHandler(w http.ResponseWriter, r *http.Request) {
	clubID := c.clubID(r)
	filter := bson.M{"clubId": clubID}
	if s := r.URL.Query().Get("status"); s != "" {
		status := models.CodeStatus(s)
		if !status.IsValid() {
			writeError(w, apperrors.InvalidInput("invalid status %q, must be unused or used", s))
			return
		}
		filter["status"] = status
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	codes, err := c.DB.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, codes)
}

// InvitationCodeHandler returns one code of the resolved club
func (c InvitationCode) InvitationCodeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := objectID(mux.Vars(r)["id"], "invitation code")
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	code, err := c.DB.FindOne(ctx, bson.M{"_id": id, "clubId": c.clubID(r)})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, code)
}

// RevokeInvitationCodeHandler deletes an unused code. Used codes stay as the
// record of how a member joined.
func (c InvitationCode) RevokeInvitationCodeHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := c.mutationClubID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := objectID(mux.Vars(r)["id"], "invitation code")
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	code, err := c.DB.FindOne(ctx, bson.M{"_id": id, "clubId": clubID})
	if err != nil {
		writeError(w, err)
		return
	}
	if code.Status == models.CodeStatusUsed {
		writeError(w, apperrors.InvalidInput("invitation code %s has already been used and cannot be revoked", code.Code))
		return
	}
	if err := c.DB.DeleteOne(ctx, bson.M{"_id": id, "clubId": clubID}); err != nil {
		writeError(w, err)
		return
	}
	zap.S().Infow("invitation code revoked", "clubId", clubID, "code", code.Code)
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "invitation code revoked"})
}

// GenerateInvitationCodesHandler creates count fresh unused codes for the
// resolved club
func (c InvitationCode) GenerateInvitationCodesHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := c.mutationClubID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	req := generateRequest{Count: 1}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Count < 1 || req.Count > maxGenerate {
		writeError(w, apperrors.InvalidInput("count must be between 1 and %d", maxGenerate))
		return
	}
	if req.ExpiresInDays < 0 {
		writeError(w, apperrors.InvalidInput("expiresInDays must not be negative"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	now := clock(c.Clock)
	var expiresAt *time.Time
	if req.ExpiresInDays > 0 {
		t := now.AddDate(0, 0, req.ExpiresInDays)
		expiresAt = &t
	}

	codes := make([]models.InvitationCode, 0, req.Count)
	for n := 0; n < req.Count; n++ {
		code, err := insertGeneratedCode(ctx, c.DB, c.Prefix, models.InvitationCode{
			Status:    models.CodeStatusUnused,
			ClubID:    clubID,
			CreatedAt: now,
			ExpiresAt: expiresAt,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		codes = append(codes, code)
	}
	zap.S().Infow("invitation codes generated", "clubId", clubID, "count", len(codes))
	writeJSON(w, http.StatusCreated, codes)
}

// VerifyInvitationCodeHandler is the public onboarding check. Codes are
// looked up across every club.
func (c InvitationCode) VerifyInvitationCodeHandler(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	raw := invitation.Normalize(req.Code)
	if raw == "" {
		writeError(w, apperrors.InvalidInput("invitation code is required"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	code, err := c.DB.FindOne(ctx, bson.M{"code": raw})
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			writeJSON(w, http.StatusNotFound, models.InvitationCodeVerification{Message: "Invitation code not found"})
			return
		}
		writeError(w, err)
		return
	}

	switch {
	case code.Status == models.CodeStatusUsed:
		writeJSON(w, http.StatusBadRequest, models.InvitationCodeVerification{Message: "This invitation code has already been used", Code: code})
	case code.Expired(clock(c.Clock)):
		writeJSON(w, http.StatusBadRequest, models.InvitationCodeVerification{Message: "This invitation code has expired", Code: code})
	default:
		writeJSON(w, http.StatusOK, models.InvitationCodeVerification{Valid: true, Message: "Invitation code is valid", Code: code})
	}
}

// insertGeneratedCode stores template under a freshly generated code,
// drawing again when the code is already taken
func insertGeneratedCode(ctx context.Context, db databases.InvitationCodeDatabase, prefix string, template models.InvitationCode) (models.InvitationCode, error) {
	var lastErr error
	for attempt := 0; attempt < invitation.MaxAttempts; attempt++ {
		raw, err := invitation.Generate(prefix)
		if err != nil {
			return models.InvitationCode{}, err
		}
		code := template
		code.Code = raw
		code.ID, err = db.InsertOne(ctx, code)
		if err == nil {
			return code, nil
		}
		if apperrors.KindOf(err) != apperrors.KindConflict {
			return models.InvitationCode{}, err
		}
		lastErr = err
	}
	return models.InvitationCode{}, apperrors.Wrap(apperrors.KindInternal, lastErr, "failed to generate a unique invitation code")
}

// claimCode links member to an invitation code of the club and marks it used.
// An empty raw code gets a generated one, an unknown code is recorded as
// given. It returns an undo func for when the member can't be stored.
func claimCode(ctx context.Context, db databases.InvitationCodeDatabase, prefix string, clubID int, raw string, member primitive.ObjectID, now time.Time) (primitive.ObjectID, func(), error) {
	used := models.InvitationCode{
		Status:         models.CodeStatusUsed,
		AssignedMember: &member,
		ClubID:         clubID,
		CreatedAt:      now,
		UsedAt:         &now,
	}
	created := func(id primitive.ObjectID) func() {
		return func() {
			if err := db.DeleteOne(context.Background(), bson.M{"_id": id}); err != nil {
				zap.S().Errorw("failed to roll back invitation code", "id", id.Hex(), "error", err)
			}
		}
	}

	raw = invitation.Normalize(raw)
	if raw == "" {
		code, err := insertGeneratedCode(ctx, db, prefix, used)
		if err != nil {
			return primitive.NilObjectID, nil, err
		}
		return code.ID, created(code.ID), nil
	}

	existing, err := db.FindOne(ctx, bson.M{"code": raw, "clubId": clubID})
	switch {
	case err == nil:
		if existing.Status == models.CodeStatusUsed {
			return primitive.NilObjectID, nil, apperrors.Conflict("invitation code %s has already been used", raw)
		}
		if existing.Expired(now) {
			return primitive.NilObjectID, nil, apperrors.InvalidInput("invitation code %s has expired", raw)
		}
		err = db.UpdateOne(ctx,
			bson.M{"_id": existing.ID, "status": models.CodeStatusUnused},
			bson.M{"$set": bson.M{"status": models.CodeStatusUsed, "assignedMember": member, "usedAt": now}})
		if err != nil {
			return primitive.NilObjectID, nil, err
		}
		undo := func() {
			err := db.UpdateOne(context.Background(),
				bson.M{"_id": existing.ID},
				bson.M{"$set": bson.M{"status": models.CodeStatusUnused}, "$unset": bson.M{"assignedMember": "", "usedAt": ""}})
			if err != nil {
				zap.S().Errorw("failed to release invitation code", "code", raw, "error", err)
			}
		}
		return existing.ID, undo, nil
	case apperrors.KindOf(err) == apperrors.KindNotFound:
		used.Code = raw
		id, err := db.InsertOne(ctx, used)
		if err != nil {
			return primitive.NilObjectID, nil, err
		}
		return id, created(id), nil
	default:
		return primitive.NilObjectID, nil, err
	}
}

func clock(f func() time.Time) time.Time {
	if f == nil {
		return time.Now().UTC()
	}
	return f()
}
