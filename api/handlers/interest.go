package handlers

import (
	"context"
	"net/http"
	"slices"
	"strconv"
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
	"github.com/BaselBoulos/la-maison-privee/tenant"
)

// Interest exported for testing purposes
type Interest struct {
	Scope
	DB  databases.InterestDatabase
	MDB databases.MemberDatabase
}

type interestRequest struct {
	Name    *string `json:"name"`
	Icon    *string `json:"icon"`
	Enabled *bool   `json:"enabled"`
}

// visibleInterests matches the interests of a club plus the global ones
func visibleInterests(clubID int) bson.M {
	return bson.M{"$or": []bson.M{
		{"clubId": clubID},
		{"clubId": bson.M{"$exists": false}},
	}}
}

var byName = options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

// InterestsHandler returns the enabled interests visible to the resolved club
func (i Interest) InterestsHandler(w http.ResponseWriter, r *http.Request) {
	i.list(w, r, i.clubID(r), true)
}

// AllInterestsHandler returns every interest visible to the resolved club,
// disabled ones included
func (i Interest) AllInterestsHandler(w http.ResponseWriter, r *http.Request) {
	i.list(w, r, i.clubID(r), false)
}

// ClubInterestsHandler is the public listing of a club's enabled interests
func (i Interest) ClubInterestsHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := strconv.Atoi(mux.Vars(r)["clubId"])
	if err != nil || clubID <= 0 {
		writeError(w, apperrors.InvalidInput("invalid club id %q", mux.Vars(r)["clubId"]))
		return
	}
	i.list(w, r, clubID, true)
}

func (i Interest) list(w http.ResponseWriter, r *http.Request, clubID int, enabledOnly bool) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	filter := visibleInterests(clubID)
	if enabledOnly {
		filter["enabled"] = true
	}
	interests, err := i.DB.Find(ctx, filter, byName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, interests)
}

// CreateInterestHandler adds a club interest. Names are unique per club,
// ignoring case, and may not shadow a global interest.
func (i Interest) CreateInterestHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := i.mutationClubID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req interestRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		writeError(w, apperrors.InvalidInput("interest name is required"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	name := strings.TrimSpace(*req.Name)
	if err := i.checkUniqueName(ctx, clubID, name, primitive.NilObjectID); err != nil {
		writeError(w, err)
		return
	}

	now := time.Now().UTC()
	interest := models.Interest{
		Name:      name,
		Enabled:   true,
		ClubID:    &clubID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Icon != nil {
		interest.Icon = *req.Icon
	}
	if req.Enabled != nil {
		interest.Enabled = *req.Enabled
	}
	interest.ID, err = i.DB.InsertOne(ctx, interest)
	if err != nil {
		writeError(w, err)
		return
	}
	zap.S().Infow("interest created", "clubId", clubID, "name", name)
	writeJSON(w, http.StatusCreated, interest)
}

// UpdateInterestHandler renames, re-icons or toggles an interest
func (i Interest) UpdateInterestHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := i.mutationClubID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req interestRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	interest, err := i.findWritable(ctx, r, clubID)
	if err != nil {
		writeError(w, err)
		return
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			writeError(w, apperrors.InvalidInput("interest name is required"))
			return
		}
		if !strings.EqualFold(name, interest.Name) {
			if err := i.checkUniqueName(ctx, clubID, name, interest.ID); err != nil {
				writeError(w, err)
				return
			}
		}
		interest.Name = name
		set["name"] = name
	}
	if req.Icon != nil {
		interest.Icon = *req.Icon
		set["icon"] = *req.Icon
	}
	if req.Enabled != nil {
		interest.Enabled = *req.Enabled
		set["enabled"] = *req.Enabled
	}
	if err := i.DB.UpdateOne(ctx, bson.M{"_id": interest.ID}, bson.M{"$set": set}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, interest)
}

// DeleteInterestHandler removes an interest nobody in the club holds
func (i Interest) DeleteInterestHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := i.mutationClubID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	interest, err := i.findWritable(ctx, r, clubID)
	if err != nil {
		writeError(w, err)
		return
	}
	inUse, err := i.MDB.CountDocuments(ctx, bson.M{"clubId": clubID, "interests": interest.ID})
	if err != nil {
		writeError(w, err)
		return
	}
	if inUse > 0 {
		writeError(w, apperrors.Conflict("cannot delete interest %q because %d member(s) have it assigned", interest.Name, inUse))
		return
	}
	if err := i.DB.DeleteOne(ctx, bson.M{"_id": interest.ID}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "interest deleted successfully"})
}

// findWritable loads the interest in the path. Global interests are shared by
// every club, so only super admins may change them.
func (i Interest) findWritable(ctx context.Context, r *http.Request, clubID int) (*models.Interest, error) {
	id, err := objectID(mux.Vars(r)["id"], "interest")
	if err != nil {
		return nil, err
	}
	filter := visibleInterests(clubID)
	filter["_id"] = id
	interest, err := i.DB.FindOne(ctx, filter)
	if err != nil {
		return nil, err
	}
	if interest.ClubID == nil {
		if p := tenant.FromContext(r.Context()); p == nil || p.Role != tenant.RoleSuper {
			return nil, apperrors.Forbidden("global interests can only be changed by a super admin")
		}
	}
	return interest, nil
}

func (i Interest) checkUniqueName(ctx context.Context, clubID int, name string, except primitive.ObjectID) error {
	existing, err := i.DB.Find(ctx, visibleInterests(clubID))
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.ID != except && strings.EqualFold(e.Name, name) {
			return apperrors.Conflict("interest %q already exists", name)
		}
	}
	return nil
}

// resolveInterests maps interest names or hex ids to the ids of interests
// visible to the club. Unknown references are reported as invalid input.
func resolveInterests(ctx context.Context, db databases.InterestDatabase, clubID int, refs []string) ([]primitive.ObjectID, error) {
	ids := []primitive.ObjectID{}
	if len(refs) == 0 {
		return ids, nil
	}
	visible, err := db.Find(ctx, visibleInterests(clubID))
	if err != nil {
		return nil, err
	}
	var unknown []string
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		found := false
		for _, v := range visible {
			if v.ID.Hex() == ref || strings.EqualFold(v.Name, ref) {
				if !slices.Contains(ids, v.ID) {
					ids = append(ids, v.ID)
				}
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, ref)
		}
	}
	if len(unknown) > 0 {
		return nil, apperrors.InvalidInput("unknown interests: %s", strings.Join(unknown, ", "))
	}
	return ids, nil
}
