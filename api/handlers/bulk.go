package handlers

import (
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/BaselBoulos/la-maison-privee/api"
	"github.com/BaselBoulos/la-maison-privee/apperrors"
	"github.com/BaselBoulos/la-maison-privee/databases"
)

// Bulk exported for testing purposes
type Bulk struct {
	Scope
	DB  databases.MemberDatabase
	EDB databases.EventDatabase
	IDB databases.InterestDatabase
}

type bulkRequest struct {
	MemberIDs []string `json:"memberIds"`
	Status    string   `json:"status"`
	Interests []string `json:"interests"`
}

type bulkResult struct {
	Success  bool     `json:"success"`
	Updated  int64    `json:"updated"`
	NotFound []string `json:"notFound,omitempty"`
}

// bulkTarget is a validated bulk request: the club, the parsed ids and the
// ids that didn't parse
type bulkTarget struct {
	clubID  int
	ids     []primitive.ObjectID
	invalid []string
	req     bulkRequest
}

func (b Bulk) target(w http.ResponseWriter, r *http.Request) (*bulkTarget, bool) {
	clubID, err := b.mutationClubID(r)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	var req bulkRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return nil, false
	}
	if req.MemberIDs == nil {
		writeError(w, apperrors.InvalidInput("memberIds must be an array"))
		return nil, false
	}
	ids, invalid := objectIDs(req.MemberIDs)
	return &bulkTarget{clubID: clubID, ids: ids, invalid: invalid, req: req}, true
}

func (t *bulkTarget) filter() bson.M {
	return bson.M{"_id": bson.M{"$in": t.ids}, "clubId": t.clubID}
}

// BulkStatusHandler sets the status of many members
func (b Bulk) BulkStatusHandler(w http.ResponseWriter, r *http.Request) {
	t, ok := b.target(w, r)
	if !ok {
		return
	}
	status, err := parseMemberStatus(t.req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	b.update(w, r, t, bson.M{"$set": bson.M{"status": status}})
}

// BulkAssignInterestsHandler adds interests to many members
func (b Bulk) BulkAssignInterestsHandler(w http.ResponseWriter, r *http.Request) {
	b.interests(w, r, "$addToSet")
}

// BulkRemoveInterestsHandler removes interests from many members
func (b Bulk) BulkRemoveInterestsHandler(w http.ResponseWriter, r *http.Request) {
	b.interests(w, r, "$pull")
}

func (b Bulk) interests(w http.ResponseWriter, r *http.Request, op string) {
	t, ok := b.target(w, r)
	if !ok {
		return
	}
	if len(t.req.Interests) == 0 {
		writeError(w, apperrors.InvalidInput("interests must be a non-empty array"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	ids, err := resolveInterests(ctx, b.IDB, t.clubID, t.req.Interests)
	cancel()
	if err != nil {
		writeError(w, err)
		return
	}

	var update bson.M
	if op == "$addToSet" {
		update = bson.M{"$addToSet": bson.M{"interests": bson.M{"$each": ids}}}
	} else {
		update = bson.M{"$pull": bson.M{"interests": bson.M{"$in": ids}}}
	}
	b.update(w, r, t, update)
}

func (b Bulk) update(w http.ResponseWriter, r *http.Request, t *bulkTarget, update bson.M) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	notFound, err := b.missing(r, t)
	if err != nil {
		writeError(w, err)
		return
	}
	n, err := b.DB.UpdateMany(ctx, t.filter(), update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bulkResult{Success: true, Updated: n, NotFound: notFound})
}

// BulkDeleteHandler deletes many members and drops them from events
func (b Bulk) BulkDeleteHandler(w http.ResponseWriter, r *http.Request) {
	t, ok := b.target(w, r)
	if !ok {
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	notFound, err := b.missing(r, t)
	if err != nil {
		writeError(w, err)
		return
	}
	n, err := b.DB.DeleteMany(ctx, t.filter())
	if err != nil {
		writeError(w, err)
		return
	}
	if n > 0 {
		if _, err := b.EDB.UpdateMany(ctx, bson.M{"clubId": t.clubID}, pullMembers(t.ids)); err != nil {
			writeError(w, apperrors.Wrap(apperrors.KindInternal, err, fmt.Sprintf("%d member(s) deleted but events still reference them", n)))
			return
		}
	}
	zap.S().Infow("members deleted", "clubId", t.clubID, "count", n)
	writeJSON(w, http.StatusOK, bulkResult{Success: true, Updated: n, NotFound: notFound})
}

// missing lists the requested ids that are not members of the club
func (b Bulk) missing(r *http.Request, t *bulkTarget) ([]string, error) {
	notFound := append([]string{}, t.invalid...)
	if len(t.ids) == 0 {
		return notFound, nil
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	members, err := b.DB.Find(ctx, t.filter())
	if err != nil {
		return nil, err
	}
	found := make(map[primitive.ObjectID]bool, len(members))
	for _, m := range members {
		found[m.ID] = true
	}
	for _, id := range t.ids {
		if !found[id] {
			notFound = append(notFound, id.Hex())
		}
	}
	return notFound, nil
}
