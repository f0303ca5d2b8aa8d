package handlers

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/BaselBoulos/la-maison-privee/api"
	"github.com/BaselBoulos/la-maison-privee/apperrors"
	"github.com/BaselBoulos/la-maison-privee/databases"
	"github.com/BaselBoulos/la-maison-privee/models"
	"github.com/BaselBoulos/la-maison-privee/tenant"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Club exported for testing purposes
type Club struct {
	Scope
	DB databases.ClubDatabase
}

type themeRequest struct {
	Primary *string `json:"primary"`
	Accent  *string `json:"accent"`
	Logo    *string `json:"logo"`
}

type clubRequest struct {
	Name     *string       `json:"name"`
	Slug     *string       `json:"slug"`
	Theme    *themeRequest `json:"theme"`
	Locale   *string       `json:"locale"`
	Currency *string       `json:"currency"`
}

var byClubID = options.Find().SetSort(bson.D{{Key: "id", Value: 1}})

// ClubsHandler lists every club for super admins and the granted clubs for
// club admins
func (c Club) ClubsHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if p := tenant.FromContext(r.Context()); p == nil || p.Role != tenant.RoleSuper {
		allowed := []int{c.clubID(r)}
		if p != nil && len(p.Allowed()) > 0 {
			allowed = p.Allowed()
		}
		filter["id"] = bson.M{"$in": allowed}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	clubs, err := c.DB.Find(ctx, filter, byClubID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clubs)
}

// CurrentClubHandler returns the resolved club
func (c Club) CurrentClubHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	club, err := c.DB.FindOne(ctx, bson.M{"id": c.clubID(r)})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, club)
}

// CreateClubHandler adds a tenant under the next free numeric id
func (c Club) CreateClubHandler(w http.ResponseWriter, r *http.Request) {
	var req clubRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" || req.Slug == nil {
		writeError(w, apperrors.InvalidInput("name and slug are required"))
		return
	}

	now := time.Now().UTC()
	club := models.Club{Locale: "en-GB", Currency: "GBP", CreatedAt: now, UpdatedAt: now}
	if err := applyClub(&club, req); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	id, err := c.DB.NextID(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	club.ID = id
	if err := c.DB.InsertOne(ctx, club); err != nil {
		writeError(w, err)
		return
	}
	zap.S().Infow("club created", "clubId", club.ID, "slug", club.Slug)
	writeJSON(w, http.StatusCreated, club)
}

// UpdateCurrentClubHandler changes the resolved club. Theme fields are merged
// into the existing theme.
func (c Club) UpdateCurrentClubHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := c.mutationClubID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req clubRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	club, err := c.DB.FindOne(ctx, bson.M{"id": clubID})
	if err != nil {
		writeError(w, err)
		return
	}
	if err := applyClub(club, req); err != nil {
		writeError(w, err)
		return
	}
	club.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"name":      club.Name,
		"slug":      club.Slug,
		"theme":     club.Theme,
		"locale":    club.Locale,
		"currency":  club.Currency,
		"updatedAt": club.UpdatedAt,
	}}
	if err := c.DB.UpdateOne(ctx, bson.M{"id": clubID}, update); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, club)
}

// DeleteClubHandler removes a club. Seed clubs can't be deleted.
func (c Club) DeleteClubHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		writeError(w, apperrors.InvalidInput("invalid club id %q", mux.Vars(r)["id"]))
		return
	}
	if (models.Club{ID: id}).IsSeed() {
		writeError(w, apperrors.InvalidInput("seed clubs cannot be deleted"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := c.DB.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		writeError(w, err)
		return
	}
	zap.S().Infow("club deleted", "clubId", id)
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "club deleted"})
}

func applyClub(club *models.Club, req clubRequest) error {
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		club.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		slug := strings.ToLower(strings.TrimSpace(*req.Slug))
		if !slugPattern.MatchString(slug) {
			return apperrors.InvalidInput("invalid slug %q", *req.Slug)
		}
		club.Slug = slug
	}
	if req.Theme != nil {
		if req.Theme.Primary != nil {
			club.Theme.Primary = *req.Theme.Primary
		}
		if req.Theme.Accent != nil {
			club.Theme.Accent = *req.Theme.Accent
		}
		if req.Theme.Logo != nil {
			club.Theme.Logo = *req.Theme.Logo
		}
	}
	if req.Locale != nil && *req.Locale != "" {
		club.Locale = *req.Locale
	}
	if req.Currency != nil && *req.Currency != "" {
		club.Currency = strings.ToUpper(*req.Currency)
	}
	return nil
}
