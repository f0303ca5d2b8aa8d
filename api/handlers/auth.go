package handlers

import (
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BaselBoulos/la-maison-privee/api"
	"github.com/BaselBoulos/la-maison-privee/apperrors"
	"github.com/BaselBoulos/la-maison-privee/databases"
	"github.com/BaselBoulos/la-maison-privee/models"
	"github.com/BaselBoulos/la-maison-privee/tenant"
)

const minPasswordLength = 8

// Auth exported for testing purposes
type Auth struct {
	DB     databases.AdminDatabase
	Tokens *tenant.Tokens
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	ClubID         int    `json:"clubId"`
	AllowedClubIDs []int  `json:"allowedClubIds"`
}

// LoginHandler exchanges an email and password for an access token
func (a Auth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, apperrors.InvalidInput("email and password are required"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	admin, err := a.DB.FindOne(ctx, bson.M{"email": normalizeEmail(req.Email)})
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			err = apperrors.Unauthenticated("invalid credentials")
		}
		writeError(w, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, apperrors.Unauthenticated("invalid credentials"))
		return
	}

	token, err := a.Tokens.Issue(api.PrincipalOf(admin))
	if err != nil {
		writeError(w, err)
		return
	}
	zap.S().Infow("admin logged in", "adminId", admin.ID.Hex(), "role", admin.Role)
	writeJSON(w, http.StatusOK, models.AuthResponse{Token: token, Admin: *admin})
}

// RegisterHandler creates an admin account. Only super admins reach it.
func (a Auth) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		writeError(w, apperrors.InvalidInput("email, password and name are required"))
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, apperrors.InvalidInput("password must be at least %d characters", minPasswordLength))
		return
	}
	role := tenant.Role(req.Role)
	if req.Role == "" {
		role = tenant.RoleClub
	}
	if !role.IsValid() {
		writeError(w, apperrors.InvalidInput("invalid role %q, must be super or club", req.Role))
		return
	}
	if role == tenant.RoleClub && req.ClubID <= 0 && len(req.AllowedClubIDs) == 0 {
		writeError(w, apperrors.InvalidInput("club admins need a clubId or allowedClubIds"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, err)
		return
	}
	now := time.Now().UTC()
	admin := models.Admin{
		Email:          email,
		PasswordHash:   string(hash),
		Name:           strings.TrimSpace(req.Name),
		Role:           string(role),
		ClubID:         req.ClubID,
		AllowedClubIDs: req.AllowedClubIDs,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	admin.ID, err = a.DB.InsertOne(ctx, admin)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := a.Tokens.Issue(api.PrincipalOf(&admin))
	if err != nil {
		writeError(w, err)
		return
	}
	zap.S().Infow("admin registered", "adminId", admin.ID.Hex(), "role", admin.Role)
	writeJSON(w, http.StatusCreated, models.AuthResponse{Token: token, Admin: admin})
}

// VerifyHandler returns the admin behind the bearer token
func (a Auth) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	p := tenant.FromContext(r.Context())
	if p == nil {
		writeError(w, apperrors.Unauthenticated("no token provided"))
		return
	}
	id, err := primitive.ObjectIDFromHex(p.AdminID)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.KindUnauthenticated, err, "invalid token"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	admin, err := a.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			err = apperrors.Unauthenticated("admin no longer exists")
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"admin": admin})
}
