package api

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/basic"
	"github.com/shaj13/go-guardian/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BaselBoulos/la-maison-privee/apperrors"
	"github.com/BaselBoulos/la-maison-privee/config"
	"github.com/BaselBoulos/la-maison-privee/databases"
	"github.com/BaselBoulos/la-maison-privee/models"
	"github.com/BaselBoulos/la-maison-privee/tenant"
)

// Auth guards routes with bearer access tokens
type Auth struct {
	Tokens *tenant.Tokens
}

// Middleware rejects requests without a valid bearer token and stores the
// principal in the request context
func (a Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		raw, ok := tenant.BearerToken(r)
		if !ok {
			config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, errors.New("missing bearer token"))
			return
		}
		p, err := a.Tokens.Parse(raw)
		if err != nil {
			zap.S().Debugw("unauthorized", "url", r.URL.Path, "error", err)
			config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(tenant.WithPrincipal(r.Context(), p)))
	})
}

// Optional attaches the principal when the request carries a valid token and
// lets the request through either way
func (a Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if p := a.Tokens.FromRequest(r); p != nil {
			r = r.WithContext(tenant.WithPrincipal(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSuper only lets super admins through. It must run after Middleware.
func RequireSuper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := tenant.FromContext(r.Context())
		if p == nil || p.Role != tenant.RoleSuper {
			config.ErrorStatus("forbidden", http.StatusForbidden, w, errors.New("super admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// BasicAuth exchanges HTTP Basic credentials for an access token
type BasicAuth struct {
	DB            databases.AdminDatabase
	Tokens        *tenant.Tokens
	authenticator auth.Authenticator
}

// NewBasicAuth sets up the go-guardian basic strategy backed by the admins collection
func NewBasicAuth(db databases.AdminDatabase, tokens *tenant.Tokens) *BasicAuth {
	b := &BasicAuth{DB: db, Tokens: tokens}
	cache := store.NewFIFO(context.Background(), 10*time.Minute)
	b.authenticator = auth.New()
	b.authenticator.EnableStrategy(basic.StrategyKey, basic.New(b.ValidateAdmin, cache))
	return b
}

// ValidateAdmin checks an email and password against the stored bcrypt hash
func (b *BasicAuth) ValidateAdmin(ctx context.Context, r *http.Request, email, password string) (auth.Info, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	admin, err := b.DB.FindOne(ctx, bson.M{"email": email})
	if err != nil {
		return nil, apperrors.Unauthenticated("invalid credentials")
	}

	emailHash := sha256.Sum256([]byte(email))
	expectedHash := sha256.Sum256([]byte(admin.Email))
	if subtle.ConstantTimeCompare(emailHash[:], expectedHash[:]) != 1 {
		return nil, apperrors.Unauthenticated("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Unauthenticated("invalid credentials")
	}
	return auth.NewDefaultUser(admin.Email, admin.ID.Hex(), []string{admin.Role}, nil), nil
}

// CreateToken returns an access token for valid basic credentials
func (b *BasicAuth) CreateToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, _, ok := r.BasicAuth(); !ok {
		config.ErrorStatus("basic auth failed", http.StatusUnauthorized, w, errors.New("missing basic credentials"))
		return
	}
	info, err := b.authenticator.Authenticate(r)
	if err != nil {
		config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, err)
		return
	}

	ctx, cancel := WithQueryTimeout(r.Context())
	defer cancel()

	admin, err := b.DB.FindOne(ctx, bson.M{"email": info.UserName()})
	if err != nil {
		config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, err)
		return
	}
	token, err := b.Tokens.Issue(PrincipalOf(admin))
	if err != nil {
		config.ErrorStatus("failed to issue token", http.StatusInternalServerError, w, err)
		return
	}

	b2, err := json.Marshal(models.AuthResponse{Token: token, Admin: *admin})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b2)
}

// PrincipalOf builds the token principal of an admin
func PrincipalOf(a *models.Admin) tenant.Principal {
	return tenant.Principal{
		AdminID:        a.ID.Hex(),
		Email:          a.Email,
		Role:           tenant.Role(a.Role),
		ClubID:         a.ClubID,
		AllowedClubIDs: a.AllowedClubIDs,
	}
}

// CORS answers preflight requests and allows the configured origins
func CORS(origins []string) func(http.Handler) http.Handler {
	allowAll := len(origins) == 0
	allowed := map[string]bool{}
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || allowed[origin]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+tenant.HeaderClubID)
				w.Header().Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
