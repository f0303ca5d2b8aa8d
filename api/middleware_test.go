package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/BaselBoulos/la-maison-privee/apperrors"
	mocksdb "github.com/BaselBoulos/la-maison-privee/databases/mocks"
	"github.com/BaselBoulos/la-maison-privee/models"
	"github.com/BaselBoulos/la-maison-privee/tenant"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAuthMiddleware(t *testing.T) {
	tokens := tenant.NewTokens("test-secret", time.Hour)
	a := Auth{Tokens: tokens}

	var seen *tenant.Principal
	h := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = tenant.FromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/members", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req.Header.Set("Authorization", "Bearer not-a-token")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Nil(t, seen)

	raw, err := tokens.Issue(tenant.Principal{AdminID: "a1", Email: "club@example.com", Role: tenant.RoleClub, ClubID: 3})
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+raw)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, seen)
	assert.Equal(t, 3, seen.ClubID)
	assert.Equal(t, tenant.RoleClub, seen.Role)
}

func TestAuthOptional(t *testing.T) {
	a := Auth{Tokens: tenant.NewTokens("test-secret", time.Hour)}
	called := false
	h := a.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, tenant.FromContext(r.Context()))
	}))

	req := httptest.NewRequest("GET", "/api/interests/all", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, called)
}

func TestRequireSuper(t *testing.T) {
	h := RequireSuper(okHandler)

	req := httptest.NewRequest("GET", "/api/clubs", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req.WithContext(tenant.WithPrincipal(req.Context(), &tenant.Principal{Role: tenant.RoleClub, ClubID: 1})))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req.WithContext(tenant.WithPrincipal(req.Context(), &tenant.Principal{Role: tenant.RoleSuper})))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://admin.example.com"})(okHandler)

	req := httptest.NewRequest("OPTIONS", "/api/members", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://admin.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), tenant.HeaderClubID)

	req = httptest.NewRequest("GET", "/api/members", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter(t *testing.T) {
	h := NewRateLimiter(time.Hour, 2).Middleware(okHandler)

	send := func(ip string) int {
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.7"))
	assert.Equal(t, http.StatusOK, send("203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.7"))
	assert.Equal(t, http.StatusOK, send("198.51.100.2"))
}

func TestBasicAuth_CreateToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &models.Admin{
		ID:           primitive.NewObjectID(),
		Email:        "super@example.com",
		PasswordHash: string(hash),
		Role:         string(tenant.RoleSuper),
	}

	db := &mocksdb.AdminDatabase{}
	db.On("FindOne", mock.Anything, bson.M{"email": "super@example.com"}).Return(admin, nil)
	db.On("FindOne", mock.Anything, mock.Anything).Return(nil, apperrors.NotFound("admin not found"))

	tokens := tenant.NewTokens("test-secret", time.Hour)
	b := NewBasicAuth(db, tokens)

	req := httptest.NewRequest("POST", "/api/auth/token", nil)
	req.SetBasicAuth("Super@Example.com", "correct horse")
	rr := httptest.NewRecorder()
	b.CreateToken(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var got models.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	p, err := tokens.Parse(got.Token)
	require.NoError(t, err)
	assert.Equal(t, tenant.RoleSuper, p.Role)
	assert.Equal(t, admin.ID.Hex(), p.AdminID)

	req = httptest.NewRequest("POST", "/api/auth/token", nil)
	req.SetBasicAuth("super@example.com", "wrong")
	rr = httptest.NewRecorder()
	b.CreateToken(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	b.CreateToken(rr, httptest.NewRequest("POST", "/api/auth/token", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestTimeoutMiddleware(t *testing.T) {
	finished := make(chan struct{})
	slow := TimeoutMiddleware(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(finished)
		time.Sleep(200 * time.Millisecond)
		w.Header().Set("X-Late", "1")
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("late"))
		assert.ErrorIs(t, err, http.ErrHandlerTimeout)
	}))
	rr := httptest.NewRecorder()
	slow.ServeHTTP(rr, httptest.NewRequest("GET", "/api/events", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "request timeout")

	<-finished
	assert.Empty(t, rr.Header().Get("X-Late"))
	assert.NotContains(t, rr.Body.String(), "late")

	fast := TimeoutMiddleware(time.Second)(okHandler)
	rr = httptest.NewRecorder()
	fast.ServeHTTP(rr, httptest.NewRequest("GET", "/api/events", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestTimeoutMiddlewareForwardsBufferedResponse(t *testing.T) {
	h := TimeoutMiddleware(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"e1"}`))
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/api/events", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"e1"}`, rr.Body.String())
}
