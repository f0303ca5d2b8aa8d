package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/BaselBoulos/la-maison-privee/api/handlers"
	mocksdb "github.com/BaselBoulos/la-maison-privee/databases/mocks"
	"github.com/BaselBoulos/la-maison-privee/models"
	"github.com/BaselBoulos/la-maison-privee/tenant"
)

var superAdmin = &tenant.Principal{AdminID: "s1", Email: "super@example.com", Role: tenant.RoleSuper}

func TestClub_ClubsHandlerScopesClubAdmins(t *testing.T) {
	db := &mocksdb.ClubDatabase{}
	db.On("Find", mock.Anything, bson.M{"id": bson.M{"$in": []int{2, 4}}}).Return([]models.Club{{ID: 2}, {ID: 4}}, nil)
	db.On("Find", mock.Anything, bson.M{}).Return([]models.Club{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}, nil)

	c := handlers.Club{DB: db}

	rr := httptest.NewRecorder()
	req := asPrincipal(eventRequest(t, "GET", "/api/clubs", "", nil), &tenant.Principal{Role: tenant.RoleClub, ClubID: 2, AllowedClubIDs: []int{2, 4}})
	http.HandlerFunc(c.ClubsHandler).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var got []models.Club
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 2)

	rr = httptest.NewRecorder()
	http.HandlerFunc(c.ClubsHandler).ServeHTTP(rr, asPrincipal(eventRequest(t, "GET", "/api/clubs", "", nil), superAdmin))
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 4)
}

func TestClub_CreateClubHandler(t *testing.T) {
	db := &mocksdb.ClubDatabase{}
	db.On("NextID", mock.Anything).Return(5, nil)
	db.On("InsertOne", mock.Anything, mock.MatchedBy(func(c models.Club) bool {
		return c.ID == 5 && c.Slug == "the-vault" && c.Locale == "en-GB" && c.Currency == "EUR"
	})).Return(nil)

	c := handlers.Club{DB: db}
	body := `{"name":"The Vault","slug":"The-Vault","currency":"eur","theme":{"accent":"#aa3300"}}`
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CreateClubHandler).ServeHTTP(rr, asPrincipal(eventRequest(t, "POST", "/api/clubs", body, nil), superAdmin))

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var got models.Club
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 5, got.ID)
	assert.Equal(t, "#aa3300", got.Theme.Accent)
	db.AssertExpectations(t)
}

func TestClub_CreateClubHandlerRejectsBadSlug(t *testing.T) {
	db := &mocksdb.ClubDatabase{}
	c := handlers.Club{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CreateClubHandler).ServeHTTP(rr, asPrincipal(eventRequest(t, "POST", "/api/clubs", `{"name":"X","slug":"no spaces"}`, nil), superAdmin))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	db.AssertNotCalled(t, "NextID", mock.Anything)
}

func TestClub_UpdateCurrentClubHandlerMergesTheme(t *testing.T) {
	db := &mocksdb.ClubDatabase{}
	db.On("FindOne", mock.Anything, bson.M{"id": 2}).Return(&models.Club{
		ID: 2, Name: "Club Two", Slug: "club-two",
		Theme: models.ClubTheme{Primary: "#111111", Accent: "#222222", Logo: "logo.png"},
	}, nil)
	db.On("UpdateOne", mock.Anything, bson.M{"id": 2}, mock.Anything).Return(nil)

	c := handlers.Club{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.UpdateCurrentClubHandler).ServeHTTP(rr, eventRequest(t, "PUT", "/api/clubs/current", `{"theme":{"accent":"#333333"}}`, nil))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var got models.Club
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, models.ClubTheme{Primary: "#111111", Accent: "#333333", Logo: "logo.png"}, got.Theme)
}

func TestClub_DeleteClubHandlerProtectsSeedClubs(t *testing.T) {
	db := &mocksdb.ClubDatabase{}
	db.On("DeleteOne", mock.Anything, bson.M{"id": 7}).Return(nil)
	c := handlers.Club{DB: db}

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.DeleteClubHandler).ServeHTTP(rr, eventRequest(t, "DELETE", "/", "", map[string]string{"id": "1"}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	http.HandlerFunc(c.DeleteClubHandler).ServeHTTP(rr, eventRequest(t, "DELETE", "/", "", map[string]string{"id": "7"}))
	assert.Equal(t, http.StatusOK, rr.Code)
	db.AssertNumberOfCalls(t, "DeleteOne", 1)
}
