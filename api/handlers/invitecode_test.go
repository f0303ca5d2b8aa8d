package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/BaselBoulos/la-maison-privee/api/handlers"
	"github.com/BaselBoulos/la-maison-privee/apperrors"
	mocksdb "github.com/BaselBoulos/la-maison-privee/databases/mocks"
	"github.com/BaselBoulos/la-maison-privee/invitation"
	"github.com/BaselBoulos/la-maison-privee/models"
)

var fixedNow = time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)

func verify(t *testing.T, db *mocksdb.InvitationCodeDatabase, body string) (*httptest.ResponseRecorder, models.InvitationCodeVerification) {
	t.Helper()
	c := handlers.InvitationCode{DB: db, Clock: func() time.Time { return fixedNow }}
	req, err := http.NewRequest("POST", "/api/invitation-codes/verify", strings.NewReader(body))
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.VerifyInvitationCodeHandler).ServeHTTP(rr, req)

	var got models.InvitationCodeVerification
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	return rr, got
}

func TestInvitationCode_VerifyValid(t *testing.T) {
	db := &mocksdb.InvitationCodeDatabase{}
	db.On("FindOne", mock.Anything, bson.M{"code": "LMP-ABCDE"}).
		Return(&models.InvitationCode{Code: "LMP-ABCDE", Status: models.CodeStatusUnused, ClubID: 1}, nil)

	rr, got := verify(t, db, `{"code":" lmp-abcde "}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, got.Valid)
	require.NotNil(t, got.Code)
	assert.Equal(t, "LMP-ABCDE", got.Code.Code)
}

func TestInvitationCode_VerifyUnknown(t *testing.T) {
	db := &mocksdb.InvitationCodeDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(nil, apperrors.NotFound("invitation code not found"))

	rr, got := verify(t, db, `{"code":"LMP-ZZZZZ"}`)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.False(t, got.Valid)
}

func TestInvitationCode_VerifyUsedOrExpired(t *testing.T) {
	past := fixedNow.Add(-time.Hour)
	tests := []struct {
		name    string
		code    models.InvitationCode
		message string
	}{
		{"used", models.InvitationCode{Code: "LMP-AAAAA", Status: models.CodeStatusUsed}, "already been used"},
		{"expired", models.InvitationCode{Code: "LMP-BBBBB", Status: models.CodeStatusUnused, ExpiresAt: &past}, "expired"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &mocksdb.InvitationCodeDatabase{}
			code := tt.code
			db.On("FindOne", mock.Anything, mock.Anything).Return(&code, nil)

			rr, got := verify(t, db, `{"code":"`+code.Code+`"}`)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.False(t, got.Valid)
			assert.Contains(t, got.Message, tt.message)
		})
	}
}

func TestInvitationCode_VerifyRequiresCode(t *testing.T) {
	db := &mocksdb.InvitationCodeDatabase{}
	rr, _ := verify(t, db, `{"code":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	db.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
}

func TestInvitationCode_GenerateInvitationCodesHandler(t *testing.T) {
	db := &mocksdb.InvitationCodeDatabase{}
	db.On("InsertOne", mock.Anything, mock.MatchedBy(func(c models.InvitationCode) bool {
		return c.ClubID == 2 && c.Status == models.CodeStatusUnused && c.ExpiresAt != nil
	})).Return(primitive.NilObjectID, apperrors.Conflict("invitation code already exists")).Once()
	db.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)

	c := handlers.InvitationCode{DB: db, Prefix: "LMP", Clock: func() time.Time { return fixedNow }}
	rr := httptest.NewRecorder()
	req := eventRequest(t, "POST", "/api/invitation-codes/generate", `{"count":3,"expiresInDays":7}`, nil)
	http.HandlerFunc(c.GenerateInvitationCodesHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var got []models.InvitationCode
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 3)
	for _, code := range got {
		assert.True(t, invitation.Valid(code.Code), code.Code)
		assert.True(t, strings.HasPrefix(code.Code, "LMP-"))
		require.NotNil(t, code.ExpiresAt)
		assert.True(t, code.ExpiresAt.Equal(fixedNow.AddDate(0, 0, 7)))
	}
	db.AssertNumberOfCalls(t, "InsertOne", 4)
}

func TestInvitationCode_GenerateRejectsBadCount(t *testing.T) {
	for _, body := range []string{`{"count":0}`, `{"count":101}`, `{"count":2,"expiresInDays":-1}`} {
		db := &mocksdb.InvitationCodeDatabase{}
		c := handlers.InvitationCode{DB: db, Prefix: "LMP"}
		rr := httptest.NewRecorder()
		http.HandlerFunc(c.GenerateInvitationCodesHandler).ServeHTTP(rr, eventRequest(t, "POST", "/", body, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		db.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
	}
}

func TestInvitationCode_RevokeUsedCode(t *testing.T) {
	id := primitive.NewObjectID()
	db := &mocksdb.InvitationCodeDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(&models.InvitationCode{ID: id, Code: "LMP-AAAAA", Status: models.CodeStatusUsed, ClubID: 2}, nil)

	c := handlers.InvitationCode{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.RevokeInvitationCodeHandler).ServeHTTP(rr, eventRequest(t, "DELETE", "/", "", map[string]string{"id": id.Hex()}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	db.AssertNotCalled(t, "DeleteOne", mock.Anything, mock.Anything)
}

func TestInvitationCode_InvitationCodesHandlerRejectsBadStatus(t *testing.T) {
	c := handlers.InvitationCode{DB: &mocksdb.InvitationCodeDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.InvitationCodesHandler).ServeHTTP(rr, eventRequest(t, "GET", "/api/invitation-codes?status=lost", "", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
