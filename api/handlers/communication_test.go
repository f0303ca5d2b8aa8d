package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/BaselBoulos/la-maison-privee/api/handlers"
	"github.com/BaselBoulos/la-maison-privee/apperrors"
	mocksdb "github.com/BaselBoulos/la-maison-privee/databases/mocks"
	"github.com/BaselBoulos/la-maison-privee/email"
	"github.com/BaselBoulos/la-maison-privee/models"
)

type recordingSender struct {
	mu     sync.Mutex
	sent   []email.Message
	failTo map[string]bool
}

func (s *recordingSender) Send(_ context.Context, msg email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTo[msg.ToEmail] {
		return errors.New("550 mailbox unavailable")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func newCommunication(sender email.Sender) (handlers.Communication, memberMocks, *mocksdb.ClubDatabase, *mocksdb.EmailRecordDatabase) {
	members, mm := newMemberHandler()
	cdb := &mocksdb.ClubDatabase{}
	rdb := &mocksdb.EmailRecordDatabase{}
	cdb.On("FindOne", mock.Anything, bson.M{"id": 2}).Return(&models.Club{ID: 2, Name: "Club Two", Theme: models.ClubTheme{Accent: "#123456"}}, nil)
	rdb.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)
	return handlers.Communication{Members: members, CDB: cdb, RDB: rdb, Sender: sender, Clock: members.Clock}, mm, cdb, rdb
}

func TestCommunication_EmailMemberHandler(t *testing.T) {
	sender := &recordingSender{}
	c, mm, _, rdb := newCommunication(sender)
	member := &models.Member{ID: primitive.NewObjectID(), Name: "Ada", Email: "ada@example.com", ClubID: 2}
	mm.members.On("FindOne", mock.Anything, bson.M{"_id": member.ID, "clubId": 2}).Return(member, nil)

	body := `{"memberId":"` + member.ID.Hex() + `","subject":"Welcome","body":"Hello <Ada>"}`
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.EmailMemberHandler).ServeHTTP(rr, eventRequest(t, "POST", "/api/communication/email/member", body, nil))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].HTML, "Club Two")
	assert.Contains(t, sender.sent[0].HTML, "#123456")
	assert.Contains(t, sender.sent[0].HTML, "Hello &lt;Ada&gt;")
	rdb.AssertCalled(t, "InsertOne", mock.Anything, mock.MatchedBy(func(r models.EmailRecord) bool {
		return r.Status == models.EmailStatusSent && r.MemberID == member.ID && r.SentAt.Equal(fixedNow)
	}))
}

func TestCommunication_EmailMemberHandlerSendFailure(t *testing.T) {
	sender := &recordingSender{failTo: map[string]bool{"ada@example.com": true}}
	c, mm, _, rdb := newCommunication(sender)
	member := &models.Member{ID: primitive.NewObjectID(), Name: "Ada", Email: "ada@example.com", ClubID: 2}
	mm.members.On("FindOne", mock.Anything, mock.Anything).Return(member, nil)

	body := `{"memberId":"` + member.ID.Hex() + `","subject":"Welcome","body":"Hello"}`
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.EmailMemberHandler).ServeHTTP(rr, eventRequest(t, "POST", "/", body, nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	rdb.AssertCalled(t, "InsertOne", mock.Anything, mock.MatchedBy(func(r models.EmailRecord) bool {
		return r.Status == models.EmailStatusFailed && r.Error != ""
	}))
}

func TestCommunication_EmailMemberHandlerUnknownMember(t *testing.T) {
	c, mm, _, _ := newCommunication(&recordingSender{})
	mm.members.On("FindOne", mock.Anything, mock.Anything).Return(nil, apperrors.NotFound("member not found"))

	body := `{"memberId":"` + primitive.NewObjectID().Hex() + `","subject":"Welcome","body":"Hello"}`
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.EmailMemberHandler).ServeHTTP(rr, eventRequest(t, "POST", "/", body, nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCommunication_EmailBulkHandler(t *testing.T) {
	ada := models.Member{ID: primitive.NewObjectID(), Name: "Ada", Email: "ada@example.com", ClubID: 2}
	bob := models.Member{ID: primitive.NewObjectID(), Name: "Bob", Email: "bob@example.com", ClubID: 2}
	missing := primitive.NewObjectID()

	sender := &recordingSender{failTo: map[string]bool{"bob@example.com": true}}
	c, mm, _, _ := newCommunication(sender)
	mm.members.On("Find", mock.Anything, mock.Anything).Return([]models.Member{ada, bob}, nil)

	body := `{"memberIds":["` + ada.ID.Hex() + `","` + bob.ID.Hex() + `","` + missing.Hex() + `","nope"],"subject":"News","body":"Hi"}`
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.EmailBulkHandler).ServeHTTP(rr, eventRequest(t, "POST", "/", body, nil))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var got models.EmailBatchResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 4, got.Total)
	assert.Equal(t, []string{ada.ID.Hex()}, got.Sent)
	assert.Equal(t, []string{bob.ID.Hex()}, got.Failed)
	assert.ElementsMatch(t, []string{"nope", missing.Hex()}, got.NotFound)
}

func TestCommunication_EmailFilteredHandler(t *testing.T) {
	ada := models.Member{ID: primitive.NewObjectID(), Name: "Ada", Email: "ada@example.com", ClubID: 2, City: "London"}
	sender := &recordingSender{}
	c, mm, _, _ := newCommunication(sender)
	mm.members.On("Find", mock.Anything, bson.M{
		"clubId": 2,
		"status": bson.M{"$in": []models.MemberStatus{models.MemberStatusActive}},
		"city":   bson.M{"$in": []string{"London"}},
	}).Return([]models.Member{ada}, nil)

	body := `{"subject":"News","body":"Hi","filters":{"status":["active"],"cities":["London"]}}`
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.EmailFilteredHandler).ServeHTTP(rr, eventRequest(t, "POST", "/", body, nil))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var got models.EmailBatchResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Total)
	assert.Len(t, sender.sent, 1)
}

func TestCommunication_EmailHistoryHandlerPaginates(t *testing.T) {
	c, _, _, rdb := newCommunication(&recordingSender{})
	rdb.On("Find", mock.Anything, bson.M{"clubId": 2}).Return([]models.EmailRecord{{Subject: "News"}}, nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.EmailHistoryHandler).ServeHTTP(rr, eventRequest(t, "GET", "/api/communication/email/history?page=2&limit=10", "", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var got []models.EmailRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 1)
}
