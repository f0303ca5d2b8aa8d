package email

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendGridSend(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewSendGrid("key", "club@example.com", "Club")
	s.host = srv.URL

	err := s.Send(context.Background(), Message{ToEmail: "m@example.com", ToName: "M", Subject: "Hello", PlainText: "hi", HTML: "<p>hi</p>"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", got["subject"])
}

func TestSendGridSendRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"message":"bad"}]}`))
	}))
	defer srv.Close()

	s := NewSendGrid("key", "club@example.com", "Club")
	s.host = srv.URL

	err := s.Send(context.Background(), Message{ToEmail: "m@example.com", Subject: "Hello", PlainText: "hi"})
	assert.ErrorContains(t, err, "status 400")
}

func TestNewFallsBackToLogSender(t *testing.T) {
	assert.IsType(t, LogSender{}, New("", "a@b.c", "A"))
	assert.IsType(t, &SendGrid{}, New("key", "a@b.c", "A"))
	assert.NoError(t, LogSender{}.Send(context.Background(), Message{ToEmail: "m@example.com"}))
}
