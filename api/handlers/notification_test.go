package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaselBoulos/la-maison-privee/api/handlers"
)

func TestLive_BroadcastReachesSubscribedClub(t *testing.T) {
	hub := handlers.NewLiveHub()
	live := handlers.Live{Hub: hub}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		live.LiveEventsHandler(w, asPrincipal(r, clubAdmin))
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.Clients(2) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.Clients(3))

	hub.Broadcast(3, handlers.LiveEventUpdated, map[string]string{"title": "Other club"})
	hub.Broadcast(2, handlers.LiveEventUpdated, map[string]string{"title": "Cellar Night"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var msg struct {
		Event string            `json:"event"`
		Data  map[string]string `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, handlers.LiveEventUpdated, msg.Event)
	assert.Equal(t, "Cellar Night", msg.Data["title"])

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Clients(2) == 0 }, time.Second, 10*time.Millisecond)
}

func TestLive_BroadcastDoesNotWaitOnSlowClient(t *testing.T) {
	hub := handlers.NewLiveHub()
	live := handlers.Live{Hub: hub}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		live.LiveEventsHandler(w, asPrincipal(r, clubAdmin))
	}))
	defer srv.Close()

	// connected but never reads, so its socket buffers fill up
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Clients(2) == 1 }, time.Second, 10*time.Millisecond)

	payload := map[string]string{"notes": strings.Repeat("x", 64<<10)}
	start := time.Now()
	for i := 0; i < 400; i++ {
		hub.Broadcast(2, handlers.LiveEventUpdated, payload)
	}
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Eventually(t, func() bool { return hub.Clients(2) == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestLive_NilHubDropsMessages(t *testing.T) {
	var hub *handlers.LiveHub
	assert.NotPanics(t, func() { hub.Broadcast(2, handlers.LiveEventDeleted, nil) })
}
