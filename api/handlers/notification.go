package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// Live update kinds pushed to connected admins
const (
	LiveEventUpdated = "event_updated"
	LiveEventDeleted = "event_deleted"
)

// WebSocket upgrader. Origins are already checked by the CORS middleware.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// sendQueue is how many messages a slow client may lag behind before it is
// dropped
const sendQueue = 16

// liveClient is one websocket subscribed to a club. Only its writer
// goroutine writes to conn.
type liveClient struct {
	conn   *websocket.Conn
	clubID int
	send   chan interface{}
}

// LiveHub tracks connected admins per club
type LiveHub struct {
	mutex   sync.Mutex
	clients map[*liveClient]struct{}
}

// NewLiveHub returns an empty hub
func NewLiveHub() *LiveHub {
	return &LiveHub{clients: make(map[*liveClient]struct{})}
}

func (h *LiveHub) add(conn *websocket.Conn, clubID int) *liveClient {
	c := &liveClient{conn: conn, clubID: clubID, send: make(chan interface{}, sendQueue)}
	h.mutex.Lock()
	h.clients[c] = struct{}{}
	h.mutex.Unlock()
	go h.write(c)
	return c
}

func (h *LiveHub) remove(c *liveClient) {
	h.mutex.Lock()
	h.drop(c)
	h.mutex.Unlock()
}

// drop must be called with the mutex held
func (h *LiveHub) drop(c *liveClient) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	c.conn.Close()
}

func (h *LiveHub) write(c *liveClient) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			zap.S().Debugw("dropping live client", "clubId", c.clubID, "error", err)
			h.remove(c)
			return
		}
	}
}

// Broadcast queues data for every connection subscribed to clubID without
// waiting on the network. Clients whose queue is full are dropped. A nil hub
// drops the message.
func (h *LiveHub) Broadcast(clubID int, kind string, data interface{}) {
	if h == nil {
		return
	}
	msg := map[string]interface{}{
		"event": kind,
		"data":  data,
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for c := range h.clients {
		if c.clubID != clubID {
			continue
		}
		select {
		case c.send <- msg:
		default:
			zap.S().Debugw("dropping slow live client", "clubId", clubID)
			h.drop(c)
		}
	}
}

// Clients returns the number of connections subscribed to clubID
func (h *LiveHub) Clients(clubID int) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	n := 0
	for c := range h.clients {
		if c.clubID == clubID {
			n++
		}
	}
	return n
}

// Live exported for testing purposes
type Live struct {
	Scope
	Hub *LiveHub
}

// LiveEventsHandler upgrades to a websocket that receives the resolved club's
// event changes
func (l Live) LiveEventsHandler(w http.ResponseWriter, r *http.Request) {
	clubID := l.clubID(r)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Debugw("websocket upgrade failed", "error", err)
		return
	}
	client := l.Hub.add(conn, clubID)
	zap.S().Debugw("live client connected", "clubId", clubID)

	// drain until the client goes away
	for {
		if _, _, err := conn.NextReader(); err != nil {
			l.Hub.remove(client)
			zap.S().Debugw("live client disconnected", "clubId", clubID)
			return
		}
	}
}
