// Package live pushes refresh signals to connected calendar clients over
// WebSocket. Clients refetch on signal; no booking data travels on the wire.
package live

import (
	"net/http"
	"sync"

	"golang.org/x/net/websocket"

	"github.com/glowdesk/salonbook/pkg/logging"
)

// Event is what the hub sends to connected clients.
type Event struct {
	Type string `json:"type"` // "bookings_updated", "pong", "error"
}

// Hub manages WebSocket connections per artist and broadcasts refresh
// signals to all of an artist's open calendars.
type Hub struct {
	logger *logging.Logger

	mu    sync.RWMutex
	conns map[string]map[*wsConn]struct{} // artistID -> open connections
}

type wsConn struct {
	conn *websocket.Conn
}

// NewHub creates an empty hub.
func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		logger: logger,
		conns:  make(map[string]map[*wsConn]struct{}),
	}
}

// HandleWebSocket upgrades to WebSocket and keeps the connection registered
// until the client goes away. The artist is identified by the "artist"
// query parameter.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Hub) serveWS(conn *websocket.Conn, r *http.Request) {
	artistID := r.URL.Query().Get("artist")
	if artistID == "" {
		_ = websocket.JSON.Send(conn, Event{Type: "error"})
		return
	}

	wsc := &wsConn{conn: conn}
	h.mu.Lock()
	if h.conns[artistID] == nil {
		h.conns[artistID] = make(map[*wsConn]struct{})
	}
	h.conns[artistID][wsc] = struct{}{}
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.conns[artistID], wsc)
		if len(h.conns[artistID]) == 0 {
			delete(h.conns, artistID)
		}
		h.mu.Unlock()
	}()

	h.logger.Info("live: connection opened", "artist_id", artistID)

	for {
		var msg Event
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("live: connection closed", "artist_id", artistID, "error", err)
			return
		}
		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, Event{Type: "pong"})
		}
	}
}

// BroadcastRefresh tells every open calendar for the artist to refetch its
// bookings. Safe to call with no connections open.
func (h *Hub) BroadcastRefresh(artistID string) {
	h.mu.RLock()
	targets := make([]*wsConn, 0, len(h.conns[artistID]))
	for wsc := range h.conns[artistID] {
		targets = append(targets, wsc)
	}
	h.mu.RUnlock()

	for _, wsc := range targets {
		if err := websocket.JSON.Send(wsc.conn, Event{Type: "bookings_updated"}); err != nil {
			h.logger.Debug("live: broadcast failed", "artist_id", artistID, "error", err)
		}
	}
}

// ConnectionCount reports open connections for an artist.
func (h *Hub) ConnectionCount(artistID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[artistID])
}
