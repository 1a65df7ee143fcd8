package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/websocket"

	"github.com/glowdesk/salonbook/pkg/logging"
)

func dialHub(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live" + query
	conn, err := websocket.Dial(url, "", srv.URL)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func receiveEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	if err := websocket.JSON.Receive(conn, &ev); err != nil {
		t.Fatalf("receive: %v", err)
	}
	return ev
}

func waitForConnections(t *testing.T, hub *Hub, artistID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ConnectionCount(artistID) != want {
		if time.Now().After(deadline) {
			t.Fatalf("connections for %s = %d, want %d", artistID, hub.ConnectionCount(artistID), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_BroadcastRefresh(t *testing.T) {
	hub := NewHub(logging.New("error"))
	srv := newHubServer(hub)
	defer srv.Close()

	conn1 := dialHub(t, srv, "?artist=artist-1")
	conn2 := dialHub(t, srv, "?artist=artist-1")
	other := dialHub(t, srv, "?artist=artist-2")
	waitForConnections(t, hub, "artist-1", 2)
	waitForConnections(t, hub, "artist-2", 1)

	hub.BroadcastRefresh("artist-1")

	for _, conn := range []*websocket.Conn{conn1, conn2} {
		if ev := receiveEvent(t, conn); ev.Type != "bookings_updated" {
			t.Errorf("event = %q, want bookings_updated", ev.Type)
		}
	}

	// The other artist's connection stays quiet.
	other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	var ev Event
	if err := websocket.JSON.Receive(other, &ev); err == nil {
		t.Errorf("artist-2 received %q, want nothing", ev.Type)
	}
}

func TestHub_BroadcastWithNoConnections(t *testing.T) {
	hub := NewHub(logging.New("error"))
	hub.BroadcastRefresh("nobody-home")
}

func TestHub_PingPong(t *testing.T) {
	hub := NewHub(logging.New("error"))
	srv := newHubServer(hub)
	defer srv.Close()

	conn := dialHub(t, srv, "?artist=artist-1")
	waitForConnections(t, hub, "artist-1", 1)

	if err := websocket.JSON.Send(conn, Event{Type: "ping"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if ev := receiveEvent(t, conn); ev.Type != "pong" {
		t.Errorf("event = %q, want pong", ev.Type)
	}
}

func TestHub_MissingArtist(t *testing.T) {
	hub := NewHub(logging.New("error"))
	srv := newHubServer(hub)
	defer srv.Close()

	conn := dialHub(t, srv, "")
	if ev := receiveEvent(t, conn); ev.Type != "error" {
		t.Errorf("event = %q, want error", ev.Type)
	}
}

func TestHub_DisconnectDeregisters(t *testing.T) {
	hub := NewHub(logging.New("error"))
	srv := newHubServer(hub)
	defer srv.Close()

	conn := dialHub(t, srv, "?artist=artist-1")
	waitForConnections(t, hub, "artist-1", 1)

	conn.Close()
	waitForConnections(t, hub, "artist-1", 0)
}

func newHubServer(hub *Hub) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/live", hub.HandleWebSocket)
	return httptest.NewServer(mux)
}
