package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/beedatatech/teamflow/internal/app/domain/chat"
)

func dialHub(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	if err != nil {
		t.Fatalf("dial websocket: %v (response %v)", err, resp)
	}
	return conn
}

func TestHubConcurrentBroadcasts(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	ready := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Subscribe(w, r, 3)
		close(ready)
	}))
	defer ts.Close()

	conn := dialHub(t, ts.URL)
	defer conn.Close()
	<-ready

	const writers, perWriter = 16, 10
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				hub.Broadcast(&chat.Message{
					ID:        int64(n*perWriter + j),
					ProjectID: 3,
					Message:   "ping",
				})
			}
		}(i)
	}
	wg.Wait()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for received := 0; received < writers*perWriter; received++ {
		if _, _, err := conn.ReadMessage(); err != nil {
			t.Fatalf("read message %d of %d: %v", received+1, writers*perWriter, err)
		}
	}
}

func TestHubBroadcastSkipsOtherRooms(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	ready := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Subscribe(w, r, 7)
		close(ready)
	}))
	defer ts.Close()

	conn := dialHub(t, ts.URL)
	defer conn.Close()
	<-ready

	hub.Broadcast(&chat.Message{ID: 1, ProjectID: 99, Message: "elsewhere"})
	hub.Broadcast(&chat.Message{ID: 2, ProjectID: 7, Message: "here"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if !strings.Contains(string(payload), `"here"`) {
		t.Fatalf("received message from the wrong room: %s", payload)
	}
}

func TestHubCloseAnnouncesShutdown(t *testing.T) {
	hub := NewHub(nil)

	ready := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Subscribe(w, r, 1)
		close(ready)
	}))
	defer ts.Close()

	conn := dialHub(t, ts.URL)
	defer conn.Close()
	<-ready

	hub.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	closeErr, ok := err.(*websocket.CloseError)
	if !ok || closeErr.Code != websocket.CloseGoingAway {
		t.Fatalf("expected going-away close, got %v", err)
	}

	// Broadcast after shutdown returns without blocking.
	hub.Broadcast(&chat.Message{ID: 3, ProjectID: 1, Message: "late"})
}
