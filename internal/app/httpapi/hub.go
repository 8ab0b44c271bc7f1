package httpapi

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/beedatatech/teamflow/internal/app/domain/chat"
	"github.com/beedatatech/teamflow/internal/app/metrics"
	"github.com/beedatatech/teamflow/pkg/logger"
)

// Subscriber send buffer; a room member that falls this far behind is
// disconnected rather than allowed to stall fanout.
const subscriberBuffer = 256

type subscriber struct {
	projectID int64
	conn      *websocket.Conn
	send      chan []byte
}

type outbound struct {
	projectID int64
	payload   []byte
}

// Hub fans chat messages out to WebSocket subscribers grouped by project.
// Room membership and fanout are owned by a single goroutine; each
// connection writes from exactly one writer goroutine.
type Hub struct {
	log      *logger.Logger
	upgrader websocket.Upgrader

	register   chan *subscriber
	unregister chan *subscriber
	broadcast  chan outbound

	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewHub creates a hub and starts its room goroutine.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.NewDefault("chat-hub")
	}
	h := &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect cross origin from the web app.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		register:   make(chan *subscriber),
		unregister: make(chan *subscriber),
		broadcast:  make(chan outbound),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	rooms := make(map[int64]map[*subscriber]bool)
	defer close(h.done)

	drop := func(sub *subscriber) {
		room, ok := rooms[sub.projectID]
		if !ok || !room[sub] {
			return
		}
		delete(room, sub)
		if len(room) == 0 {
			delete(rooms, sub.projectID)
		}
		close(sub.send)
		metrics.WebSocketClosed()
	}

	for {
		select {
		case sub := <-h.register:
			room, ok := rooms[sub.projectID]
			if !ok {
				room = make(map[*subscriber]bool)
				rooms[sub.projectID] = room
			}
			room[sub] = true
			metrics.WebSocketOpened()
			h.log.WithField("project_id", sub.projectID).Debug("chat subscriber connected")

		case sub := <-h.unregister:
			drop(sub)

		case msg := <-h.broadcast:
			for sub := range rooms[msg.projectID] {
				select {
				case sub.send <- msg.payload:
				default:
					drop(sub)
				}
			}

		case <-h.quit:
			for _, room := range rooms {
				for sub := range room {
					close(sub.send)
					metrics.WebSocketClosed()
				}
			}
			return
		}
	}
}

// Subscribe upgrades the request and keeps the connection in the project's
// room until the peer goes away. Registration completes before it returns.
func (h *Hub) Subscribe(w http.ResponseWriter, r *http.Request, projectID int64) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	sub := &subscriber{
		projectID: projectID,
		conn:      conn,
		send:      make(chan []byte, subscriberBuffer),
	}
	select {
	case h.register <- sub:
	case <-h.done:
		conn.Close()
		return
	}

	go sub.writeLoop()
	go sub.readLoop(h)
}

// writeLoop is the connection's only writer. It exits when the hub closes
// the send channel, announcing shutdown to the peer.
func (s *subscriber) writeLoop() {
	defer s.conn.Close()
	for payload := range s.send {
		if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	s.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
	)
}

// readLoop discards inbound frames; the socket is broadcast only. It exists
// to detect disconnects and answer pings.
func (s *subscriber) readLoop(h *Hub) {
	defer func() {
		select {
		case h.unregister <- s:
		case <-h.done:
		}
		s.conn.Close()
	}()
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast hands the message to the room goroutine for fanout.
func (h *Hub) Broadcast(msg *chat.Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).Warn("marshal chat broadcast")
		return
	}
	select {
	case h.broadcast <- outbound{projectID: msg.ProjectID, payload: payload}:
	case <-h.done:
	}
}

// Close stops the room goroutine and tears down every open connection.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.quit) })
	<-h.done
}
