package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Review feed message types
const (
	MsgIntakeSubmitted     MessageType = "intake_submitted"
	MsgIntakeStatusChanged MessageType = "intake_status_changed"
	MsgSummaryReady        MessageType = "summary_ready"
	MsgError               MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans review events out to every connected staff dashboard. A
// staff member can hold several connections (two browser tabs), so
// connections are tracked individually.
type Hub struct {
	conns map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *Message
}

// Connection represents one staff WebSocket connection
type Connection struct {
	StaffID string
	Send    chan []byte
	Hub     *Hub
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *Message, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn] = true
			h.mu.Unlock()
			log.Debug().Str("staffId", conn.StaffID).Msg("staff connected to review feed")

		case conn := <-h.unregister:
			h.mu.Lock()
			if h.conns[conn] {
				delete(h.conns, conn)
				close(conn.Send)
				log.Debug().Str("staffId", conn.StaffID).Msg("staff disconnected from review feed")
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg)
			for conn := range h.conns {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToStaff sends a message to every connected staff dashboard
// (implements service.Broadcaster)
func (h *Hub) BroadcastToStaff(msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &Message{
		Type:    MessageType(msgType),
		Payload: data,
	}
}
