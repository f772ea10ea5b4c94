package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS policy is enforced at the router; the upgrade itself
		// accepts any origin.
		return true
	},
}

// Event is broadcast after every dispatched job. It carries bookkeeping
// only; request payloads never travel through the feed.
type Event struct {
	JobID      uuid.UUID     `json:"job_id"`
	Verb       string        `json:"verb"`
	Hostname   string        `json:"hostname"`
	Path       string        `json:"path"`
	StatusCode int           `json:"status_code"`
	ExecutedAt time.Time     `json:"executed_at"`
	Duration   time.Duration `json:"duration"`
}

type message struct {
	Type      string `json:"type"`
	Data      Event  `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

// Hub fans execution events out to connected WebSocket clients.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	logger     zerolog.Logger
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		logger:     logger,
	}
}

// Run owns the client set; call it once in its own goroutine. All map
// access happens here, so no locking is needed.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.logger.Debug().Msg("websocket client connected")
		case c := <-h.unregister:
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
			}
			h.logger.Debug().Msg("websocket client disconnected")
		case data := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- data:
				default:
					// Slow consumer; drop it rather than stall the feed.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Broadcast queues an execution event for all connected clients. It never
// blocks; when the queue is full the event is dropped.
func (h *Hub) Broadcast(ev Event) {
	msg := message{
		Type:      "execution",
		Data:      ev,
		Timestamp: time.Now().Unix(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Msg("marshaling websocket event")
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn().Msg("broadcast queue full, dropping event")
	}
}

// ServeWS upgrades the connection and joins it to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}
	h.register <- c

	go c.writePump()
	go c.readPump()
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
