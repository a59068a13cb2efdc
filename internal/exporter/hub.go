package exporter

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pulsestation/pulse/internal/dashboard"
	"github.com/pulsestation/pulse/internal/display"
	"github.com/pulsestation/pulse/internal/errors"
	"github.com/pulsestation/pulse/internal/logger"
)

const writeTimeout = 5 * time.Second

// Message is what websocket subscribers receive.
type Message struct {
	Type    string         `json:"type"`
	Seq     uint64         `json:"seq,omitempty"`
	OK      bool           `json:"ok"`
	Error   string         `json:"error,omitempty"`
	Kind    string         `json:"kind,omitempty"`
	Samples int            `json:"samples,omitempty"`
	Display display.Update `json:"display,omitempty"`
}

func cycleMessage(c dashboard.Cycle, u display.Update) Message {
	msg := Message{Type: "cycle", Seq: c.Seq, OK: c.OK(), Display: u}
	if c.Err != nil {
		msg.Error = summarize(c.Err)
		msg.Kind = dashboard.Kind(c.Err)
	} else {
		msg.Samples = c.Snapshot.Len()
	}
	return msg
}

// client serializes writes to one connection.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans messages out to websocket subscribers.
type Hub struct {
	upgrader websocket.Upgrader
	log      logger.Logger

	mu          sync.Mutex
	subscribers map[*client]bool
}

// NewHub creates an empty hub.
func NewHub(log logger.Logger) *Hub {
	return &Hub{
		log:         log,
		subscribers: make(map[*client]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Subscribers returns the number of connected clients.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Broadcast sends msg to every subscriber, dropping clients that fail.
func (h *Hub) Broadcast(msg Message) {
	h.mu.Lock()
	subs := make([]*client, 0, len(h.subscribers))
	for c := range h.subscribers {
		subs = append(subs, c)
	}
	h.mu.Unlock()
	if len(subs) == 0 {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Warn("websocket: encode message: %v", err)
		return
	}
	for _, c := range subs {
		if err := c.send(data); err != nil {
			h.log.Debug("websocket: dropping subscriber: %v", err)
			h.remove(c)
		}
	}
}

// Serve upgrades the request and keeps the connection subscribed until the
// peer goes away. The current board is sent first.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, board Board) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("websocket: upgrade failed: %v", err)
		return
	}
	c := &client{conn: conn}

	if board != nil {
		data, err := json.Marshal(Message{Type: "snapshot", OK: true, Display: board.Snapshot()})
		if err == nil {
			if err := c.send(data); err != nil {
				conn.Close()
				return
			}
		}
	}

	h.mu.Lock()
	h.subscribers[c] = true
	h.mu.Unlock()
	defer h.remove(c)

	// Subscribers never send anything meaningful; reading detects close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subscribers
	h.subscribers = make(map[*client]bool)
	h.mu.Unlock()
	for c := range subs {
		c.conn.Close()
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.subscribers[c]
	delete(h.subscribers, c)
	h.mu.Unlock()
	if ok {
		c.conn.Close()
	}
}

func summarize(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Summary()
	}
	return err.Error()
}
