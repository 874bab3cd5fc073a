package websocket

import (
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	// In production, adjust the CheckOrigin function to allow only trusted origins.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// client wraps a connection with a write lock so concurrent pushes from the
// hub and the connect-time snapshot never interleave frames.
type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func newClient(conn *websocket.Conn) *client {
	return &client{id: uuid.NewString(), conn: conn}
}

func (c *client) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// hub is a registry of clients grouped by a subscription key (a user id for
// inbox streams, a content key for comment streams).
type hub struct {
	mu      sync.Mutex
	clients map[string]map[string]*client
}

func newHub() *hub {
	return &hub{clients: make(map[string]map[string]*client)}
}

func (h *hub) add(key string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[key] == nil {
		h.clients[key] = make(map[string]*client)
	}
	h.clients[key][c.id] = c
}

func (h *hub) remove(key string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[key], c.id)
	if len(h.clients[key]) == 0 {
		delete(h.clients, key)
	}
}

func (h *hub) subscribers(key string) []*client {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := make([]*client, 0, len(h.clients[key]))
	for _, c := range h.clients[key] {
		subs = append(subs, c)
	}
	return subs
}

// broadcast serializes v to every subscriber of key, dropping connections
// that fail to write.
func (h *hub) broadcast(key string, v any) {
	for _, c := range h.subscribers(key) {
		if err := c.send(v); err != nil {
			log.Printf("websocket write failed, dropping subscriber %s: %v", c.id, err)
			c.conn.Close()
			h.remove(key, c)
		}
	}
}
