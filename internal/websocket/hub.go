package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"spaceweather-backend/internal/models"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SessionLookup reports whether a session id is live.
type SessionLookup func(id uuid.UUID) bool

// client owns one connection. Only its write pump writes to conn.
type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

func (c *client) shutdown() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

func (c *client) writePump(sessionID uuid.UUID) {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("WebSocket write failed: session %s: %v", sessionID, err)
				c.shutdown()
				return
			}
		}
	}
}

// Hub fans session updates out to the browser tabs watching each session.
// With a redis client it relays the session's pub/sub channel; without one
// it is used directly as the notifier.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID][]*client
	redisClient *redis.Client
	lookup      SessionLookup
	channelName func(uuid.UUID) string
	cancelFuncs map[uuid.UUID]context.CancelFunc
}

func NewHub(redisClient *redis.Client, lookup SessionLookup, channelName func(uuid.UUID) string) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID][]*client),
		redisClient: redisClient,
		lookup:      lookup,
		channelName: channelName,
		cancelFuncs: make(map[uuid.UUID]context.CancelFunc),
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.URL.Query().Get("session_id"))
	if err != nil {
		http.Error(w, "Invalid session_id", http.StatusBadRequest)
		return
	}

	if h.lookup != nil && !h.lookup(sessionID) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	c := newClient(conn)
	h.registerConnection(sessionID, c)
	go c.writePump(sessionID)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(sessionID, c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// ConnectionCount returns the number of open connections for a session.
func (h *Hub) ConnectionCount(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[sessionID])
}

func (h *Hub) registerConnection(sessionID uuid.UUID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[sessionID] = append(h.connections[sessionID], c)

	// Start pub/sub subscription if this is the first connection for this session
	if h.redisClient != nil && len(h.connections[sessionID]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[sessionID] = cancel
		go h.subscribeToPubSub(ctx, sessionID)
	}

	log.Printf("WebSocket connected: session %s (total: %d)", sessionID, len(h.connections[sessionID]))
}

func (h *Hub) unregisterConnection(sessionID uuid.UUID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.shutdown()

	conns := h.connections[sessionID]
	for i, existing := range conns {
		if existing == c {
			h.connections[sessionID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(h.connections[sessionID]) == 0 {
		delete(h.connections, sessionID)
		if cancel, ok := h.cancelFuncs[sessionID]; ok {
			cancel()
			delete(h.cancelFuncs, sessionID)
		}
	}

	log.Printf("WebSocket disconnected: session %s", sessionID)
}

func (h *Hub) subscribeToPubSub(ctx context.Context, sessionID uuid.UUID) {
	pubsub := h.redisClient.Subscribe(ctx, h.channelName(sessionID))
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(sessionID, []byte(msg.Payload))
		}
	}
}

// broadcast queues data for every connection of the session without
// blocking. A connection whose queue is full is dropped.
func (h *Hub) broadcast(sessionID uuid.UUID, data []byte) {
	h.mu.RLock()
	clients := append([]*client(nil), h.connections[sessionID]...)
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case <-c.done:
		case c.send <- data:
		default:
			log.Printf("WebSocket client too slow, dropping: session %s", sessionID)
			c.shutdown()
		}
	}
}

// Notify sends an update straight to the session's connections.
func (h *Hub) Notify(_ context.Context, sessionID uuid.UUID, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.broadcast(sessionID, data)
}

// CloseSession drops every connection watching a session.
func (h *Hub) CloseSession(sessionID uuid.UUID) {
	h.mu.RLock()
	clients := append([]*client(nil), h.connections[sessionID]...)
	h.mu.RUnlock()

	// The read loops see the closed connection and unregister themselves.
	for _, c := range clients {
		c.shutdown()
	}
}
