package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/outdoortrails/trails-hub-backend/pkg/logger"
)

const sendBufferSize = 64

// Event is the frame pushed to dashboard sessions
type Event struct {
	Type   string      `json:"type"`
	Data   interface{} `json:"data,omitempty"`
	SentAt time.Time   `json:"sent_at"`
}

// ClientMessage is a frame received from a session
type ClientMessage struct {
	Type string `json:"type"` // ping
}

// Client is one open dashboard session
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID string
	Send   chan []byte

	messageCount  int
	lastResetTime time.Time
	rateMu        sync.Mutex
}

func NewClient(hub *Hub, conn *Conn, userID string) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		UserID: userID,
		Send:   make(chan []byte, sendBufferSize),
	}
}

type userMessage struct {
	userID  string
	message []byte
}

// clientMessage is a reply addressed to a single session
type clientMessage struct {
	client  *Client
	message []byte
}

// Hub tracks open sessions per user; a user may have several devices connected.
// Only the Run goroutine sends on or closes a client's Send channel.
type Hub struct {
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *userMessage
	direct     chan *clientMessage

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *userMessage, 1024),
		direct:     make(chan *clientMessage, 256),
	}
}

// Run processes registrations and deliveries until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			sessions := len(h.clients[client.UserID])
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": sessions,
			})

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients[msg.userID] {
				select {
				case client.Send <- msg.message:
				default:
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"user_id": msg.userID,
					})
				}
			}
			h.mu.RUnlock()

		case msg := <-h.direct:
			h.mu.RLock()
			if h.isRegistered(msg.client) {
				select {
				case msg.client.Send <- msg.message:
				default:
				}
			}
			h.mu.RUnlock()
		}
	}
}

// isRegistered reports whether client is still open; callers hold mu
func (h *Hub) isRegistered(client *Client) bool {
	for _, c := range h.clients[client.UserID] {
		if c == client {
			return true
		}
	}
	return false
}

// remove drops client and closes its send channel; a client that is no
// longer registered is ignored
func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.clients[client.UserID]
	kept := make([]*Client, 0, len(list))
	found := false
	for _, c := range list {
		if c == client {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return
	}

	if len(kept) == 0 {
		delete(h.clients, client.UserID)
	} else {
		h.clients[client.UserID] = kept
	}
	close(client.Send)

	logger.Info("WebSocket client unregistered", map[string]interface{}{
		"user_id":            client.UserID,
		"remaining_sessions": len(kept),
	})
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, list := range h.clients {
		for _, c := range list {
			close(c.Send)
		}
		delete(h.clients, userID)
	}
}

// Publish queues an event for every session of userID. Delivery is best
// effort: a full queue drops the event.
func (h *Hub) Publish(userID string, eventType string, payload interface{}) {
	data, err := json.Marshal(Event{Type: eventType, Data: payload, SentAt: time.Now().UTC()})
	if err != nil {
		logger.Error("Failed to marshal sync event", err, map[string]interface{}{
			"user_id": userID,
			"type":    eventType,
		})
		return
	}

	select {
	case h.broadcast <- &userMessage{userID: userID, message: data}:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"user_id": userID,
			"type":    eventType,
		})
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// SessionCount returns the number of open sessions of userID
func (h *Hub) SessionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// HandleClientMessage answers pings and rate limits everything else
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.rateMu.Lock()
	now := time.Now()
	if now.Sub(client.lastResetTime) >= time.Second {
		client.messageCount = 0
		client.lastResetTime = now
	}
	client.messageCount++
	count := client.messageCount
	client.rateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"user_id": client.UserID,
			"count":   count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"user_id": client.UserID,
			"error":   err.Error(),
		})
		return
	}

	if msg.Type == "ping" {
		data, _ := json.Marshal(Event{Type: "pong", SentAt: time.Now().UTC()})
		select {
		case h.direct <- &clientMessage{client: client, message: data}:
		default:
		}
	}
}
