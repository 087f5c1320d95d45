package sse

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// EventType is the SSE event name.
type EventType string

const (
	EventOrderCreated    EventType = "order.created"
	EventChatInteraction EventType = "chat.interaction"
)

// clientBuffer is how many events a slow client may lag behind before
// events are dropped for it.
const clientBuffer = 64

// ActivityEvent is the payload pushed to live dashboard clients.
type ActivityEvent struct {
	Event       EventType `json:"event"`
	CustomerID  string    `json:"customerId"`
	OrderID     string    `json:"orderId,omitempty"`
	Status      string    `json:"status,omitempty"`
	TotalAmount *float64  `json:"totalAmount,omitempty"`
	Channel     string    `json:"channel,omitempty"`
	Action      string    `json:"action,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Frame is one encoded event queued for a client.
type Frame struct {
	Event EventType
	Data  []byte
}

// Client is one connected stream.
type Client struct {
	ID     string
	Events chan Frame
}

// Hub fans events out to connected streams.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a new SSE hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// Register adds a client and returns it for streaming.
func (h *Hub) Register(clientID string) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := &Client{ID: clientID, Events: make(chan Frame, clientBuffer)}
	h.clients[clientID] = c
	log.Info().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("SSE client connected")
	return c
}

// Unregister removes a client and closes its channel.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		close(c.Events)
		delete(h.clients, clientID)
		log.Info().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("SSE client disconnected")
	}
}

// Broadcast sends an event to every client without blocking; a client whose
// buffer is full misses the event.
func (h *Hub) Broadcast(event *ActivityEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal SSE event")
		return
	}

	frame := Frame{Event: event.Event, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		select {
		case c.Events <- frame:
		default:
			log.Warn().Str("client_id", c.ID).Str("event", string(event.Event)).Msg("SSE client buffer full, dropping event")
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
