package models

import "time"

// Interaction channels.
const (
	ChannelChat      = "chat"
	ChannelWebSocket = "websocket"
)

// InteractionLog is an append-only record of one chat exchange.
// SatisfactionScore is filled later by an external process.
type InteractionLog struct {
	Timestamp         time.Time `json:"timestamp"`
	CustomerID        string    `json:"customerId"`
	Channel           string    `json:"channel"`
	Query             string    `json:"query"`
	Response          string    `json:"response"`
	SessionID         string    `json:"sessionId,omitempty"`
	SatisfactionScore *float64  `json:"satisfactionScore,omitempty"`
}
