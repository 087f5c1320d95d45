package handler

import (
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/customer_portal/internal/middleware"
	"github.com/GTDGit/customer_portal/internal/sse"
)

const ssePingInterval = 30 * time.Second

// SSEHandler streams portal activity to dashboards.
type SSEHandler struct {
	hub *sse.Hub
}

// NewSSEHandler creates a new SSEHandler.
func NewSSEHandler(hub *sse.Hub) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// Stream handles GET /analytics/stream. Authentication is done by the JWT
// middleware, which also accepts ?token= for EventSource clients.
func (h *SSEHandler) Stream(c *gin.Context) {
	principal := ""
	if claims := middleware.GetClaims(c); claims != nil {
		principal = claims.Principal()
	}
	clientID := fmt.Sprintf("%s-%d", principal, time.Now().UnixNano())

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	client := h.hub.Register(clientID)
	defer h.hub.Unregister(clientID)

	c.SSEvent("connected", gin.H{
		"clientId":  clientID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	c.Writer.Flush()

	log.Info().Str("client_id", clientID).Msg("Activity stream started")

	c.Stream(func(w io.Writer) bool {
		select {
		case frame, ok := <-client.Events:
			if !ok {
				return false
			}
			c.SSEvent(string(frame.Event), string(frame.Data))
			return true
		case <-time.After(ssePingInterval):
			c.SSEvent("ping", gin.H{"timestamp": time.Now().UTC().Format(time.RFC3339)})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
