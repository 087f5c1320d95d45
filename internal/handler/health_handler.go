package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/customer_portal/internal/utils"
)

const healthPingTimeout = 2 * time.Second

// Pinger is a dependency whose reachability is reported by /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides the liveness endpoint.
type HealthHandler struct {
	sessions  Pinger
	startedAt time.Time
}

// NewHealthHandler creates a new HealthHandler. sessions may be nil.
func NewHealthHandler(sessions Pinger) *HealthHandler {
	return &HealthHandler{sessions: sessions, startedAt: time.Now()}
}

// GetHealth handles GET /health. A Redis outage is reported in the body; the
// status code stays 200.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	redisStatus := "not_configured"
	if h.sessions != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()
		redisStatus = "connected"
		if err := h.sessions.Ping(ctx); err != nil {
			redisStatus = "disconnected"
		}
	}

	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":    "healthy",
		"timestamp": utils.NowISO(),
		"uptime":    int(time.Since(h.startedAt).Seconds()),
		"redis":     redisStatus,
	})
}
