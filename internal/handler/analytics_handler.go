package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/customer_portal/internal/service"
	"github.com/GTDGit/customer_portal/internal/utils"
)

// AnalyticsHandler serves the portal-wide dashboard.
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetDashboard handles GET /analytics/dashboard.
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.analyticsService.Dashboard(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, 200, "Dashboard retrieved", dashboard)
}
