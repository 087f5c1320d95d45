package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/customer_portal/internal/service"
	"github.com/GTDGit/customer_portal/internal/utils"
)

// CustomerHandler serves customer profiles, order history and analytics.
type CustomerHandler struct {
	customerService  *service.CustomerService
	analyticsService *service.AnalyticsService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerService *service.CustomerService, analyticsService *service.AnalyticsService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, analyticsService: analyticsService}
}

// GetCustomer handles GET /customers/:id.
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.customerService.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, 200, "Customer retrieved", customer)
}

// ListOrders handles GET /customers/:id/orders?limit=.
func (h *CustomerHandler) ListOrders(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.Error(c, 400, utils.ErrInvalidRequest.Error(), "limit must be an integer")
			return
		}
		limit = n
	}

	orders, err := h.customerService.ListOrders(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, 200, "Orders retrieved", gin.H{
		"orders": orders,
		"total":  len(orders),
	})
}

// GetAnalytics handles GET /customers/:id/analytics.
func (h *CustomerHandler) GetAnalytics(c *gin.Context) {
	result, err := h.analyticsService.Customer(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, 200, "Analytics retrieved", result)
}
