package handler

import (
	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/GTDGit/customer_portal/internal/middleware"
	"github.com/GTDGit/customer_portal/internal/models"
	"github.com/GTDGit/customer_portal/internal/service"
	"github.com/GTDGit/customer_portal/internal/utils"
)

type createOrderRequest struct {
	CustomerID string            `json:"customerId" validate:"required"`
	Products   []models.LineItem `json:"products" validate:"required,min=1,dive"`
	Notes      string            `json:"notes" validate:"max=1000"`
}

// OrderHandler creates and tracks orders.
type OrderHandler struct {
	orderService *service.OrderService
	validate     *validatorv10.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *service.OrderService, validate *validatorv10.Validate) *OrderHandler {
	return &OrderHandler{orderService: orderService, validate: validate}
}

// CreateOrder handles POST /orders.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if !BindAndValidate(c, &req, h.validate) {
		return
	}
	if err := service.Authorize(middleware.GetClaims(c), req.CustomerID); err != nil {
		utils.HandleError(c, err)
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req.CustomerID, req.Products, req.Notes)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, 201, "Order created", gin.H{"order": order})
}

// GetTracking handles GET /orders/:id/tracking. Customers only see their own
// orders; operators see all.
func (h *OrderHandler) GetTracking(c *gin.Context) {
	requester := ""
	if claims := middleware.GetClaims(c); claims != nil && !claims.IsAdmin() {
		requester = claims.CustomerID
	}

	tracking, err := h.orderService.Tracking(c.Request.Context(), c.Param("id"), requester)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, 200, "Tracking retrieved", tracking)
}
