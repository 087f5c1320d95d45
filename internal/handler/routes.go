package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/customer_portal/internal/middleware"
)

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health    *HealthHandler
	Auth      *AuthHandler
	Customer  *CustomerHandler
	Chat      *ChatHandler
	Product   *ProductHandler
	Order     *OrderHandler
	Analytics *AnalyticsHandler
	SSE       *SSEHandler
	WS        *WSHandler
}

// SetupRoutes registers all routes.
func SetupRoutes(router *gin.Engine, h *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/health", h.Health.GetHealth)
	router.POST("/auth/login", jwtMiddleware.LoginGuard(), h.Auth.Login)
	router.POST("/auth/admin/login", jwtMiddleware.LoginGuard(), h.Auth.AdminLogin)

	authed := router.Group("")
	authed.Use(jwtMiddleware.Handle())
	{
		authed.POST("/auth/logout", h.Auth.Logout)

		customers := authed.Group("/customers/:id")
		customers.Use(middleware.RequireCustomer("id"))
		{
			customers.GET("", h.Customer.GetCustomer)
			customers.GET("/orders", h.Customer.ListOrders)
			customers.GET("/analytics", h.Customer.GetAnalytics)
		}

		authed.POST("/chat", h.Chat.Chat)
		authed.POST("/chat/voice", h.Chat.Voice)

		authed.GET("/products", h.Product.ListProducts)
		authed.GET("/products/:sku/compatibility", h.Product.CheckCompatibility)

		authed.POST("/orders", h.Order.CreateOrder)
		authed.GET("/orders/:id/tracking", h.Order.GetTracking)

		operator := authed.Group("/analytics")
		operator.Use(middleware.RequireAdmin())
		{
			operator.GET("/dashboard", h.Analytics.GetDashboard)
			operator.GET("/stream", h.SSE.Stream)
		}

		authed.GET("/ws/chat/:customerId", middleware.RequireCustomer("customerId"), h.WS.Chat)
	}
}
