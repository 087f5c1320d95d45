package models

import "time"

// OrderStatus enumerates the fulfillment states of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Order is a customer order. Products and Quantities are parallel slices
// and always have the same length.
type Order struct {
	ID             string      `json:"id"`
	CustomerID     string      `json:"customerId"`
	Date           time.Time   `json:"date"`
	Products       []string    `json:"products"`
	Quantities     []int       `json:"quantities"`
	TotalAmount    float64     `json:"totalAmount"`
	Status         OrderStatus `json:"status"`
	TrackingNumber string      `json:"trackingNumber"`
	Notes          string      `json:"notes"`
}

// LineItem is one (sku, quantity) pair of an order request with the
// caller-supplied unit price.
type LineItem struct {
	SKU      string  `json:"sku" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
}

// OrderTracking is the tracking view of an order.
type OrderTracking struct {
	OrderID           string      `json:"orderId"`
	Status            OrderStatus `json:"status"`
	TrackingNumber    string      `json:"trackingNumber"`
	EstimatedDelivery string      `json:"estimatedDelivery"`
	OrderDate         string      `json:"orderDate"`
}
