// Package assistant builds the conversation context for a customer and turns
// a chat message into a reply with a suggested follow-up action.
package assistant

import (
	"time"

	"github.com/GTDGit/customer_portal/internal/analytics"
	"github.com/GTDGit/customer_portal/internal/models"
)

// MaxContextOrders caps the order summaries embedded in a context.
const MaxContextOrders = 5

// CustomerSummary is the slice of a customer record shown to the model.
type CustomerSummary struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	CustomerSince string  `json:"customerSince"`
	TotalSpent    float64 `json:"totalSpent"`
	LastOrder     string  `json:"lastOrder"`
	Status        string  `json:"status"`
}

// OrderSummary is a compact view of one order.
type OrderSummary struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Products []string  `json:"products"`
	Total    float64   `json:"total"`
	Status   string    `json:"status"`
}

// ConversationContext is everything the assistant knows about the customer.
type ConversationContext struct {
	Customer     CustomerSummary            `json:"customer"`
	RecentOrders []OrderSummary             `json:"recentOrders"`
	Patterns     analytics.PurchasePatterns `json:"purchasePatterns"`
	Preferences  analytics.Preferences      `json:"preferences"`
}

// BuildContext assembles a ConversationContext. recentOrders are expected
// newest first; the first MaxContextOrders are summarised while patterns and
// preferences use all of them. Neither argument is modified.
func BuildContext(customer *models.Customer, recentOrders []models.Order) ConversationContext {
	cc := ConversationContext{
		RecentOrders: make([]OrderSummary, 0, min(len(recentOrders), MaxContextOrders)),
		Patterns:     analytics.Patterns(recentOrders),
		Preferences:  analytics.ExtractPreferences(recentOrders),
	}

	if customer != nil {
		cc.Customer = CustomerSummary{
			Name:          customer.CompanyName,
			Email:         customer.Email,
			CustomerSince: customer.RegistrationDate,
			TotalSpent:    customer.TotalSpent,
			LastOrder:     customer.LastOrderDate,
			Status:        string(customer.Status),
		}
	}

	for i, o := range recentOrders {
		if i == MaxContextOrders {
			break
		}
		products := make([]string, len(o.Products))
		copy(products, o.Products)
		cc.RecentOrders = append(cc.RecentOrders, OrderSummary{
			ID:       o.ID,
			Date:     o.Date,
			Products: products,
			Total:    o.TotalAmount,
			Status:   string(o.Status),
		})
	}
	return cc
}
