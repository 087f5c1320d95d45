package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/customer_portal/internal/models"
)

// CustomerOrderWindow is how many recent orders feed customer analytics.
const CustomerOrderWindow = 100

const monthlyWindow = 30 * 24 * time.Hour

// Customer is the per-customer analytics view.
type Customer struct {
	TotalOrders   int              `json:"totalOrders"`
	TotalSpent    float64          `json:"totalSpent"`
	AvgOrderValue float64          `json:"avgOrderValue"`
	MonthlySpend  float64          `json:"monthlySpend"`
	TopProducts   []ProductCount   `json:"topProducts"`
	LastOrderDate *time.Time       `json:"lastOrderDate"`
	CustomerSince *time.Time       `json:"customerSince"`
	Patterns      PurchasePatterns `json:"purchasePatterns"`
	Preferences   Preferences      `json:"preferences"`
}

// CustomerAnalytics summarises a customer's orders as of now. Orders are
// expected newest first; only the first CustomerOrderWindow are used.
func CustomerAnalytics(orders []models.Order, now time.Time) Customer {
	if len(orders) > CustomerOrderWindow {
		orders = orders[:CustomerOrderWindow]
	}
	out := Customer{
		TopProducts: []ProductCount{},
		Patterns:    Patterns(orders),
		Preferences: ExtractPreferences(orders),
	}
	if len(orders) == 0 {
		return out
	}

	total := sumTotals(orders)
	monthly := decimal.Zero
	cutoff := now.Add(-monthlyWindow)
	var first, last time.Time
	for _, o := range orders {
		if o.Date.IsZero() {
			continue
		}
		if !o.Date.Before(cutoff) {
			monthly = monthly.Add(decimal.NewFromFloat(o.TotalAmount))
		}
		if last.IsZero() || o.Date.After(last) {
			last = o.Date
		}
		if first.IsZero() || o.Date.Before(first) {
			first = o.Date
		}
	}

	out.TotalOrders = len(orders)
	out.TotalSpent = total.Round(2).InexactFloat64()
	out.AvgOrderValue = mean(total, len(orders))
	out.MonthlySpend = monthly.Round(2).InexactFloat64()
	out.TopProducts = topN(countProducts(orders), topProductsLimit)
	if !last.IsZero() {
		out.LastOrderDate = &last
		out.CustomerSince = &first
	}
	return out
}
