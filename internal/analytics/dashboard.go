package analytics

import (
	"sort"

	"github.com/GTDGit/customer_portal/internal/models"
)

// RecentActivityLimit caps the interactions shown on the dashboard.
const RecentActivityLimit = 10

// Dashboard is the business-wide overview.
type Dashboard struct {
	TotalCustomers  int                     `json:"totalCustomers"`
	ActiveCustomers int                     `json:"activeCustomers"`
	TotalOrders     int                     `json:"totalOrders"`
	TotalRevenue    float64                 `json:"totalRevenue"`
	AvgOrderValue   float64                 `json:"avgOrderValue"`
	OrdersByStatus  map[string]int          `json:"ordersByStatus"`
	TopProducts     []ProductCount          `json:"topProducts"`
	RecentActivity  []models.InteractionLog `json:"recentActivity"`
}

// BuildDashboard aggregates the three tables. Cancelled orders count towards
// order totals but not revenue.
func BuildDashboard(customers []models.Customer, orders []models.Order, interactions []models.InteractionLog) Dashboard {
	d := Dashboard{
		TotalCustomers: len(customers),
		TotalOrders:    len(orders),
		OrdersByStatus: make(map[string]int),
		TopProducts:    topN(countProducts(orders), topProductsLimit),
	}

	for _, c := range customers {
		if c.Status == models.CustomerStatusActive {
			d.ActiveCustomers++
		}
	}

	billable := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		d.OrdersByStatus[string(o.Status)]++
		if o.Status != models.OrderStatusCancelled {
			billable = append(billable, o)
		}
	}
	revenue := sumTotals(billable)
	d.TotalRevenue = revenue.Round(2).InexactFloat64()
	d.AvgOrderValue = mean(revenue, len(billable))

	recent := make([]models.InteractionLog, len(interactions))
	copy(recent, interactions)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Timestamp.After(recent[j].Timestamp)
	})
	if len(recent) > RecentActivityLimit {
		recent = recent[:RecentActivityLimit]
	}
	d.RecentActivity = recent
	return d
}
