package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GTDGit/customer_portal/internal/analytics"
	"github.com/GTDGit/customer_portal/internal/models"
	"github.com/GTDGit/customer_portal/internal/repository"
)

// AnalyticsService loads records and hands them to the aggregator.
type AnalyticsService struct {
	customers    *repository.CustomerRepository
	orders       *repository.OrderRepository
	interactions *repository.InteractionRepository
	now          func() time.Time
}

// NewAnalyticsService constructs a new AnalyticsService.
func NewAnalyticsService(
	customers *repository.CustomerRepository,
	orders *repository.OrderRepository,
	interactions *repository.InteractionRepository,
) *AnalyticsService {
	return &AnalyticsService{
		customers:    customers,
		orders:       orders,
		interactions: interactions,
		now:          time.Now,
	}
}

// Customer returns analytics over the customer's most recent orders.
func (s *AnalyticsService) Customer(ctx context.Context, customerID string) (analytics.Customer, error) {
	orders, err := s.orders.ListByCustomer(ctx, customerID, analytics.CustomerOrderWindow)
	if err != nil {
		return analytics.Customer{}, err
	}
	return analytics.CustomerAnalytics(orders, s.now()), nil
}

// Dashboard loads customers, orders and recent interactions concurrently.
func (s *AnalyticsService) Dashboard(ctx context.Context) (analytics.Dashboard, error) {
	var (
		customers    []models.Customer
		orders       []models.Order
		interactions []models.InteractionLog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		customers, err = s.customers.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		orders, err = s.orders.ListAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		interactions, err = s.interactions.ListRecent(gctx, analytics.RecentActivityLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return analytics.Dashboard{}, err
	}

	return analytics.BuildDashboard(customers, orders, interactions), nil
}
