package service

import (
	"context"

	"github.com/GTDGit/customer_portal/internal/models"
	"github.com/GTDGit/customer_portal/internal/repository"
)

// Order history page size bounds.
const (
	DefaultOrderLimit = 50
	MaxOrderLimit     = 100
)

// CustomerService serves customer profiles and order history.
type CustomerService struct {
	customers *repository.CustomerRepository
	orders    *repository.OrderRepository
}

// NewCustomerService constructs a new CustomerService.
func NewCustomerService(customers *repository.CustomerRepository, orders *repository.OrderRepository) *CustomerService {
	return &CustomerService{customers: customers, orders: orders}
}

// GetCustomer returns the customer profile.
func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

// ListOrders returns up to limit orders newest first. limit is clamped to
// 1..MaxOrderLimit; zero selects DefaultOrderLimit.
func (s *CustomerService) ListOrders(ctx context.Context, customerID string, limit int) ([]models.Order, error) {
	return s.orders.ListByCustomer(ctx, customerID, ClampOrderLimit(limit))
}

// ClampOrderLimit normalises a requested page size.
func ClampOrderLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultOrderLimit
	case limit < 1:
		return 1
	case limit > MaxOrderLimit:
		return MaxOrderLimit
	default:
		return limit
	}
}
