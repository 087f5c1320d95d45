package service

import (
	"context"
	"fmt"
	"time"

	"github.com/GTDGit/customer_portal/internal/models"
	"github.com/GTDGit/customer_portal/internal/repository"
	"github.com/GTDGit/customer_portal/internal/sse"
	"github.com/GTDGit/customer_portal/internal/utils"
)

// DeliveryDays is added to the order date for the delivery estimate.
const DeliveryDays = 5

// ConfirmationQueue accepts orders for asynchronous confirmation.
type ConfirmationQueue interface {
	Enqueue(order models.Order) bool
}

// OrderService creates and tracks orders.
type OrderService struct {
	orders        *repository.OrderRepository
	confirmations ConfirmationQueue
	activity      sse.ActivityNotifier
}

// NewOrderService constructs a new OrderService. confirmations and activity
// may be nil.
func NewOrderService(orders *repository.OrderRepository, confirmations ConfirmationQueue, activity sse.ActivityNotifier) *OrderService {
	if activity == nil {
		activity = sse.NopNotifier{}
	}
	return &OrderService{
		orders:        orders,
		confirmations: confirmations,
		activity:      activity,
	}
}

// Create places a pending order, then schedules its confirmation and
// announces it on the live feed. Neither follow-up can fail the order.
func (s *OrderService) Create(ctx context.Context, customerID string, items []models.LineItem, notes string) (*models.Order, error) {
	order, err := s.orders.Create(ctx, customerID, items, notes)
	if err != nil {
		return nil, err
	}
	if s.confirmations != nil {
		s.confirmations.Enqueue(*order)
	}
	s.activity.OrderCreated(order)
	return order, nil
}

// Tracking returns shipment details. When requesterID is not empty the
// order must belong to that customer.
func (s *OrderService) Tracking(ctx context.Context, orderID, requesterID string) (*models.OrderTracking, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if requesterID != "" && order.CustomerID != requesterID {
		return nil, fmt.Errorf("order %s: %w", orderID, utils.ErrForbidden)
	}
	return trackingFor(order), nil
}

func trackingFor(order *models.Order) *models.OrderTracking {
	t := &models.OrderTracking{
		OrderID:        order.ID,
		Status:         order.Status,
		TrackingNumber: order.TrackingNumber,
	}
	if !order.Date.IsZero() {
		t.OrderDate = order.Date.UTC().Format(time.RFC3339)
		t.EstimatedDelivery = order.Date.AddDate(0, 0, DeliveryDays).UTC().Format(time.RFC3339)
	}
	return t
}
