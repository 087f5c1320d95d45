package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/customer_portal/internal/models"
	"github.com/GTDGit/customer_portal/internal/utils"
)

// OrderRepository handles data access for orders.
type OrderRepository struct {
	table     table
	customers *CustomerRepository
	now       func() time.Time
}

// NewOrderRepository creates a new OrderRepository. customers receives the
// total-spend update that follows every order creation.
func NewOrderRepository(store RowStore, customers *CustomerRepository, timeout time.Duration) *OrderRepository {
	return &OrderRepository{
		table:     newTable(store, SheetOrders, timeout),
		customers: customers,
		now:       time.Now,
	}
}

// ListAll returns every well-formed order, newest first.
func (r *OrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	rows, err := r.table.read(ctx)
	if err != nil {
		return nil, err
	}
	orders := validRecords(SheetOrders, decodeRows(rows, decodeOrder))
	sortNewestFirst(orders)
	return orders, nil
}

// ListByCustomer returns the customer's orders newest first. A limit <= 0
// returns all of them.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string, limit int) ([]models.Order, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0)
	for _, o := range all {
		if o.CustomerID == customerID {
			orders = append(orders, o)
		}
	}
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

// GetByID returns a single order.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range all {
		if o.ID == id {
			o := o
			return &o, nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", id, utils.ErrNotFound)
}

// Create appends a new pending order. Unit prices are taken from the caller
// as given and must be whole cents; the catalog is not consulted. The customer's total spend is
// updated afterwards and a failure there does not fail the order.
func (r *OrderRepository) Create(ctx context.Context, customerID string, items []models.LineItem, notes string) (*models.Order, error) {
	if customerID == "" {
		return nil, fmt.Errorf("customer id is required: %w", utils.ErrInvalidRequest)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("order has no line items: %w", utils.ErrInvalidRequest)
	}

	id, err := utils.GenerateOrderID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order id: %w", err)
	}

	order := &models.Order{
		ID:         id,
		CustomerID: customerID,
		Date:       r.now().UTC().Truncate(time.Second),
		Products:   make([]string, 0, len(items)),
		Quantities: make([]int, 0, len(items)),
		Status:     models.OrderStatusPending,
		Notes:      notes,
	}

	total := decimal.Zero
	for _, item := range items {
		if item.SKU == "" || item.Quantity < 1 || item.Price < 0 {
			return nil, fmt.Errorf("invalid line item %q: %w", item.SKU, utils.ErrInvalidRequest)
		}
		price := decimal.NewFromFloat(item.Price)
		if !price.Equal(price.Round(2)) {
			return nil, fmt.Errorf("price of %q has more than 2 decimal places: %w", item.SKU, utils.ErrInvalidRequest)
		}
		order.Products = append(order.Products, item.SKU)
		order.Quantities = append(order.Quantities, item.Quantity)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	order.TotalAmount = total.InexactFloat64()

	row, err := encodeOrder(*order)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order: %w", err)
	}
	if err := r.table.append(ctx, row); err != nil {
		return nil, err
	}

	if r.customers != nil {
		if err := r.customers.AddSpend(ctx, customerID, order.TotalAmount, order.Date); err != nil {
			log.Warn().Err(err).Str("order_id", order.ID).Str("customer_id", customerID).Msg("Failed to update customer total spent")
		}
	}

	log.Info().Str("order_id", order.ID).Str("customer_id", customerID).Float64("total", order.TotalAmount).Msg("Order created")
	return order, nil
}

// sortNewestFirst orders by date descending; undated orders go last.
func sortNewestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Date.After(orders[j].Date)
	})
}
