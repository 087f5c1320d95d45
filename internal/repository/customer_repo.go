package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/customer_portal/internal/models"
	"github.com/GTDGit/customer_portal/internal/utils"
)

// CustomerRepository handles data access for customers.
type CustomerRepository struct {
	table table
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(store RowStore, timeout time.Duration) *CustomerRepository {
	return &CustomerRepository{table: newTable(store, SheetCustomers, timeout)}
}

func (r *CustomerRepository) load(ctx context.Context) ([]RowResult[models.Customer], error) {
	rows, err := r.table.read(ctx)
	if err != nil {
		return nil, err
	}
	return decodeRows(rows, decodeCustomer), nil
}

// GetByEmail finds the customer with the given email inside a company scope.
// Both comparisons ignore case; the scope is matched against the company name.
func (r *CustomerRepository) GetByEmail(ctx context.Context, email, companyScope string) (*models.Customer, error) {
	email = strings.TrimSpace(email)
	companyScope = strings.TrimSpace(companyScope)

	customers, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range customers {
		if strings.EqualFold(c.Email, email) && strings.EqualFold(c.CompanyName, companyScope) {
			c := c
			return &c, nil
		}
	}
	return nil, fmt.Errorf("customer %s: %w", email, utils.ErrNotFound)
}

// GetByID returns a single customer by id.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	customers, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range customers {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, fmt.Errorf("customer %s: %w", id, utils.ErrNotFound)
}

// List returns every well-formed customer row.
func (r *CustomerRepository) List(ctx context.Context) ([]models.Customer, error) {
	results, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return validRecords(SheetCustomers, results), nil
}

// AddSpend increments the customer's running total and records the last
// order date. This is a read-modify-write against the sheet: two concurrent
// calls for the same customer can lose an increment.
func (r *CustomerRepository) AddSpend(ctx context.Context, id string, amount float64, orderDate time.Time) error {
	results, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, res := range results {
		if !res.OK() || res.Record.ID != id {
			continue
		}
		c := res.Record
		total := decimal.NewFromFloat(c.TotalSpent).Add(decimal.NewFromFloat(amount)).Round(2)
		c.TotalSpent = total.InexactFloat64()
		c.LastOrderDate = orderDate.UTC().Format(time.RFC3339)
		return r.table.update(ctx, res.Index, encodeCustomer(c))
	}
	return fmt.Errorf("customer %s: %w", id, utils.ErrNotFound)
}
