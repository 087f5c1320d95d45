package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GTDGit/customer_portal/internal/models"
	"github.com/GTDGit/customer_portal/internal/utils"
)

// ProductRepository handles read access to the product catalog.
type ProductRepository struct {
	table table
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(store RowStore, timeout time.Duration) *ProductRepository {
	return &ProductRepository{table: newTable(store, SheetProducts, timeout)}
}

// GetAll returns the whole catalog in sheet order.
func (r *ProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	rows, err := r.table.read(ctx)
	if err != nil {
		return nil, err
	}
	return validRecords(SheetProducts, decodeRows(rows, decodeProduct)), nil
}

// List returns the catalog filtered by category and search term.
func (r *ProductRepository) List(ctx context.Context, category, search string) ([]models.Product, error) {
	products, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterProducts(products, category, search), nil
}

// GetBySKU returns a single product.
func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	products, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.SKU == sku {
			p := p
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", sku, utils.ErrNotFound)
}

// FilterProducts applies the catalog filters client-side. category matches
// exactly ignoring case; search is a case-insensitive substring of the name
// or description. Empty filters are ignored.
func FilterProducts(products []models.Product, category, search string) []models.Product {
	category = strings.TrimSpace(category)
	search = strings.ToLower(strings.TrimSpace(search))

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}
