package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/GTDGit/customer_portal/internal/cache"
	"github.com/GTDGit/customer_portal/internal/models"
	"github.com/GTDGit/customer_portal/internal/repository"
	"github.com/GTDGit/customer_portal/internal/utils"
)

// ProductService serves the catalog, reading through the catalog cache.
type ProductService struct {
	products *repository.ProductRepository
	cache    *cache.CatalogCache
}

// NewProductService constructs a new ProductService. catalog may be nil.
func NewProductService(products *repository.ProductRepository, catalog *cache.CatalogCache) *ProductService {
	return &ProductService{products: products, cache: catalog}
}

func (s *ProductService) catalog(ctx context.Context) ([]models.Product, error) {
	if products, ok := s.cache.Get(ctx); ok {
		return products, nil
	}
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, products)
	return products, nil
}

// List returns products matching category and search.
func (s *ProductService) List(ctx context.Context, category, search string) ([]models.Product, error) {
	products, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return repository.FilterProducts(products, category, search), nil
}

// CheckCompatibility reports whether deviceModel appears, ignoring case, in
// any compatibility entry of the product.
func (s *ProductService) CheckCompatibility(ctx context.Context, sku, deviceModel string) (*models.Compatibility, error) {
	device := strings.ToLower(strings.TrimSpace(deviceModel))
	if device == "" {
		return nil, fmt.Errorf("device model is required: %w", utils.ErrInvalidRequest)
	}

	products, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.SKU != sku {
			continue
		}
		result := &models.Compatibility{
			ProductName:      p.Name,
			SupportedDevices: p.Compatibility,
		}
		for _, entry := range p.Compatibility {
			if strings.Contains(strings.ToLower(entry), device) {
				result.Compatible = true
				break
			}
		}
		return result, nil
	}
	return nil, fmt.Errorf("product %s: %w", sku, utils.ErrNotFound)
}
