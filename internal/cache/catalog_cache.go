package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/customer_portal/internal/models"
)

const catalogKey = "catalog:products"

// CatalogCache holds the full product list for a short TTL. A TTL of zero
// disables it.
type CatalogCache struct {
	kv  KeyValue
	ttl time.Duration
}

// NewCatalogCache creates a new CatalogCache.
func NewCatalogCache(kv KeyValue, ttl time.Duration) *CatalogCache {
	return &CatalogCache{kv: kv, ttl: ttl}
}

// Get returns the cached catalog. Errors other than a miss are logged and
// reported as a miss so callers fall back to the store.
func (c *CatalogCache) Get(ctx context.Context) ([]models.Product, bool) {
	if c == nil || c.kv == nil || c.ttl <= 0 {
		return nil, false
	}
	raw, err := c.kv.Get(ctx, catalogKey)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			log.Warn().Err(err).Msg("Catalog cache read failed")
		}
		return nil, false
	}
	var products []models.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		log.Warn().Err(err).Msg("Catalog cache entry is corrupt")
		return nil, false
	}
	return products, true
}

// Set stores the catalog.
func (c *CatalogCache) Set(ctx context.Context, products []models.Product) {
	if c == nil || c.kv == nil || c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(products)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to encode catalog for cache")
		return
	}
	if err := c.kv.Set(ctx, catalogKey, string(data), c.ttl); err != nil {
		log.Warn().Err(err).Msg("Catalog cache write failed")
	}
}
