package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/customer_portal/internal/models"
)

type memoryKV struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.data[key]
	if !ok {
		return "", ErrMiss
	}
	return v, nil
}

func (m *memoryKV) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestSessionCache(t *testing.T) {
	kv := newMemoryKV()
	sessions := NewSessionCache(kv)
	ctx := context.Background()

	require.NoError(t, sessions.Save(ctx, "s1", "C1", time.Hour))
	assert.Equal(t, time.Hour, kv.ttls["session:s1"])

	owner, err := sessions.Owner(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "C1", owner)

	require.NoError(t, sessions.Revoke(ctx, "s1"))
	_, err = sessions.Owner(ctx, "s1")
	assert.ErrorIs(t, err, ErrMiss)

	kv.err = errors.New("connection refused")
	_, err = sessions.Owner(ctx, "s2")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}

func TestCatalogCache(t *testing.T) {
	kv := newMemoryKV()
	catalog := NewCatalogCache(kv, time.Minute)
	ctx := context.Background()

	_, ok := catalog.Get(ctx)
	assert.False(t, ok)

	products := []models.Product{{SKU: "X", Name: "Case", Price: 10, Compatibility: []string{"iPhone 15"}}}
	catalog.Set(ctx, products)

	got, ok := catalog.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, products, got)

	kv.data[catalogKey] = "{not json"
	_, ok = catalog.Get(ctx)
	assert.False(t, ok)
}

func TestCatalogCache_Disabled(t *testing.T) {
	kv := newMemoryKV()
	catalog := NewCatalogCache(kv, 0)
	catalog.Set(context.Background(), []models.Product{{SKU: "X"}})
	assert.Empty(t, kv.data)

	var nilCache *CatalogCache
	_, ok := nilCache.Get(context.Background())
	assert.False(t, ok)
}
