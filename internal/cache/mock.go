package cache

import (
	"context"
	"sync"

	"github.com/gezgin/placewise/internal/models"
)

// MockCache is an in-memory Cache for tests and for running without Redis.
type MockCache struct {
	mu       sync.RWMutex
	assets   map[string]*models.Asset
	searches map[string][]byte
}

// NewMockCache returns an empty MockCache.
func NewMockCache() *MockCache {
	return &MockCache{
		assets:   make(map[string]*models.Asset),
		searches: make(map[string][]byte),
	}
}

func (m *MockCache) GetAsset(_ context.Context, placeID string) (*models.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.assets[placeID], nil
}

func (m *MockCache) SetAsset(_ context.Context, placeID string, asset *models.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[placeID] = asset
	return nil
}

func (m *MockCache) DeleteAsset(_ context.Context, placeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.assets, placeID)
	return nil
}

func (m *MockCache) GetSearch(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.searches[key], nil
}

func (m *MockCache) SetSearch(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches[key] = payload
	return nil
}

func (m *MockCache) Ping(_ context.Context) error { return nil }

func (m *MockCache) Close() error { return nil }
