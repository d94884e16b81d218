package cache

import (
	"context"

	"github.com/gezgin/placewise/internal/models"
)

// Cache is the read-through cache in front of asset lookups and provider
// search responses.
type Cache interface {
	GetAsset(ctx context.Context, placeID string) (*models.Asset, error)
	SetAsset(ctx context.Context, placeID string, asset *models.Asset) error
	DeleteAsset(ctx context.Context, placeID string) error

	// Search responses are cached as opaque JSON keyed by a hash of the
	// query parameters.
	GetSearch(ctx context.Context, key string) ([]byte, error)
	SetSearch(ctx context.Context, key string, payload []byte) error

	Ping(ctx context.Context) error
	Close() error
}
