package api

import (
	"context"

	"github.com/gezgin/placewise/internal/models"
)

// Registrar runs the registration orchestration for handlers.
type Registrar interface {
	RegisterPlace(ctx context.Context, placeID string) (*models.Asset, bool, error)
}

// PlaceProvider is the provider surface the handlers use directly:
// details passthrough and the two search modes.
type PlaceProvider interface {
	FetchAsset(ctx context.Context, placeID string) (*models.Asset, error)
	SearchText(ctx context.Context, query string) ([]models.PlaceSummary, error)
	SearchNearby(ctx context.Context, lat, lng float64, radius int, placeType string) ([]models.PlaceSummary, error)
}

// AssetStore defines the asset persistence operations needed by handlers.
type AssetStore interface {
	GetByPlaceID(ctx context.Context, placeID string) (*models.Asset, error)
	Delete(ctx context.Context, placeID string) (bool, error)
	SearchText(ctx context.Context, query string, limit int) ([]*models.Asset, error)
	SearchNearby(ctx context.Context, lat, lng float64, radiusMeters int, limit int) ([]*models.Asset, error)
}

// UserStore defines the user persistence operations needed by handlers.
type UserStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Pinger reports backend connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}
