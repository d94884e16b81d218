package service

import (
	"context"

	"github.com/gezgin/placewise/internal/mapper"
	"github.com/gezgin/placewise/internal/models"
	"github.com/gezgin/placewise/internal/places"
)

// PlaceSource fetches a place from a provider generation and normalizes it
// into an Asset. One adapter per provider schema.
type PlaceSource interface {
	FetchAsset(ctx context.Context, placeID string) (*models.Asset, error)
}

// LegacySource adapts the legacy Places API.
type LegacySource struct {
	Client *places.LegacyClient
}

func (s *LegacySource) FetchAsset(ctx context.Context, placeID string) (*models.Asset, error) {
	raw, err := s.Client.Details(ctx, placeID)
	if err != nil {
		return nil, err
	}
	return mapper.FromLegacy(ctx, raw, s.Client, nil)
}

func (s *LegacySource) SearchText(ctx context.Context, query string) ([]models.PlaceSummary, error) {
	results, err := s.Client.TextSearch(ctx, query)
	if err != nil {
		return nil, err
	}
	return summarizeLegacy(results), nil
}

func (s *LegacySource) SearchNearby(ctx context.Context, lat, lng float64, radius int, placeType string) ([]models.PlaceSummary, error) {
	results, err := s.Client.NearbySearch(ctx, lat, lng, radius, placeType)
	if err != nil {
		return nil, err
	}
	return summarizeLegacy(results), nil
}

// V1Source adapts the new Places API.
type V1Source struct {
	Client *places.Client
}

func (s *V1Source) FetchAsset(ctx context.Context, placeID string) (*models.Asset, error) {
	raw, err := s.Client.Details(ctx, placeID)
	if err != nil {
		return nil, err
	}
	return mapper.FromNew(ctx, raw, s.Client, nil)
}

func (s *V1Source) SearchText(ctx context.Context, query string) ([]models.PlaceSummary, error) {
	results, err := s.Client.SearchText(ctx, query)
	if err != nil {
		return nil, err
	}
	return summarizeV1(results), nil
}

func (s *V1Source) SearchNearby(ctx context.Context, lat, lng float64, radius int, placeType string) ([]models.PlaceSummary, error) {
	results, err := s.Client.SearchNearby(ctx, lat, lng, radius, placeType)
	if err != nil {
		return nil, err
	}
	return summarizeV1(results), nil
}

func summarizeLegacy(results []places.LegacyPlace) []models.PlaceSummary {
	out := make([]models.PlaceSummary, 0, len(results))
	for _, p := range results {
		s := models.PlaceSummary{
			PlaceID:          p.PlaceID,
			DisplayName:      p.Name,
			FormattedAddress: p.FormattedAddress,
			Rating:           p.Rating,
			UserRatingCount:  p.UserRatingsTotal,
			Types:            p.Types,
		}
		if s.FormattedAddress == "" {
			s.FormattedAddress = p.Vicinity
		}
		if len(p.Types) > 0 {
			s.PrimaryType = p.Types[0]
		}
		if p.Geometry != nil && p.Geometry.Location != nil {
			s.Latitude = p.Geometry.Location.Lat
			s.Longitude = p.Geometry.Location.Lng
		}
		out = append(out, s)
	}
	return out
}

func summarizeV1(results []places.Place) []models.PlaceSummary {
	out := make([]models.PlaceSummary, 0, len(results))
	for _, p := range results {
		s := models.PlaceSummary{
			PlaceID:          p.ID,
			FormattedAddress: p.FormattedAddress,
			Rating:           p.Rating,
			UserRatingCount:  p.UserRatingCount,
			PrimaryType:      p.PrimaryType,
			Types:            p.Types,
		}
		if p.DisplayName != nil {
			s.DisplayName = p.DisplayName.Text
		}
		if p.Location != nil {
			s.Latitude = p.Location.Latitude
			s.Longitude = p.Location.Longitude
		}
		out = append(out, s)
	}
	return out
}
