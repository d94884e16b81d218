package models

// PlaceSummary is the compact provider search result shape, shared by
// both provider generations.
type PlaceSummary struct {
	PlaceID          string   `json:"place_id"`
	DisplayName      string   `json:"display_name"`
	FormattedAddress string   `json:"formatted_address,omitempty"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	Rating           float64  `json:"rating,omitempty"`
	UserRatingCount  int      `json:"user_rating_count,omitempty"`
	PrimaryType      string   `json:"primary_type,omitempty"`
	Types            []string `json:"types,omitempty"`
}
