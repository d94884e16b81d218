package places

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const legacyBaseURL = "https://maps.googleapis.com/maps/api/place"

// LegacyClient talks to the legacy Places API. Photo URLs are constructed
// locally from the photo reference, no extra round trip needed.
type LegacyClient struct {
	client  *resty.Client
	apiKey  string
	baseURL string
}

// NewLegacyClient constructs a LegacyClient with the given API key.
func NewLegacyClient(apiKey string) *LegacyClient {
	return &LegacyClient{
		client:  resty.New().SetTimeout(30 * time.Second),
		apiKey:  apiKey,
		baseURL: legacyBaseURL,
	}
}

// NewLegacyClientWithURL points the client at a custom base URL (for tests).
func NewLegacyClientWithURL(baseURL, apiKey string) *LegacyClient {
	c := NewLegacyClient(apiKey)
	c.baseURL = baseURL
	return c
}

type legacyDetailsResponse struct {
	Result       *LegacyPlace `json:"result"`
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message"`
}

type legacySearchResponse struct {
	Results      []LegacyPlace `json:"results"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
}

// Details fetches a place by its place id.
func (c *LegacyClient) Details(ctx context.Context, placeID string) (*LegacyPlace, error) {
	var out legacyDetailsResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"place_id": placeID,
			"key":      c.apiKey,
		}).
		SetResult(&out).
		Get(c.baseURL + "/details/json")
	if err != nil {
		return nil, fmt.Errorf("place details request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("place details returned status %d", resp.StatusCode())
	}

	switch out.Status {
	case "OK":
		return out.Result, nil
	case "ZERO_RESULTS", "NOT_FOUND", "INVALID_REQUEST":
		return nil, fmt.Errorf("%w: %s", ErrPlaceNotFound, placeID)
	default:
		return nil, fmt.Errorf("place details status %s: %s", out.Status, out.ErrorMessage)
	}
}

// TextSearch runs a free-text place search.
func (c *LegacyClient) TextSearch(ctx context.Context, query string) ([]LegacyPlace, error) {
	var out legacySearchResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query": query,
			"key":   c.apiKey,
		}).
		SetResult(&out).
		Get(c.baseURL + "/textsearch/json")
	if err != nil {
		return nil, fmt.Errorf("text search request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("text search returned status %d", resp.StatusCode())
	}
	if out.Status != "OK" && out.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("text search status %s: %s", out.Status, out.ErrorMessage)
	}
	return out.Results, nil
}

// NearbySearch finds places around a coordinate within radius meters,
// optionally restricted to a place type.
func (c *LegacyClient) NearbySearch(ctx context.Context, lat, lng float64, radius int, placeType string) ([]LegacyPlace, error) {
	params := map[string]string{
		"location": fmt.Sprintf("%f,%f", lat, lng),
		"radius":   strconv.Itoa(radius),
		"key":      c.apiKey,
	}
	if placeType != "" {
		params["type"] = placeType
	}

	var out legacySearchResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		Get(c.baseURL + "/nearbysearch/json")
	if err != nil {
		return nil, fmt.Errorf("nearby search request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("nearby search returned status %d", resp.StatusCode())
	}
	if out.Status != "OK" && out.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("nearby search status %s: %s", out.Status, out.ErrorMessage)
	}
	return out.Results, nil
}

// ResolvePhotoURL builds the photo URL for a legacy photo reference.
// The caller is responsible for capping maxWidthPx.
func (c *LegacyClient) ResolvePhotoURL(_ context.Context, ref string, maxWidthPx int) (string, error) {
	if ref == "" {
		return "", nil
	}
	return fmt.Sprintf("%s/photo?maxwidth=%d&photo_reference=%s&key=%s",
		c.baseURL, maxWidthPx, url.QueryEscape(ref), c.apiKey), nil
}
