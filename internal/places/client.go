package places

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const v1BaseURL = "https://places.googleapis.com/v1"

// detailsFieldMask keeps the details payload down to the fields the mapper
// actually consumes.
const detailsFieldMask = "id,displayName,formattedAddress,shortFormattedAddress," +
	"location,rating,userRatingCount,googleMapsUri,websiteUri,primaryType,types," +
	"regularOpeningHours,currentOpeningHours,regularSecondaryOpeningHours,photos," +
	"parkingOptions,paymentOptions,accessibilityOptions,dineIn,takeout,delivery," +
	"curbsidePickup,reservable,priceLevel,reviews"

const searchFieldMask = "places.id,places.displayName,places.formattedAddress," +
	"places.location,places.rating,places.userRatingCount,places.primaryType,places.types"

// Client talks to the new Places API (v1). Resolving a photo URL is an
// asynchronous media call per photo.
type Client struct {
	client  *resty.Client
	apiKey  string
	baseURL string
}

// NewClient constructs a v1 Client with the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		client:  resty.New().SetTimeout(30 * time.Second),
		apiKey:  apiKey,
		baseURL: v1BaseURL,
	}
}

// NewClientWithURL points the client at a custom base URL (for tests).
func NewClientWithURL(baseURL, apiKey string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

type v1ErrorResponse struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

type v1SearchResponse struct {
	Places []Place `json:"places"`
}

// Details fetches a place by its place id.
func (c *Client) Details(ctx context.Context, placeID string) (*Place, error) {
	var out Place
	var apiErr v1ErrorResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("X-Goog-Api-Key", c.apiKey).
		SetHeader("X-Goog-FieldMask", detailsFieldMask).
		SetResult(&out).
		SetError(&apiErr).
		Get(c.baseURL + "/places/" + placeID)
	if err != nil {
		return nil, fmt.Errorf("place details request: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrPlaceNotFound, placeID)
	}
	if resp.IsError() {
		if apiErr.Error != nil {
			return nil, fmt.Errorf("place details: %s (%s)", apiErr.Error.Message, apiErr.Error.Status)
		}
		return nil, fmt.Errorf("place details returned status %d", resp.StatusCode())
	}
	return &out, nil
}

// SearchText runs a free-text place search.
func (c *Client) SearchText(ctx context.Context, query string) ([]Place, error) {
	var out v1SearchResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("X-Goog-Api-Key", c.apiKey).
		SetHeader("X-Goog-FieldMask", searchFieldMask).
		SetBody(map[string]any{"textQuery": query}).
		SetResult(&out).
		Post(c.baseURL + "/places:searchText")
	if err != nil {
		return nil, fmt.Errorf("text search request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("text search returned status %d", resp.StatusCode())
	}
	return out.Places, nil
}

// SearchNearby finds places around a coordinate within radius meters,
// optionally restricted to a primary type.
func (c *Client) SearchNearby(ctx context.Context, lat, lng float64, radius int, placeType string) ([]Place, error) {
	body := map[string]any{
		"locationRestriction": map[string]any{
			"circle": map[string]any{
				"center": map[string]float64{"latitude": lat, "longitude": lng},
				"radius": float64(radius),
			},
		},
	}
	if placeType != "" {
		body["includedTypes"] = []string{placeType}
	}

	var out v1SearchResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("X-Goog-Api-Key", c.apiKey).
		SetHeader("X-Goog-FieldMask", searchFieldMask).
		SetBody(body).
		SetResult(&out).
		Post(c.baseURL + "/places:searchNearby")
	if err != nil {
		return nil, fmt.Errorf("nearby search request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("nearby search returned status %d", resp.StatusCode())
	}
	return out.Places, nil
}

type v1MediaResponse struct {
	Name     string `json:"name"`
	PhotoURI string `json:"photoUri"`
}

// ResolvePhotoURL asks the media endpoint for the display URL of a photo
// resource name. skipHttpRedirect makes the endpoint return JSON instead
// of a 302 to the image bytes.
func (c *Client) ResolvePhotoURL(ctx context.Context, ref string, maxWidthPx int) (string, error) {
	if ref == "" {
		return "", nil
	}

	var out v1MediaResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("X-Goog-Api-Key", c.apiKey).
		SetQueryParam("maxWidthPx", strconv.Itoa(maxWidthPx)).
		SetQueryParam("skipHttpRedirect", "true").
		SetResult(&out).
		Get(c.baseURL + "/" + ref + "/media")
	if err != nil {
		return "", fmt.Errorf("photo media request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("photo media returned status %d", resp.StatusCode())
	}
	return out.PhotoURI, nil
}
