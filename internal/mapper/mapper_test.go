package mapper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gezgin/placewise/internal/models"
	"github.com/gezgin/placewise/internal/places"
)

// fakeResolver records requested widths and returns canned URLs per ref.
type fakeResolver struct {
	mu     sync.Mutex
	widths map[string]int
	urls   map[string]string
	errs   map[string]error
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		widths: make(map[string]int),
		urls:   make(map[string]string),
		errs:   make(map[string]error),
	}
}

func (f *fakeResolver) ResolvePhotoURL(_ context.Context, ref string, maxWidthPx int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.widths[ref] = maxWidthPx
	if err := f.errs[ref]; err != nil {
		return "", err
	}
	if url, ok := f.urls[ref]; ok {
		return url, nil
	}
	return "https://photos.example.com/" + ref, nil
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func TestFromNewRejectsMissingLocation(t *testing.T) {
	_, err := FromNew(context.Background(), &places.Place{ID: "x"}, nil, nil)
	assert.ErrorIs(t, err, ErrMissingLocation)

	_, err = FromNew(context.Background(), nil, nil, nil)
	assert.ErrorIs(t, err, ErrMissingLocation)
}

func TestFromLegacyRejectsMissingGeometry(t *testing.T) {
	_, err := FromLegacy(context.Background(), &places.LegacyPlace{PlaceID: "x"}, nil, nil)
	assert.ErrorIs(t, err, ErrMissingLocation)

	_, err = FromLegacy(context.Background(), &places.LegacyPlace{
		PlaceID:  "x",
		Geometry: &places.LegacyGeometry{},
	}, nil, nil)
	assert.ErrorIs(t, err, ErrMissingLocation)
}

func TestFromNewBasicFields(t *testing.T) {
	p := &places.Place{
		ID:               "abc",
		DisplayName:      &places.LocalizedText{Text: "Cafe X", LanguageCode: "en"},
		FormattedAddress: "1 Main St, Springfield",
		Location:         &places.LatLng{Latitude: 41.01, Longitude: 28.97},
		Rating:           4.4,
		UserRatingCount:  120,
		PrimaryType:      "cafe",
		Types:            []string{"cafe", "food"},
		PriceLevel:       "PRICE_LEVEL_MODERATE",
	}

	asset, err := FromNew(context.Background(), p, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "abc", asset.PlaceID)
	assert.Equal(t, "Cafe X", asset.DisplayName)
	assert.Equal(t, "en", asset.LanguageCode)
	assert.Equal(t, 41.01, asset.Latitude)
	assert.Equal(t, 28.97, asset.Longitude)
	assert.Equal(t, models.PriceLevelModerate, asset.PriceLevel)
	assert.Equal(t, models.CategoryDefault, asset.Category)
	assert.Empty(t, asset.Description)
	assert.Empty(t, asset.Tags)
}

func TestFromNewPhotoWidthCappedAt800(t *testing.T) {
	resolver := newFakeResolver()
	p := &places.Place{
		ID:       "abc",
		Location: &places.LatLng{Latitude: 1, Longitude: 2},
		Photos: []places.V1Photo{
			{Name: "photos/wide", WidthPx: 1200, HeightPx: 900},
			{Name: "photos/narrow", WidthPx: 640, HeightPx: 480},
		},
	}

	asset, err := FromNew(context.Background(), p, resolver, nil)
	require.NoError(t, err)
	require.Len(t, asset.Photos, 2)

	assert.Equal(t, 800, resolver.widths["photos/wide"])
	assert.Equal(t, 640, resolver.widths["photos/narrow"])

	// Stored dimensions stay as reported, only the resolved URL is capped.
	assert.Equal(t, 1200, asset.Photos[0].WidthPx)
	assert.Equal(t, 640, asset.Photos[1].WidthPx)
	assert.Equal(t, "https://photos.example.com/photos/wide", asset.Photos[0].PhotoURI)
}

func TestFromNewPhotoOrderPreservedAndFailuresDropped(t *testing.T) {
	resolver := newFakeResolver()
	resolver.errs["photos/b"] = errors.New("media endpoint down")
	resolver.urls["photos/d"] = ""

	p := &places.Place{
		ID:       "abc",
		Location: &places.LatLng{Latitude: 1, Longitude: 2},
		Photos: []places.V1Photo{
			{Name: "photos/a", WidthPx: 100},
			{Name: "photos/b", WidthPx: 100},
			{Name: ""}, // no resource name
			{Name: "photos/c", WidthPx: 100},
			{Name: "photos/d", WidthPx: 100}, // resolves to empty URI
		},
	}

	asset, err := FromNew(context.Background(), p, resolver, nil)
	require.NoError(t, err)
	require.Len(t, asset.Photos, 2)
	assert.Equal(t, "photos/a", asset.Photos[0].Name)
	assert.Equal(t, "photos/c", asset.Photos[1].Name)
}

func TestFromNewNilResolverKeepsPhotosWithoutURI(t *testing.T) {
	p := &places.Place{
		ID:       "abc",
		Location: &places.LatLng{Latitude: 1, Longitude: 2},
		Photos:   []places.V1Photo{{Name: "photos/a", WidthPx: 100}},
	}

	asset, err := FromNew(context.Background(), p, nil, nil)
	require.NoError(t, err)
	require.Len(t, asset.Photos, 1)
	assert.Empty(t, asset.Photos[0].PhotoURI)
}

func TestFromNewOptionGroupsNilStaysNil(t *testing.T) {
	p := &places.Place{
		ID:       "abc",
		Location: &places.LatLng{Latitude: 1, Longitude: 2},
	}

	asset, err := FromNew(context.Background(), p, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, asset.ParkingOptions)
	assert.Nil(t, asset.PaymentOptions)
	assert.Nil(t, asset.AccessibilityOptions)
	assert.Nil(t, asset.DiningOptions)
}

func TestFromNewOptionFlagsNeverCoercedToFalse(t *testing.T) {
	p := &places.Place{
		ID:       "abc",
		Location: &places.LatLng{Latitude: 1, Longitude: 2},
		ParkingOptions: &places.V1ParkingOptions{
			FreeParkingLot: boolPtr(true),
			// every other flag unreported
		},
		PaymentOptions: &places.V1PaymentOptions{
			AcceptsCashOnly: boolPtr(false),
		},
		DineIn:  boolPtr(true),
		Takeout: nil,
	}

	asset, err := FromNew(context.Background(), p, nil, nil)
	require.NoError(t, err)

	require.NotNil(t, asset.ParkingOptions)
	require.NotNil(t, asset.ParkingOptions.FreeParkingLot)
	assert.True(t, *asset.ParkingOptions.FreeParkingLot)
	assert.Nil(t, asset.ParkingOptions.PaidParkingLot)
	assert.Nil(t, asset.ParkingOptions.ValetParking)

	require.NotNil(t, asset.PaymentOptions.AcceptsCashOnly)
	assert.False(t, *asset.PaymentOptions.AcceptsCashOnly)
	assert.Nil(t, asset.PaymentOptions.AcceptsCreditCards)

	require.NotNil(t, asset.DiningOptions)
	require.NotNil(t, asset.DiningOptions.DineIn)
	assert.True(t, *asset.DiningOptions.DineIn)
	assert.Nil(t, asset.DiningOptions.Takeout)
}

func TestFromNewHoursAbsentSubfieldsDefaultToZero(t *testing.T) {
	p := &places.Place{
		ID:       "abc",
		Location: &places.LatLng{Latitude: 1, Longitude: 2},
		RegularOpeningHours: &places.V1OpeningHours{
			Periods: []places.V1Period{
				{
					Open:  &places.V1TimePoint{Day: intPtr(1), Hour: intPtr(9), Minute: intPtr(30)},
					Close: &places.V1TimePoint{Day: intPtr(1), Hour: intPtr(17)},
				},
				{
					Open: &places.V1TimePoint{Day: intPtr(2)},
				},
			},
		},
	}

	asset, err := FromNew(context.Background(), p, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, asset.RegularOpeningHours)
	require.Len(t, asset.RegularOpeningHours.Periods, 2)

	first := asset.RegularOpeningHours.Periods[0]
	assert.Equal(t, models.HoursPoint{Day: 1, Hour: 9, Minute: 30}, first.Open)
	assert.Equal(t, models.HoursPoint{Day: 1, Hour: 17, Minute: 0}, first.Close)

	second := asset.RegularOpeningHours.Periods[1]
	assert.Equal(t, models.HoursPoint{Day: 2}, second.Open)
	assert.Equal(t, models.HoursPoint{}, second.Close)
}

func TestFromLegacyParsesHHMMTimes(t *testing.T) {
	p := &places.LegacyPlace{
		PlaceID: "abc",
		Geometry: &places.LegacyGeometry{
			Location: &places.LegacyLatLng{Lat: 1, Lng: 2},
		},
		OpeningHours: &places.LegacyOpeningHours{
			Periods: []places.LegacyPeriod{
				{
					Open:  &places.LegacyTimePoint{Day: 1, Time: "0930"},
					Close: &places.LegacyTimePoint{Day: 1, Time: "1745"},
				},
				{
					Open: &places.LegacyTimePoint{Day: 2, Time: "bad"},
				},
			},
		},
	}

	asset, err := FromLegacy(context.Background(), p, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, asset.RegularOpeningHours)
	require.Len(t, asset.RegularOpeningHours.Periods, 2)

	assert.Equal(t, models.HoursPoint{Day: 1, Hour: 9, Minute: 30}, asset.RegularOpeningHours.Periods[0].Open)
	assert.Equal(t, models.HoursPoint{Day: 1, Hour: 17, Minute: 45}, asset.RegularOpeningHours.Periods[0].Close)
	assert.Equal(t, models.HoursPoint{Day: 2}, asset.RegularOpeningHours.Periods[1].Open)
}

func TestFromLegacyPriceLevelIndex(t *testing.T) {
	base := func(level *int) *places.LegacyPlace {
		return &places.LegacyPlace{
			PlaceID: "abc",
			Geometry: &places.LegacyGeometry{
				Location: &places.LegacyLatLng{Lat: 1, Lng: 2},
			},
			PriceLevel: level,
		}
	}

	asset, err := FromLegacy(context.Background(), base(intPtr(2)), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PriceLevelModerate, asset.PriceLevel)

	asset, err = FromLegacy(context.Background(), base(nil), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, asset.PriceLevel)

	asset, err = FromLegacy(context.Background(), base(intPtr(9)), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, asset.PriceLevel)
}

func TestFromLegacyPhotoResolveErrorKeepsPhoto(t *testing.T) {
	resolver := newFakeResolver()
	resolver.errs["ref-1"] = errors.New("boom")

	p := &places.LegacyPlace{
		PlaceID: "abc",
		Geometry: &places.LegacyGeometry{
			Location: &places.LegacyLatLng{Lat: 1, Lng: 2},
		},
		Photos: []places.LegacyPhoto{
			{PhotoReference: "ref-1", Width: 1600, Height: 1200},
			{PhotoReference: "", Width: 100},
			{PhotoReference: "ref-2", Width: 400, Height: 300},
		},
	}

	asset, err := FromLegacy(context.Background(), p, resolver, nil)
	require.NoError(t, err)
	require.Len(t, asset.Photos, 2)

	assert.Equal(t, "ref-1", asset.Photos[0].Name)
	assert.Empty(t, asset.Photos[0].PhotoURI)
	assert.Equal(t, 1600, asset.Photos[0].WidthPx)
	assert.Equal(t, 800, resolver.widths["ref-1"])

	assert.Equal(t, "ref-2", asset.Photos[1].Name)
	assert.Equal(t, "https://photos.example.com/ref-2", asset.Photos[1].PhotoURI)
	assert.Equal(t, 400, resolver.widths["ref-2"])
}

func TestParseReviewTime(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
	}{
		{`1690000000`, 1690000000},
		{`"1690000000"`, 1690000000},
		{`"not a number"`, 0},
		{`null`, 0},
		{``, 0},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("raw=%s", tc.raw), func(t *testing.T) {
			assert.Equal(t, tc.want, parseReviewTime(json.RawMessage(tc.raw)))
		})
	}
}

func TestFromLegacyReviews(t *testing.T) {
	p := &places.LegacyPlace{
		PlaceID: "abc",
		Geometry: &places.LegacyGeometry{
			Location: &places.LegacyLatLng{Lat: 1, Lng: 2},
		},
		Reviews: []places.LegacyReview{
			{
				AuthorName:              "Ada",
				Rating:                  5,
				RelativeTimeDescription: "a week ago",
				Text:                    "Great coffee.",
				Time:                    json.RawMessage(`"1690000000"`),
			},
		},
	}

	asset, err := FromLegacy(context.Background(), p, nil, nil)
	require.NoError(t, err)
	require.Len(t, asset.Reviews, 1)
	assert.Equal(t, "Ada", asset.Reviews[0].Author.DisplayName)
	assert.Equal(t, int64(1690000000), asset.Reviews[0].PublishTime)
}

func TestApplyAIContent(t *testing.T) {
	p := &places.Place{
		ID:       "abc",
		Location: &places.LatLng{Latitude: 1, Longitude: 2},
	}

	asset, err := FromNew(context.Background(), p, nil, &AIContent{
		Description: "A cozy spot.",
		Tags:        []string{"coffee", "quiet"},
		LandingPage: "<html></html>",
	})
	require.NoError(t, err)
	assert.Equal(t, "A cozy spot.", asset.Description)
	assert.Equal(t, []string{"coffee", "quiet"}, asset.Tags)
	assert.Equal(t, "<html></html>", asset.LandingPage)
}
