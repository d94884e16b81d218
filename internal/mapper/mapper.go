package mapper

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gezgin/placewise/internal/logger"
	"github.com/gezgin/placewise/internal/models"
	"github.com/gezgin/placewise/internal/places"
)

// ErrMissingLocation is returned when a raw place record carries no
// geometry. An Asset without coordinates must never be persisted.
var ErrMissingLocation = errors.New("place geometry/location missing")

// maxPhotoWidth caps the width used when resolving a displayable photo
// URL. The stored source width is kept as reported by the provider.
const maxPhotoWidth = 800

// AIContent carries already-generated content to attach at map time.
type AIContent struct {
	Description string
	Tags        []string
	LandingPage string
}

// FromNew maps a raw v1 place record into an Asset. Pure aside from the
// injected photo resolver, which performs one media call per photo.
func FromNew(ctx context.Context, p *places.Place, resolver places.PhotoResolver, ai *AIContent) (*models.Asset, error) {
	if p == nil || p.Location == nil {
		return nil, ErrMissingLocation
	}

	asset := &models.Asset{
		PlaceID:          p.ID,
		FormattedAddress: p.FormattedAddress,
		ShortAddress:     p.ShortFormattedAddress,
		Latitude:         p.Location.Latitude,
		Longitude:        p.Location.Longitude,
		Rating:           p.Rating,
		UserRatingCount:  p.UserRatingCount,
		GoogleMapsURI:    p.GoogleMapsURI,
		WebsiteURI:       p.WebsiteURI,
		PrimaryType:      p.PrimaryType,
		Types:            p.Types,
		Category:         models.CategoryDefault,

		ParkingOptions:       parkingOptions(p.ParkingOptions),
		PaymentOptions:       paymentOptions(p.PaymentOptions),
		AccessibilityOptions: accessibilityOptions(p.AccessibilityOptions),
		DiningOptions:        diningOptions(p),
		PriceLevel:           models.ParsePriceLevel(p.PriceLevel),
	}

	if p.DisplayName != nil {
		asset.DisplayName = p.DisplayName.Text
		asset.LanguageCode = p.DisplayName.LanguageCode
	}

	asset.RegularOpeningHours = hoursFromV1(p.RegularOpeningHours)
	asset.CurrentOpeningHours = hoursFromV1(p.CurrentOpeningHours)
	for _, sh := range p.RegularSecondaryOpeningHours {
		asset.SecondaryOpeningHours = append(asset.SecondaryOpeningHours, models.SecondaryOpeningHours{
			HoursType: sh.SecondaryHoursType,
			Periods:   periodsFromV1(sh.Periods),
		})
	}

	asset.Photos = resolveV1Photos(ctx, p.Photos, resolver)
	asset.Reviews = reviewsFromV1(p.Reviews)

	applyAIContent(asset, ai)
	return asset, nil
}

// FromLegacy maps a raw legacy place record into an Asset.
func FromLegacy(ctx context.Context, p *places.LegacyPlace, resolver places.PhotoResolver, ai *AIContent) (*models.Asset, error) {
	if p == nil || p.Geometry == nil || p.Geometry.Location == nil {
		return nil, ErrMissingLocation
	}

	asset := &models.Asset{
		PlaceID:          p.PlaceID,
		DisplayName:      p.Name,
		FormattedAddress: p.FormattedAddress,
		ShortAddress:     p.Vicinity,
		Latitude:         p.Geometry.Location.Lat,
		Longitude:        p.Geometry.Location.Lng,
		Rating:           p.Rating,
		UserRatingCount:  p.UserRatingsTotal,
		GoogleMapsURI:    p.URL,
		WebsiteURI:       p.Website,
		Types:            p.Types,
		Category:         models.CategoryDefault,
	}
	if len(p.Types) > 0 {
		asset.PrimaryType = p.Types[0]
	}
	if p.PriceLevel != nil {
		asset.PriceLevel = models.PriceLevelFromIndex(*p.PriceLevel)
	}

	asset.RegularOpeningHours = hoursFromLegacy(p.OpeningHours)
	asset.CurrentOpeningHours = hoursFromLegacy(p.CurrentHours)
	for _, sh := range p.SecondaryHours {
		asset.SecondaryOpeningHours = append(asset.SecondaryOpeningHours, models.SecondaryOpeningHours{
			HoursType: sh.Type,
			Periods:   periodsFromLegacy(sh.Periods),
		})
	}

	asset.Photos = resolveLegacyPhotos(ctx, p.Photos, resolver)
	asset.Reviews = reviewsFromLegacy(p.Reviews)

	applyAIContent(asset, ai)
	return asset, nil
}

func applyAIContent(asset *models.Asset, ai *AIContent) {
	if ai == nil {
		return
	}
	asset.Description = ai.Description
	asset.Tags = ai.Tags
	asset.LandingPage = ai.LandingPage
}

// --- opening hours ---

func hoursFromV1(src *places.V1OpeningHours) *models.OpeningHours {
	if src == nil {
		return nil
	}
	return &models.OpeningHours{
		OpenNow:             src.OpenNow,
		Periods:             periodsFromV1(src.Periods),
		WeekdayDescriptions: src.WeekdayDescriptions,
	}
}

func periodsFromV1(src []places.V1Period) []models.Period {
	out := make([]models.Period, 0, len(src))
	for _, p := range src {
		out = append(out, models.Period{
			Open:  pointFromV1(p.Open),
			Close: pointFromV1(p.Close),
		})
	}
	return out
}

// pointFromV1 defaults every absent sub-field to 0.
func pointFromV1(src *places.V1TimePoint) models.HoursPoint {
	var out models.HoursPoint
	if src == nil {
		return out
	}
	if src.Day != nil {
		out.Day = *src.Day
	}
	if src.Hour != nil {
		out.Hour = *src.Hour
	}
	if src.Minute != nil {
		out.Minute = *src.Minute
	}
	return out
}

func hoursFromLegacy(src *places.LegacyOpeningHours) *models.OpeningHours {
	if src == nil {
		return nil
	}
	return &models.OpeningHours{
		OpenNow:             src.OpenNow,
		Periods:             periodsFromLegacy(src.Periods),
		WeekdayDescriptions: src.WeekdayText,
	}
}

func periodsFromLegacy(src []places.LegacyPeriod) []models.Period {
	out := make([]models.Period, 0, len(src))
	for _, p := range src {
		out = append(out, models.Period{
			Open:  pointFromLegacy(p.Open),
			Close: pointFromLegacy(p.Close),
		})
	}
	return out
}

// pointFromLegacy parses the legacy "hhmm" time string. Malformed or
// missing times degrade to 0.
func pointFromLegacy(src *places.LegacyTimePoint) models.HoursPoint {
	var out models.HoursPoint
	if src == nil {
		return out
	}
	out.Day = src.Day
	if len(src.Time) == 4 {
		if h, err := strconv.Atoi(src.Time[:2]); err == nil {
			out.Hour = h
		}
		if m, err := strconv.Atoi(src.Time[2:]); err == nil {
			out.Minute = m
		}
	}
	return out
}

// --- photos ---

// resolveV1Photos resolves display URLs for all photos concurrently,
// preserving input order. Photos without a resource name, and photos whose
// media call yields nothing usable, are dropped.
func resolveV1Photos(ctx context.Context, photos []places.V1Photo, resolver places.PhotoResolver) []models.Photo {
	if len(photos) == 0 {
		return nil
	}

	slots := make([]*models.Photo, len(photos))
	g, gctx := errgroup.WithContext(ctx)

	for i, src := range photos {
		if src.Name == "" {
			continue
		}
		photo := &models.Photo{
			Name:     src.Name,
			WidthPx:  src.WidthPx,
			HeightPx: src.HeightPx,
		}
		for _, a := range src.AuthorAttributions {
			photo.AuthorAttributions = append(photo.AuthorAttributions, models.AuthorAttribution{
				DisplayName: a.DisplayName,
				URI:         a.URI,
				PhotoURI:    a.PhotoURI,
			})
		}

		if resolver == nil {
			slots[i] = photo
			continue
		}

		i, src := i, src
		g.Go(func() error {
			uri, err := resolver.ResolvePhotoURL(gctx, src.Name, min(src.WidthPx, maxPhotoWidth))
			if err != nil {
				logger.Get().Warn().Err(err).Str("photo", src.Name).Msg("photo media resolution failed")
				return nil
			}
			if uri == "" {
				return nil
			}
			photo.PhotoURI = uri
			slots[i] = photo
			return nil
		})
	}

	_ = g.Wait()

	out := make([]models.Photo, 0, len(photos))
	for _, p := range slots {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// resolveLegacyPhotos builds photo URLs synchronously; the legacy resolver
// does not perform I/O. Photos without a reference are dropped.
func resolveLegacyPhotos(ctx context.Context, photos []places.LegacyPhoto, resolver places.PhotoResolver) []models.Photo {
	out := make([]models.Photo, 0, len(photos))
	for _, src := range photos {
		if src.PhotoReference == "" {
			continue
		}
		photo := models.Photo{
			Name:     src.PhotoReference,
			WidthPx:  src.Width,
			HeightPx: src.Height,
		}
		if resolver != nil {
			uri, err := resolver.ResolvePhotoURL(ctx, src.PhotoReference, min(src.Width, maxPhotoWidth))
			if err != nil {
				logger.Get().Warn().Err(err).Str("photo", src.PhotoReference).Msg("photo URL resolution failed")
			} else {
				photo.PhotoURI = uri
			}
		}
		out = append(out, photo)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// --- reviews ---

func reviewsFromV1(src []places.V1Review) []models.Review {
	out := make([]models.Review, 0, len(src))
	for _, r := range src {
		review := models.Review{
			Name:         r.Name,
			RelativeTime: r.RelativePublishTimeDescription,
			Rating:       r.Rating,
		}
		if r.Text != nil {
			review.Text = r.Text.Text
			review.LanguageCode = r.Text.LanguageCode
		}
		if r.AuthorAttribution != nil {
			review.Author = models.AuthorAttribution{
				DisplayName: r.AuthorAttribution.DisplayName,
				URI:         r.AuthorAttribution.URI,
				PhotoURI:    r.AuthorAttribution.PhotoURI,
			}
		}
		out = append(out, review)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func reviewsFromLegacy(src []places.LegacyReview) []models.Review {
	out := make([]models.Review, 0, len(src))
	for _, r := range src {
		out = append(out, models.Review{
			RelativeTime: r.RelativeTimeDescription,
			Rating:       r.Rating,
			Text:         r.Text,
			LanguageCode: r.Language,
			PublishTime:  parseReviewTime(r.Time),
			Author: models.AuthorAttribution{
				DisplayName: r.AuthorName,
				URI:         r.AuthorURL,
				PhotoURI:    r.ProfilePhotoURL,
			},
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// parseReviewTime accepts the legacy review timestamp as either a JSON
// number or a numeric string. Anything else yields 0.
func parseReviewTime(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return 0
	}
	s := strings.Trim(string(raw), `"`)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
