package places

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrPlaceNotFound is returned when the provider has no record for a
// place id or a search returns nothing usable.
var ErrPlaceNotFound = errors.New("place not found")

// PhotoResolver turns a provider photo reference into a displayable URL.
// The legacy API builds the URL locally; the new API requires a network
// round trip per photo.
type PhotoResolver interface {
	ResolvePhotoURL(ctx context.Context, ref string, maxWidthPx int) (string, error)
}

// LatLng is a geographic coordinate pair.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// --- legacy Place Details shape (maps/api/place) ---

// LegacyPlace is the raw place record from the legacy Places API. Nearly
// every field is optional; the mapper owns all defaulting.
type LegacyPlace struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Vicinity         string   `json:"vicinity"`
	Geometry         *LegacyGeometry `json:"geometry"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	URL              string   `json:"url"`
	Website          string   `json:"website"`
	Types            []string `json:"types"`
	OpeningHours     *LegacyOpeningHours `json:"opening_hours"`
	CurrentHours     *LegacyOpeningHours `json:"current_opening_hours"`
	SecondaryHours   []LegacySecondaryHours `json:"secondary_opening_hours"`
	Photos           []LegacyPhoto  `json:"photos"`
	PriceLevel       *int           `json:"price_level"`
	Reviews          []LegacyReview `json:"reviews"`
}

type LegacyGeometry struct {
	Location *LegacyLatLng `json:"location"`
}

type LegacyLatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type LegacyOpeningHours struct {
	OpenNow     *bool              `json:"open_now"`
	Periods     []LegacyPeriod     `json:"periods"`
	WeekdayText []string           `json:"weekday_text"`
}

type LegacySecondaryHours struct {
	Type string `json:"type"`
	LegacyOpeningHours
}

// LegacyPeriod carries times as "hhmm" strings, e.g. {"day":1,"time":"0930"}.
type LegacyPeriod struct {
	Open  *LegacyTimePoint `json:"open"`
	Close *LegacyTimePoint `json:"close"`
}

type LegacyTimePoint struct {
	Day  int    `json:"day"`
	Time string `json:"time"`
}

type LegacyPhoto struct {
	PhotoReference   string   `json:"photo_reference"`
	Width            int      `json:"width"`
	Height           int      `json:"height"`
	HTMLAttributions []string `json:"html_attributions"`
}

// LegacyReview times arrive as a unix timestamp that some API versions
// serialize as a number and others as a numeric string.
type LegacyReview struct {
	AuthorName              string          `json:"author_name"`
	AuthorURL               string          `json:"author_url"`
	ProfilePhotoURL         string          `json:"profile_photo_url"`
	Rating                  float64         `json:"rating"`
	RelativeTimeDescription string          `json:"relative_time_description"`
	Text                    string          `json:"text"`
	Language                string          `json:"language"`
	Time                    json.RawMessage `json:"time"`
}

// --- new Places API v1 shape (places.googleapis.com/v1) ---

// Place is the raw place record from the new Places API.
type Place struct {
	ID                    string          `json:"id"`
	DisplayName           *LocalizedText  `json:"displayName"`
	FormattedAddress      string          `json:"formattedAddress"`
	ShortFormattedAddress string          `json:"shortFormattedAddress"`
	Location              *LatLng         `json:"location"`
	Rating                float64         `json:"rating"`
	UserRatingCount       int             `json:"userRatingCount"`
	GoogleMapsURI         string          `json:"googleMapsUri"`
	WebsiteURI            string          `json:"websiteUri"`
	PrimaryType           string          `json:"primaryType"`
	Types                 []string        `json:"types"`
	RegularOpeningHours   *V1OpeningHours `json:"regularOpeningHours"`
	CurrentOpeningHours   *V1OpeningHours `json:"currentOpeningHours"`
	RegularSecondaryOpeningHours []V1SecondaryHours `json:"regularSecondaryOpeningHours"`
	Photos                []V1Photo       `json:"photos"`
	ParkingOptions        *V1ParkingOptions `json:"parkingOptions"`
	PaymentOptions        *V1PaymentOptions `json:"paymentOptions"`
	AccessibilityOptions  *V1AccessibilityOptions `json:"accessibilityOptions"`
	DineIn                *bool           `json:"dineIn"`
	Takeout               *bool           `json:"takeout"`
	Delivery              *bool           `json:"delivery"`
	CurbsidePickup        *bool           `json:"curbsidePickup"`
	Reservable            *bool           `json:"reservable"`
	PriceLevel            string          `json:"priceLevel"`
	Reviews               []V1Review      `json:"reviews"`
}

type LocalizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode"`
}

type V1OpeningHours struct {
	OpenNow             *bool      `json:"openNow"`
	Periods             []V1Period `json:"periods"`
	WeekdayDescriptions []string   `json:"weekdayDescriptions"`
}

type V1SecondaryHours struct {
	SecondaryHoursType string `json:"secondaryHoursType"`
	V1OpeningHours
}

type V1Period struct {
	Open  *V1TimePoint `json:"open"`
	Close *V1TimePoint `json:"close"`
}

// V1TimePoint uses pointers so the mapper can distinguish "absent" (default
// to 0) from an explicit value.
type V1TimePoint struct {
	Day    *int `json:"day"`
	Hour   *int `json:"hour"`
	Minute *int `json:"minute"`
}

type V1Photo struct {
	Name               string                `json:"name"`
	WidthPx            int                   `json:"widthPx"`
	HeightPx           int                   `json:"heightPx"`
	AuthorAttributions []V1AuthorAttribution `json:"authorAttributions"`
}

type V1AuthorAttribution struct {
	DisplayName string `json:"displayName"`
	URI         string `json:"uri"`
	PhotoURI    string `json:"photoUri"`
}

type V1ParkingOptions struct {
	FreeParkingLot    *bool `json:"freeParkingLot"`
	PaidParkingLot    *bool `json:"paidParkingLot"`
	FreeStreetParking *bool `json:"freeStreetParking"`
	PaidStreetParking *bool `json:"paidStreetParking"`
	ValetParking      *bool `json:"valetParking"`
	FreeGarageParking *bool `json:"freeGarageParking"`
	PaidGarageParking *bool `json:"paidGarageParking"`
}

type V1PaymentOptions struct {
	AcceptsCreditCards *bool `json:"acceptsCreditCards"`
	AcceptsDebitCards  *bool `json:"acceptsDebitCards"`
	AcceptsCashOnly    *bool `json:"acceptsCashOnly"`
	AcceptsNFC         *bool `json:"acceptsNfc"`
}

type V1AccessibilityOptions struct {
	WheelchairAccessibleParking  *bool `json:"wheelchairAccessibleParking"`
	WheelchairAccessibleEntrance *bool `json:"wheelchairAccessibleEntrance"`
	WheelchairAccessibleRestroom *bool `json:"wheelchairAccessibleRestroom"`
	WheelchairAccessibleSeating  *bool `json:"wheelchairAccessibleSeating"`
}

type V1Review struct {
	Name                           string               `json:"name"`
	RelativePublishTimeDescription string               `json:"relativePublishTimeDescription"`
	Rating                         float64              `json:"rating"`
	Text                           *LocalizedText       `json:"text"`
	AuthorAttribution              *V1AuthorAttribution `json:"authorAttribution"`
	PublishTime                    string               `json:"publishTime"`
}
