package models

import "time"

// Category is the coarse place classification assigned by the AI step.
type Category string

const (
	CategoryCultural       Category = "Cultural"
	CategoryEntertainment  Category = "Entertainment"
	CategoryCommerce       Category = "Commerce"
	CategoryTransportation Category = "Transportation"
	CategoryPublicServices Category = "PublicServices"
	CategoryDefault        Category = "Default"
)

// Categories lists every valid category value.
var Categories = []Category{
	CategoryCultural,
	CategoryEntertainment,
	CategoryCommerce,
	CategoryTransportation,
	CategoryPublicServices,
	CategoryDefault,
}

// ParseCategory maps free text from the classifier onto the enum.
// Anything unrecognized falls back to CategoryDefault.
func ParseCategory(s string) Category {
	for _, c := range Categories {
		if string(c) == s {
			return c
		}
	}
	return CategoryDefault
}

// PriceLevel mirrors the Places API price level enum. The unspecified
// sentinel is never stored; absence is the empty string.
type PriceLevel string

const (
	PriceLevelFree          PriceLevel = "PRICE_LEVEL_FREE"
	PriceLevelInexpensive   PriceLevel = "PRICE_LEVEL_INEXPENSIVE"
	PriceLevelModerate      PriceLevel = "PRICE_LEVEL_MODERATE"
	PriceLevelExpensive     PriceLevel = "PRICE_LEVEL_EXPENSIVE"
	PriceLevelVeryExpensive PriceLevel = "PRICE_LEVEL_VERY_EXPENSIVE"

	priceLevelUnspecified PriceLevel = "PRICE_LEVEL_UNSPECIFIED"
)

// ParsePriceLevel returns the level when it is one of the five recognized
// values. The unspecified sentinel and arbitrary strings map to "".
func ParsePriceLevel(s string) PriceLevel {
	switch PriceLevel(s) {
	case PriceLevelFree, PriceLevelInexpensive, PriceLevelModerate,
		PriceLevelExpensive, PriceLevelVeryExpensive:
		return PriceLevel(s)
	}
	return ""
}

// PriceLevelFromIndex translates the legacy 0-4 integer scale.
func PriceLevelFromIndex(i int) PriceLevel {
	levels := []PriceLevel{
		PriceLevelFree,
		PriceLevelInexpensive,
		PriceLevelModerate,
		PriceLevelExpensive,
		PriceLevelVeryExpensive,
	}
	if i < 0 || i >= len(levels) {
		return ""
	}
	return levels[i]
}

// HoursPoint is one end of an open-close period. Absent sub-fields are
// defaulted to 0 during mapping, never left undefined.
type HoursPoint struct {
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Period is a single open-close span within a weekly schedule.
type Period struct {
	Open  HoursPoint `json:"open"`
	Close HoursPoint `json:"close"`
}

// OpeningHours is a weekly schedule.
type OpeningHours struct {
	OpenNow             *bool    `json:"open_now,omitempty"`
	Periods             []Period `json:"periods"`
	WeekdayDescriptions []string `json:"weekday_descriptions,omitempty"`
}

// SecondaryOpeningHours is an additional schedule tagged by hours type
// (e.g. DELIVERY, DRIVE_THROUGH).
type SecondaryOpeningHours struct {
	HoursType string   `json:"hours_type"`
	Periods   []Period `json:"periods"`
}

// AuthorAttribution credits the author of a photo or review.
type AuthorAttribution struct {
	DisplayName string `json:"display_name"`
	URI         string `json:"uri,omitempty"`
	PhotoURI    string `json:"photo_uri,omitempty"`
}

// Photo is one provider photo. WidthPx/HeightPx are the source dimensions
// as reported by the provider; PhotoURI is resolved with the width capped
// at 800px.
type Photo struct {
	Name               string              `json:"name"`
	WidthPx            int                 `json:"width_px"`
	HeightPx           int                 `json:"height_px"`
	AuthorAttributions []AuthorAttribution `json:"author_attributions,omitempty"`
	PhotoURI           string              `json:"photo_uri,omitempty"`
}

// ParkingOptions are provider parking flags. A nil field means the
// provider did not report it, which is distinct from false.
type ParkingOptions struct {
	FreeParkingLot    *bool `json:"free_parking_lot,omitempty"`
	PaidParkingLot    *bool `json:"paid_parking_lot,omitempty"`
	FreeStreetParking *bool `json:"free_street_parking,omitempty"`
	PaidStreetParking *bool `json:"paid_street_parking,omitempty"`
	ValetParking      *bool `json:"valet_parking,omitempty"`
	FreeGarageParking *bool `json:"free_garage_parking,omitempty"`
	PaidGarageParking *bool `json:"paid_garage_parking,omitempty"`
}

// PaymentOptions are provider payment flags, nil meaning unknown.
type PaymentOptions struct {
	AcceptsCreditCards *bool `json:"accepts_credit_cards,omitempty"`
	AcceptsDebitCards  *bool `json:"accepts_debit_cards,omitempty"`
	AcceptsCashOnly    *bool `json:"accepts_cash_only,omitempty"`
	AcceptsNFC         *bool `json:"accepts_nfc,omitempty"`
}

// AccessibilityOptions are provider accessibility flags, nil meaning unknown.
type AccessibilityOptions struct {
	WheelchairAccessibleParking  *bool `json:"wheelchair_accessible_parking,omitempty"`
	WheelchairAccessibleEntrance *bool `json:"wheelchair_accessible_entrance,omitempty"`
	WheelchairAccessibleRestroom *bool `json:"wheelchair_accessible_restroom,omitempty"`
	WheelchairAccessibleSeating  *bool `json:"wheelchair_accessible_seating,omitempty"`
}

// DiningOptions are provider dine-in related flags, nil meaning unknown.
type DiningOptions struct {
	DineIn         *bool `json:"dine_in,omitempty"`
	Takeout        *bool `json:"takeout,omitempty"`
	Delivery       *bool `json:"delivery,omitempty"`
	CurbsidePickup *bool `json:"curbside_pickup,omitempty"`
	Reservable     *bool `json:"reservable,omitempty"`
}

// Review is one provider review.
type Review struct {
	Name         string            `json:"name,omitempty"`
	RelativeTime string            `json:"relative_time"`
	Rating       float64           `json:"rating"`
	Text         string            `json:"text"`
	LanguageCode string            `json:"language_code,omitempty"`
	PublishTime  int64             `json:"publish_time,omitempty"`
	Author       AuthorAttribution `json:"author"`
}

// Asset is the canonical persisted entity for one registered place.
// The Places place id is the natural key; registration is idempotent on it.
type Asset struct {
	ID      string `json:"id"`
	PlaceID string `json:"place_id"`

	DisplayName      string  `json:"display_name"`
	LanguageCode     string  `json:"language_code,omitempty"`
	FormattedAddress string  `json:"formatted_address"`
	ShortAddress     string  `json:"short_address,omitempty"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`

	Rating          float64 `json:"rating,omitempty"`
	UserRatingCount int     `json:"user_rating_count,omitempty"`
	GoogleMapsURI   string  `json:"google_maps_uri,omitempty"`
	WebsiteURI      string  `json:"website_uri,omitempty"`
	PrimaryType     string  `json:"primary_type,omitempty"`
	Types           []string `json:"types,omitempty"`

	RegularOpeningHours   *OpeningHours           `json:"regular_opening_hours,omitempty"`
	SecondaryOpeningHours []SecondaryOpeningHours `json:"secondary_opening_hours,omitempty"`
	CurrentOpeningHours   *OpeningHours           `json:"current_opening_hours,omitempty"`

	Photos []Photo `json:"photos,omitempty"`

	ParkingOptions       *ParkingOptions       `json:"parking_options,omitempty"`
	PaymentOptions       *PaymentOptions       `json:"payment_options,omitempty"`
	AccessibilityOptions *AccessibilityOptions `json:"accessibility_options,omitempty"`
	DiningOptions        *DiningOptions        `json:"dining_options,omitempty"`

	PriceLevel PriceLevel `json:"price_level,omitempty"`
	Reviews    []Review   `json:"reviews,omitempty"`

	Category       Category `json:"category"`
	Description    string   `json:"description,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	LandingPage    string   `json:"landing_page,omitempty"`
	LandingPageURL string   `json:"landing_page_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AIUpdate is the second-phase mutation attaching generated content to an
// already-persisted Asset.
type AIUpdate struct {
	Category       Category `json:"category"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
	LandingPage    string   `json:"landing_page"`
	LandingPageURL string   `json:"landing_page_url"`
}
