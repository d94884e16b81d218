package mapper

import (
	"github.com/gezgin/placewise/internal/models"
	"github.com/gezgin/placewise/internal/places"
)

// Option groups are mapped field-by-field keeping nil pointers intact.
// A flag the provider did not report stays nil ("unknown"), never false.

func parkingOptions(src *places.V1ParkingOptions) *models.ParkingOptions {
	if src == nil {
		return nil
	}
	return &models.ParkingOptions{
		FreeParkingLot:    src.FreeParkingLot,
		PaidParkingLot:    src.PaidParkingLot,
		FreeStreetParking: src.FreeStreetParking,
		PaidStreetParking: src.PaidStreetParking,
		ValetParking:      src.ValetParking,
		FreeGarageParking: src.FreeGarageParking,
		PaidGarageParking: src.PaidGarageParking,
	}
}

func paymentOptions(src *places.V1PaymentOptions) *models.PaymentOptions {
	if src == nil {
		return nil
	}
	return &models.PaymentOptions{
		AcceptsCreditCards: src.AcceptsCreditCards,
		AcceptsDebitCards:  src.AcceptsDebitCards,
		AcceptsCashOnly:    src.AcceptsCashOnly,
		AcceptsNFC:         src.AcceptsNFC,
	}
}

func accessibilityOptions(src *places.V1AccessibilityOptions) *models.AccessibilityOptions {
	if src == nil {
		return nil
	}
	return &models.AccessibilityOptions{
		WheelchairAccessibleParking:  src.WheelchairAccessibleParking,
		WheelchairAccessibleEntrance: src.WheelchairAccessibleEntrance,
		WheelchairAccessibleRestroom: src.WheelchairAccessibleRestroom,
		WheelchairAccessibleSeating:  src.WheelchairAccessibleSeating,
	}
}

// diningOptions collects the dine-in flags the v1 API reports as top-level
// fields into one group. All nil means the group itself is absent.
func diningOptions(p *places.Place) *models.DiningOptions {
	if p.DineIn == nil && p.Takeout == nil && p.Delivery == nil &&
		p.CurbsidePickup == nil && p.Reservable == nil {
		return nil
	}
	return &models.DiningOptions{
		DineIn:         p.DineIn,
		Takeout:        p.Takeout,
		Delivery:       p.Delivery,
		CurbsidePickup: p.CurbsidePickup,
		Reservable:     p.Reservable,
	}
}
