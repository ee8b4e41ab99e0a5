// internal/models/listing.go
package models

// RawListing is one scraped apartment listing as handed off by the extraction
// stage. Text fields keep the portal's wording; empty means absent.
type RawListing struct {
	ID             int64    `json:"id"`
	URL            string   `json:"url"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	PriceKM        *float64 `json:"price_km,omitempty"`
	Condition      string   `json:"condition,omitempty"`
	ListingType    string   `json:"listing_type,omitempty"`
	PropertyType   string   `json:"property_type,omitempty"`
	Rooms          string   `json:"rooms,omitempty"`
	SizeM2         *float64 `json:"size_m2,omitempty"`
	Furnished      string   `json:"furnished,omitempty"`
	Floor          string   `json:"floor,omitempty"`
	HeatingType    string   `json:"heating_type,omitempty"`
	Location       string   `json:"location"`
	Address        string   `json:"address,omitempty"`
	Bathrooms      string   `json:"bathrooms,omitempty"`
	YearBuilt      string   `json:"year_built,omitempty"`
	HasBalcony     bool     `json:"has_balcony"`
	HasGarage      bool     `json:"has_garage"`
	HasParking     bool     `json:"has_parking"`
	HasElevator    bool     `json:"has_elevator"`
	IsRegistered   bool     `json:"is_registered"`
	HasArmoredDoor bool     `json:"has_armored_door"`
}

// PricePerM2 returns price divided by area when both are present and area is positive.
func (l RawListing) PricePerM2() (float64, bool) {
	if l.PriceKM == nil || l.SizeM2 == nil || *l.SizeM2 <= 0 {
		return 0, false
	}
	return *l.PriceKM / *l.SizeM2, true
}
