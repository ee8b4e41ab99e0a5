// internal/models/request.go
package models

// EstimateRequest is the user-filled apartment form.
type EstimateRequest struct {
	Location       string  `json:"location"`
	SizeM2         float64 `json:"size_m2"`
	Rooms          float64 `json:"rooms"`
	Floor          int     `json:"floor"`
	Bathrooms      *int    `json:"bathrooms,omitempty"`
	YearBuilt      string  `json:"year_built"`
	Condition      string  `json:"condition"`
	Furnished      string  `json:"furnished"`
	HeatingType    string  `json:"heating_type"`
	HasBalcony     bool    `json:"has_balcony"`
	HasGarage      bool    `json:"has_garage"`
	HasParking     bool    `json:"has_parking"`
	HasElevator    bool    `json:"has_elevator"`
	IsRegistered   *bool   `json:"is_registered,omitempty"`
	HasArmoredDoor bool    `json:"has_armored_door"`

	// Optional. When Description is set the text indicators are derived from it.
	Description *string `json:"description,omitempty"`
	HasView     *bool   `json:"has_view,omitempty"`
}

// DefaultBathrooms is used when the form leaves bathrooms empty.
const DefaultBathrooms = 1

func (r EstimateRequest) BathroomCount() int {
	if r.Bathrooms == nil {
		return DefaultBathrooms
	}
	return *r.Bathrooms
}

// Registered defaults to true, matching the form.
func (r EstimateRequest) Registered() bool {
	if r.IsRegistered == nil {
		return true
	}
	return *r.IsRegistered
}

type EstimateResponse struct {
	EstimatedPriceKM int64 `json:"estimated_price_km"`
}
