// internal/workers/estimation/estimate-apartment-price/models.go
package estimateapartmentprice

import "encoding/json"

// Input carries the apartment form under one variable so the rest of the
// process scope never reaches request validation.
type Input struct {
	Apartment json.RawMessage `json:"apartment"`
}

type Output struct {
	EstimatedPriceKM     int64    `json:"estimatedPriceKm"`
	ModelVersion         string   `json:"modelVersion"`
	ApproximatedFeatures []string `json:"approximatedFeatures,omitempty"`
}
