package location

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Observation is one outlier-filtered listing reduced to its bucketed city
// and price per square metre.
type Observation struct {
	City       string
	PricePerM2 float64
}

// CityPriceTable maps a city token to its median price per square metre.
// It is built once per training run and never mutated afterwards.
type CityPriceTable struct {
	medians map[string]float64
}

// BuildTable computes the median price per m2 for each city. The result
// does not depend on observation order.
func BuildTable(obs []Observation) *CityPriceTable {
	grouped := make(map[string][]float64)
	for _, o := range obs {
		grouped[o.City] = append(grouped[o.City], o.PricePerM2)
	}

	medians := make(map[string]float64, len(grouped))
	for city, values := range grouped {
		medians[city] = median(values)
	}
	return &CityPriceTable{medians: medians}
}

// NewTable wraps an existing mapping, e.g. one decoded from an artifact.
func NewTable(medians map[string]float64) (*CityPriceTable, error) {
	cp := make(map[string]float64, len(medians))
	for city, v := range medians {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("city %q has non-finite median", city)
		}
		cp[city] = v
	}
	return &CityPriceTable{medians: cp}, nil
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Lookup returns the median for city. Unknown cities are missing.
func (t *CityPriceTable) Lookup(city string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	v, ok := t.medians[city]
	return v, ok
}

func (t *CityPriceTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.medians)
}

// Cities returns the table keys in sorted order.
func (t *CityPriceTable) Cities() []string {
	out := make([]string, 0, t.Len())
	if t == nil {
		return out
	}
	for c := range t.medians {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Medians returns a copy of the mapping.
func (t *CityPriceTable) Medians() map[string]float64 {
	out := make(map[string]float64, t.Len())
	if t == nil {
		return out
	}
	for k, v := range t.medians {
		out[k] = v
	}
	return out
}

// MarshalJSON writes the table as a flat {"city": median} object.
func (t *CityPriceTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Medians())
}

func (t *CityPriceTable) UnmarshalJSON(data []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	table, err := NewTable(m)
	if err != nil {
		return err
	}
	*t = *table
	return nil
}
