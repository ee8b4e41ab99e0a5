// Package pricing turns a raw model prediction into the published estimate.
package pricing

import "math"

// MarketDiscount scales every raw prediction before rounding.
const MarketDiscount = 0.8

type bracket struct {
	below float64
	step  float64
}

var brackets = []bracket{
	{below: 100000, step: 1000},
	{below: 200000, step: 5000},
}

const topStep = 10000

// Step returns the rounding granularity for a discounted price.
func Step(discounted float64) float64 {
	for _, b := range brackets {
		if discounted < b.below {
			return b.step
		}
	}
	return topStep
}

// RoundPrice discounts raw and rounds it to the bracket step, halves to
// even. Non-finite input yields 0.
func RoundPrice(raw float64) int64 {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0
	}
	discounted := raw * MarketDiscount
	step := Step(discounted)
	return int64(math.RoundToEven(discounted/step) * step)
}
