package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundPrice(t *testing.T) {
	tests := []struct {
		name string
		raw  float64
		want int64
	}{
		{"lowest bracket", 123456, 99000},
		{"top bracket exact", 300000, 240000},
		{"middle bracket", 150000, 120000},
		{"middle bracket rounds to 5000", 160000, 130000},
		{"just below 100k discounted", 124999, 100000},
		{"exactly 100k discounted uses 5000 step", 125000, 100000},
		{"exactly 200k discounted uses 10000 step", 250000, 200000},
		{"top bracket rounds", 318000, 250000},
		{"half rounds to even", 1875, 2000},
		{"half rounds to even down", 3125, 2000},
		{"zero", 0, 0},
		{"small", 400, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundPrice(tt.raw))
		})
	}
}

func TestRoundPriceNonFinite(t *testing.T) {
	assert.Equal(t, int64(0), RoundPrice(math.NaN()))
	assert.Equal(t, int64(0), RoundPrice(math.Inf(1)))
}

func TestStep(t *testing.T) {
	assert.Equal(t, 1000.0, Step(99999.99))
	assert.Equal(t, 5000.0, Step(100000))
	assert.Equal(t, 5000.0, Step(199999))
	assert.Equal(t, 10000.0, Step(200000))
}

func TestRoundPriceDeterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.Equal(t, RoundPrice(187654.321), RoundPrice(187654.321))
	}
}
