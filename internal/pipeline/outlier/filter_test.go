package outlier

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listing struct {
	id    int
	price float64
	area  float64
}

func pricePerM2(l listing) (float64, bool) {
	if l.area <= 0 || l.price <= 0 {
		return 0, false
	}
	return l.price / l.area, true
}

func TestQuantileLinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	assert.InDelta(t, 1.45, Quantile(sorted, 0.05), 1e-9)
	assert.InDelta(t, 9.55, Quantile(sorted, 0.95), 1e-9)
	assert.InDelta(t, 5.5, Quantile(sorted, 0.5), 1e-9)
	assert.Equal(t, 1.0, Quantile(sorted, 0))
	assert.Equal(t, 10.0, Quantile(sorted, 1))
	assert.Equal(t, 7.0, Quantile([]float64{7}, 0.95))
}

func TestFences(t *testing.T) {
	values := []float64{10, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	f, ok := DefaultPolicy().Fences(values)
	require.True(t, ok)
	assert.InDelta(t, 1.45, f.LowerQuantile, 1e-9)
	assert.InDelta(t, 9.55, f.UpperQuantile, 1e-9)
	assert.InDelta(t, 1.45-1.5*8.1, f.Lower, 1e-9)
	assert.InDelta(t, 9.55+1.5*8.1, f.Upper, 1e-9)
	assert.Equal(t, []float64{10, 1, 2, 3, 4, 5, 6, 7, 8, 9}, values, "input must not be reordered")

	_, ok = DefaultPolicy().Fences(nil)
	assert.False(t, ok)
}

func TestApplyDropsExtremes(t *testing.T) {
	var records []listing
	for i := 0; i < 40; i++ {
		records = append(records, listing{id: i, price: 100000 + float64(i)*1000, area: 50})
	}
	records = append(records,
		listing{id: 100, price: 50000000, area: 50}, // typo in price
		listing{id: 101, price: 1, area: 50},
		listing{id: 102, price: 90000, area: 0}, // unusable
	)

	res := Apply(DefaultPolicy(), records, pricePerM2)

	assert.Len(t, res.Kept, 40)
	assert.Equal(t, 1, res.Missing)
	assert.GreaterOrEqual(t, res.Outside, 1)
	for _, r := range res.Kept {
		assert.Less(t, r.id, 100)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var records []listing
	for i := 0; i < 500; i++ {
		// heavy right tail
		ppm := 1500 + rng.ExpFloat64()*800
		if i%50 == 0 {
			ppm *= 20
		}
		records = append(records, listing{id: i, price: ppm * 60, area: 60})
	}

	first := Apply(DefaultPolicy(), records, pricePerM2)
	second := Apply(DefaultPolicy(), first.Kept, pricePerM2)

	assert.Equal(t, 0, second.Outside)
	assert.Equal(t, 1, second.Passes)
	assert.Equal(t, first.Kept, second.Kept)
}

func TestApplyEmpty(t *testing.T) {
	res := Apply(DefaultPolicy(), []listing{{id: 1}}, pricePerM2)
	assert.Empty(t, res.Kept)
	assert.Equal(t, 1, res.Missing)
	assert.Equal(t, 0, res.Passes)
}

func TestApplyKeepsFenceBoundaries(t *testing.T) {
	records := []listing{{1, 100, 1}, {2, 100, 1}, {3, 100, 1}}
	res := Apply(DefaultPolicy(), records, pricePerM2)
	assert.Len(t, res.Kept, 3, "identical values sit exactly on both fences")
}
