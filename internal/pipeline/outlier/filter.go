// Package outlier drops listings whose price per square metre falls outside
// percentile fences recomputed on every training batch.
package outlier

import (
	"math"
	"sort"
)

// Policy describes the fences: [Pl - k*(Pu-Pl), Pu + k*(Pu-Pl)].
type Policy struct {
	LowerQuantile float64
	UpperQuantile float64
	Scale         float64
}

func DefaultPolicy() Policy {
	return Policy{LowerQuantile: 0.05, UpperQuantile: 0.95, Scale: 1.5}
}

type Fences struct {
	LowerQuantile float64 `json:"lower_quantile"`
	UpperQuantile float64 `json:"upper_quantile"`
	Lower         float64 `json:"lower"`
	Upper         float64 `json:"upper"`
}

func (f Fences) Contains(v float64) bool {
	return v >= f.Lower && v <= f.Upper
}

// Fences computes the fences for values. ok is false for an empty input.
func (p Policy) Fences(values []float64) (Fences, bool) {
	if len(values) == 0 {
		return Fences{}, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	lo := Quantile(sorted, p.LowerQuantile)
	hi := Quantile(sorted, p.UpperQuantile)
	spread := hi - lo

	return Fences{
		LowerQuantile: lo,
		UpperQuantile: hi,
		Lower:         lo - p.Scale*spread,
		Upper:         hi + p.Scale*spread,
	}, true
}

// Quantile uses linear interpolation between closest ranks. sorted must be
// ascending and non-empty.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := math.Floor(pos)
	hi := math.Ceil(pos)
	if lo == hi {
		return sorted[int(lo)]
	}
	frac := pos - lo
	return sorted[int(lo)] + (sorted[int(hi)]-sorted[int(lo)])*frac
}

// Result of applying a Policy to a batch.
type Result[T any] struct {
	Kept    []T
	Outside int // dropped by the fences
	Missing int // dropped because the value could not be computed
	Fences  Fences
	Passes  int
}

// Apply keeps the records whose value lies within the fences. Fences are
// recomputed on the survivors until a pass removes nothing, so applying the
// policy to its own output is a no-op.
func Apply[T any](p Policy, records []T, value func(T) (float64, bool)) Result[T] {
	type item struct {
		rec T
		v   float64
	}

	items := make([]item, 0, len(records))
	res := Result[T]{}
	for _, r := range records {
		v, ok := value(r)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			res.Missing++
			continue
		}
		items = append(items, item{rec: r, v: v})
	}

	for {
		values := make([]float64, len(items))
		for i, it := range items {
			values[i] = it.v
		}
		fences, ok := p.Fences(values)
		if !ok {
			break
		}
		res.Fences = fences
		res.Passes++

		kept := items[:0:0]
		for _, it := range items {
			if fences.Contains(it.v) {
				kept = append(kept, it)
			}
		}
		removed := len(items) - len(kept)
		res.Outside += removed
		items = kept
		if removed == 0 {
			break
		}
	}

	res.Kept = make([]T, len(items))
	for i, it := range items {
		res.Kept[i] = it.rec
	}
	return res
}
