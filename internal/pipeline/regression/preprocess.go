// Package regression fits and applies the price model: median/mode
// imputation, standard scaling, one-hot encoding and a gradient-boosted
// tree ensemble over log1p(price).
package regression

import (
	"fmt"
	"math"
	"sort"

	"apartment-estimator/internal/pipeline/features"
)

// missingCategory fills a categorical column that had no value at all
// during fit.
const missingCategory = "missing"

// Preprocessor holds the statistics learned from the training split.
// Transform never mutates it.
type Preprocessor struct {
	Medians []float64 `json:"medians"`
	Means   []float64 `json:"means"`
	Scales  []float64 `json:"scales"`

	Modes []string `json:"modes"`
	// Categories holds the sorted levels per categorical field. The first
	// level is the dropped baseline.
	Categories [][]string `json:"categories"`
}

// FitPreprocessor learns imputation, scaling and encoding statistics.
func FitPreprocessor(vectors []*features.Vector) (*Preprocessor, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("cannot fit preprocessor on zero rows")
	}

	p := &Preprocessor{
		Medians:    make([]float64, features.NumNumeric),
		Means:      make([]float64, features.NumNumeric),
		Scales:     make([]float64, features.NumNumeric),
		Modes:      make([]string, features.NumCategorical),
		Categories: make([][]string, features.NumCategorical),
	}

	column := make([]float64, 0, len(vectors))
	for f := 0; f < features.NumNumeric; f++ {
		column = column[:0]
		for _, v := range vectors {
			if n := v.Numeric[f]; n.Valid {
				column = append(column, n.Value)
			}
		}
		p.Medians[f] = median(column)

		var sum float64
		for _, v := range vectors {
			sum += p.impute(f, v.Numeric[f])
		}
		mean := sum / float64(len(vectors))
		var ss float64
		for _, v := range vectors {
			d := p.impute(f, v.Numeric[f]) - mean
			ss += d * d
		}
		std := math.Sqrt(ss / float64(len(vectors)))
		if std == 0 {
			std = 1
		}
		p.Means[f] = mean
		p.Scales[f] = std
	}

	for f := 0; f < features.NumCategorical; f++ {
		counts := make(map[string]int)
		for _, v := range vectors {
			if c := v.Categorical[f]; c.Valid {
				counts[c.Value]++
			}
		}
		p.Modes[f] = mode(counts)

		levels := make(map[string]struct{}, len(counts)+1)
		for _, v := range vectors {
			levels[p.category(f, v.Categorical[f])] = struct{}{}
		}
		sorted := make([]string, 0, len(levels))
		for l := range levels {
			sorted = append(sorted, l)
		}
		sort.Strings(sorted)
		p.Categories[f] = sorted
	}

	return p, nil
}

func (p *Preprocessor) impute(f int, n features.Number) float64 {
	if n.Valid {
		return n.Value
	}
	return p.Medians[f]
}

func (p *Preprocessor) category(f int, c features.Category) string {
	if c.Valid {
		return c.Value
	}
	return p.Modes[f]
}

// Width is the number of model columns: scaled numerics followed by one
// block of one-hot columns per categorical field.
func (p *Preprocessor) Width() int {
	w := len(p.Medians)
	for _, levels := range p.Categories {
		if len(levels) > 0 {
			w += len(levels) - 1
		}
	}
	return w
}

// Transform encodes one vector. Unseen categories and the baseline level
// encode as all zeros.
func (p *Preprocessor) Transform(v *features.Vector) []float64 {
	row := make([]float64, p.Width())
	for f := range p.Medians {
		row[f] = (p.impute(f, v.Numeric[f]) - p.Means[f]) / p.Scales[f]
	}
	offset := len(p.Medians)
	for f, levels := range p.Categories {
		if len(levels) == 0 {
			continue
		}
		value := p.category(f, v.Categorical[f])
		if i := sort.SearchStrings(levels, value); i > 0 && i < len(levels) && levels[i] == value {
			row[offset+i-1] = 1
		}
		offset += len(levels) - 1
	}
	return row
}

// Validate checks a decoded preprocessor against the compiled schema.
func (p *Preprocessor) Validate() error {
	if len(p.Medians) != features.NumNumeric || len(p.Means) != features.NumNumeric || len(p.Scales) != features.NumNumeric {
		return fmt.Errorf("preprocessor has %d numeric columns, schema has %d", len(p.Medians), features.NumNumeric)
	}
	if len(p.Modes) != features.NumCategorical || len(p.Categories) != features.NumCategorical {
		return fmt.Errorf("preprocessor has %d categorical columns, schema has %d", len(p.Modes), features.NumCategorical)
	}
	for f, s := range p.Scales {
		if s == 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return fmt.Errorf("invalid scale %v for %s", s, features.NumericField(f))
		}
	}
	for f, levels := range p.Categories {
		if !sort.StringsAreSorted(levels) {
			return fmt.Errorf("categories of %s are not sorted", features.CategoricalField(f))
		}
	}
	return nil
}

// median of an unsorted slice; zero when empty. The slice is reordered.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}

// mode returns the most frequent value, the smallest one on ties.
func mode(counts map[string]int) string {
	best, bestN := missingCategory, 0
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	return best
}
