package features

import (
	"fmt"
	"math"

	apperrors "apartment-estimator/internal/common/errors"
)

// Number is an optional numeric feature. The zero value is missing.
type Number struct {
	Value float64
	Valid bool
}

func Some(v float64) Number { return Number{Value: v, Valid: true} }

// Flag encodes a boolean as 1 or 0.
func Flag(b bool) Number {
	if b {
		return Some(1)
	}
	return Some(0)
}

var Missing = Number{}

// Category is an optional categorical feature. The zero value is missing.
type Category struct {
	Value string
	Valid bool
}

func Label(s string) Category {
	if s == "" {
		return Category{}
	}
	return Category{Value: s, Valid: true}
}

// Vector holds one listing's features in schema order.
type Vector struct {
	Numeric     [NumNumeric]Number
	Categorical [NumCategorical]Category

	// Approximated lists fields filled from structured flags or placeholder
	// constants because the caller had no description text.
	Approximated []NumericField
}

func (v *Vector) Get(f NumericField) Number { return v.Numeric[f] }

func (v *Vector) Category(f CategoricalField) Category { return v.Categorical[f] }

// Validate rejects vectors the frozen pipeline cannot consume: present
// numbers must be finite, present categories non-empty.
func (v *Vector) Validate() error {
	for i, n := range v.Numeric {
		if n.Valid && (math.IsNaN(n.Value) || math.IsInf(n.Value, 0)) {
			f := NumericField(i)
			return apperrors.NewSchemaViolationError(f.String(), fmt.Sprintf("non-finite value %v", n.Value))
		}
	}
	for i, c := range v.Categorical {
		if c.Valid && c.Value == "" {
			f := CategoricalField(i)
			return apperrors.NewSchemaViolationError(f.String(), "empty category marked present")
		}
	}
	return nil
}

// IsApproximated reports whether f was filled without description text.
func (v *Vector) IsApproximated(f NumericField) bool {
	for _, a := range v.Approximated {
		if a == f {
			return true
		}
	}
	return false
}

// Map renders the vector keyed by field name; missing values are nil.
func (v *Vector) Map() map[string]interface{} {
	out := make(map[string]interface{}, NumNumeric+NumCategorical)
	for i, n := range v.Numeric {
		if n.Valid {
			out[numericNames[i]] = n.Value
		} else {
			out[numericNames[i]] = nil
		}
	}
	for i, c := range v.Categorical {
		if c.Valid {
			out[categoricalNames[i]] = c.Value
		} else {
			out[categoricalNames[i]] = nil
		}
	}
	return out
}
