package features

import (
	"math"
	"strings"
	"unicode/utf8"

	apperrors "apartment-estimator/internal/common/errors"
	"apartment-estimator/internal/pipeline/location"
	"apartment-estimator/internal/pipeline/normalize"
)

const (
	DefaultReferenceYear      = 2025
	DefaultPlaceholderDescLen = 150
)

// Params are frozen into the artifact so that serving derives property_age
// and the desc_len placeholder exactly as training did.
type Params struct {
	ReferenceYear      int `json:"reference_year"`
	PlaceholderDescLen int `json:"placeholder_desc_len"`
}

func DefaultParams() Params {
	return Params{ReferenceYear: DefaultReferenceYear, PlaceholderDescLen: DefaultPlaceholderDescLen}
}

// TextFlags are caller-declared stand-ins for the description keyword
// indicators, used only when no description text is available.
type TextFlags struct {
	Renovated bool
	View      bool
	NewBuild  bool
	Garage    bool
}

// Listing is the canonical input of Assemble. Both adapters reduce their
// source representation to this shape.
type Listing struct {
	Location  string
	SizeM2    Number
	Rooms     Number
	Floor     Number
	Bathrooms Number
	YearBuilt string

	Condition Category
	Furnished Category
	Heating   Category

	HasElevator    bool
	HasParking     bool
	HasBalcony     bool
	IsRegistered   bool
	HasArmoredDoor bool

	// Description is nil when the caller has no free text.
	Description *string
	Declared    TextFlags
}

// Assembler derives feature vectors against a frozen city table and
// vocabulary. It is safe for concurrent use.
type Assembler struct {
	table  *location.CityPriceTable
	vocab  *location.Vocabulary
	params Params
	rep    normalize.Reporter
}

func NewAssembler(table *location.CityPriceTable, vocab *location.Vocabulary, params Params, rep normalize.Reporter) *Assembler {
	if rep == nil {
		rep = normalize.Discard
	}
	return &Assembler{table: table, vocab: vocab, params: params, rep: rep}
}

func (a *Assembler) Params() Params { return a.params }

var keywordIndicators = []struct {
	field    NumericField
	keywords []string
}{
	{HasRenoviran, []string{"renoviran", "adaptiran"}},
	{HasPogled, []string{"pogled"}},
	{HasNovogradnjaDesc, []string{"novogradnja"}},
	{HasGarazaDesc, []string{"garaž"}},
}

// Assemble builds the vector for one listing. A listing without a usable
// city fails with a schema violation.
func (a *Assembler) Assemble(l Listing) (*Vector, error) {
	city, ok := location.CityOf(l.Location)
	if !ok {
		return nil, apperrors.NewSchemaViolationError("location", "no city token in location")
	}
	city = a.vocab.Bucket(city)

	b := newBuilder()
	b.num(SizeM2, l.SizeM2)
	b.num(Rooms, l.Rooms)
	b.num(Floor, l.Floor)
	b.num(Bathrooms, l.Bathrooms)

	if year, ok := normalize.ParseYear(l.YearBuilt); ok {
		b.num(PropertyAge, Some(float64(a.params.ReferenceYear-year)))
	} else {
		b.num(PropertyAge, Missing)
	}

	ratio := Missing
	if l.SizeM2.Valid && l.Rooms.Valid && l.Rooms.Value > 0 {
		if r := l.SizeM2.Value / l.Rooms.Value; !math.IsInf(r, 0) && !math.IsNaN(r) {
			ratio = Some(r)
		}
	}
	b.num(M2PerRoom, ratio)

	if median, ok := a.table.Lookup(city); ok {
		b.num(CityMedianPricePerM2, Some(median))
	} else {
		b.num(CityMedianPricePerM2, Missing)
	}

	b.num(HasElevator, Flag(l.HasElevator))
	b.num(HasParking, Flag(l.HasParking))
	b.num(HasBalcony, Flag(l.HasBalcony))
	b.num(IsRegistered, Flag(l.IsRegistered))
	b.num(HasArmoredDoor, Flag(l.HasArmoredDoor))

	if l.Description != nil {
		desc := strings.ToLower(*l.Description)
		b.num(DescLen, Some(float64(utf8.RuneCountInString(*l.Description))))
		for _, k := range keywordIndicators {
			b.num(k.field, Flag(containsAny(desc, k.keywords)))
		}
	} else {
		b.approx(DescLen, Some(float64(a.params.PlaceholderDescLen)))
		b.approx(HasRenoviran, Flag(l.Declared.Renovated))
		b.approx(HasPogled, Flag(l.Declared.View))
		b.approx(HasNovogradnjaDesc, Flag(l.Declared.NewBuild))
		b.approx(HasGarazaDesc, Flag(l.Declared.Garage))
	}

	b.cat(City, Label(city))
	b.cat(Condition, l.Condition)
	b.cat(Furnished, l.Furnished)
	b.cat(HeatingType, l.Heating)

	return b.build()
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// builder tracks which fields were written so a forgotten field surfaces
// as a schema violation instead of a silent missing value.
type builder struct {
	v      Vector
	numSet [NumNumeric]bool
	catSet [NumCategorical]bool
}

func newBuilder() *builder { return &builder{} }

func (b *builder) num(f NumericField, n Number) {
	b.v.Numeric[f] = n
	b.numSet[f] = true
}

func (b *builder) approx(f NumericField, n Number) {
	b.num(f, n)
	b.v.Approximated = append(b.v.Approximated, f)
}

func (b *builder) cat(f CategoricalField, c Category) {
	b.v.Categorical[f] = c
	b.catSet[f] = true
}

func (b *builder) build() (*Vector, error) {
	for i, set := range b.numSet {
		if !set {
			return nil, apperrors.NewSchemaViolationError(NumericField(i).String(), "feature not assembled")
		}
	}
	for i, set := range b.catSet {
		if !set {
			return nil, apperrors.NewSchemaViolationError(CategoricalField(i).String(), "feature not assembled")
		}
	}
	v := b.v
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}
