// Package features turns one listing into the fixed-schema vector the
// regression pipeline consumes. Training records and estimate forms go
// through the same Assemble step.
package features

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

type Field struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

type NumericField int

const (
	SizeM2 NumericField = iota
	Rooms
	Floor
	Bathrooms
	PropertyAge
	M2PerRoom
	DescLen
	CityMedianPricePerM2
	HasElevator
	HasParking
	HasBalcony
	IsRegistered
	HasArmoredDoor
	HasRenoviran
	HasPogled
	HasNovogradnjaDesc
	HasGarazaDesc

	numericFieldCount
)

var numericNames = [numericFieldCount]string{
	"size_m2",
	"rooms",
	"floor",
	"bathrooms",
	"property_age",
	"m2_per_room",
	"desc_len",
	"city_median_price_per_m2",
	"has_elevator",
	"has_parking",
	"has_balcony",
	"is_registered",
	"has_armored_door",
	"has_renoviran",
	"has_pogled",
	"has_novogradnja_desc",
	"has_garaza_desc",
}

func (f NumericField) String() string {
	if f < 0 || f >= numericFieldCount {
		return fmt.Sprintf("numeric(%d)", int(f))
	}
	return numericNames[f]
}

type CategoricalField int

const (
	City CategoricalField = iota
	Condition
	Furnished
	HeatingType

	categoricalFieldCount
)

var categoricalNames = [categoricalFieldCount]string{
	"city",
	"condition",
	"furnished",
	"heating_type",
}

func (f CategoricalField) String() string {
	if f < 0 || f >= categoricalFieldCount {
		return fmt.Sprintf("categorical(%d)", int(f))
	}
	return categoricalNames[f]
}

const (
	NumNumeric     = int(numericFieldCount)
	NumCategorical = int(categoricalFieldCount)
)

// Schema returns the ordered field list: numeric fields, then categorical.
func Schema() []Field {
	out := make([]Field, 0, NumNumeric+NumCategorical)
	for _, n := range numericNames {
		out = append(out, Field{Name: n, Kind: KindNumeric})
	}
	for _, n := range categoricalNames {
		out = append(out, Field{Name: n, Kind: KindCategorical})
	}
	return out
}

// Fingerprint hashes a field list. Artifacts store the fingerprint of the
// schema they were trained on.
func Fingerprint(fields []Field) string {
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(f.Name)
		b.WriteByte(':')
		b.WriteString(string(f.Kind))
		b.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// SchemaFingerprint is the fingerprint of the compiled-in schema.
func SchemaFingerprint() string {
	return Fingerprint(Schema())
}
