// internal/models/enums.go
package models

import "apartment-estimator/internal/common/text"

type Condition string

const (
	ConditionNewBuild          Condition = "Novogradnja"
	ConditionRenovated         Condition = "Renoviran"
	ConditionGood              Condition = "Dobro stanje"
	ConditionPartlyRenovated   Condition = "Parcijalno renoviran"
	ConditionNeedsRenovation   Condition = "Za renoviranje"
	ConditionUnderConstruction Condition = "U izgradnji"
	ConditionOther             Condition = "Other"
)

var Conditions = []Condition{
	ConditionNewBuild,
	ConditionRenovated,
	ConditionGood,
	ConditionPartlyRenovated,
	ConditionNeedsRenovation,
	ConditionUnderConstruction,
}

type Furnished string

const (
	FurnishedYes     Furnished = "Namješten"
	FurnishedNo      Furnished = "Nenamješten"
	FurnishedPartial Furnished = "Polunamješten"
	FurnishedOther   Furnished = "Other"
)

var FurnishedStates = []Furnished{FurnishedYes, FurnishedNo, FurnishedPartial}

type Heating string

const (
	HeatingElectric   Heating = "Struja"
	HeatingGas        Heating = "Plin"
	HeatingWood       Heating = "Drva"
	HeatingDistrict   Heating = "Centralno (gradsko)"
	HeatingBoilerRoom Heating = "Centralno (Kotlovnica)"
	HeatingCentralGas Heating = "Centralno (Plin)"
	HeatingOther      Heating = "Ostalo"
)

var HeatingTypes = []Heating{
	HeatingElectric,
	HeatingGas,
	HeatingWood,
	HeatingDistrict,
	HeatingBoilerRoom,
	HeatingCentralGas,
	HeatingOther,
}

// YearBuilt buckets offered by the form. Training data carries free text instead.
var YearBuiltBuckets = []string{
	"2025+",
	"2020+",
	"2015+",
	"2010+",
	"2000 do 2009",
	"1990 do 1999",
	"1980 do 1989",
	"1970 do 1979",
	"1960 do 1969",
	"1950 do 1959",
	"Prije 1950",
}

// ParseCondition maps free text onto the closed set. Empty input is missing
// (ok=false); anything unrecognized is ConditionOther.
func ParseCondition(s string) (Condition, bool) {
	return parseEnum(s, Conditions, ConditionOther)
}

func ParseFurnished(s string) (Furnished, bool) {
	return parseEnum(s, FurnishedStates, FurnishedOther)
}

func ParseHeating(s string) (Heating, bool) {
	return parseEnum(s, HeatingTypes, HeatingOther)
}

func parseEnum[T ~string](s string, values []T, other T) (T, bool) {
	folded := text.Fold(s)
	if folded == "" {
		return "", false
	}
	for _, v := range values {
		if text.Fold(string(v)) == folded {
			return v, true
		}
	}
	return other, true
}

// Labels returns the string values of a closed set, for schemas and docs.
func Labels[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
