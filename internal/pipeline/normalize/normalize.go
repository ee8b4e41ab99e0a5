// Package normalize turns the portal's free-text year, room and floor
// attributes into numbers. Every function is total: unparseable text
// yields ok=false, never an error or a sentinel.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"apartment-estimator/internal/common/text"
)

const (
	FieldYearBuilt = "year_built"
	FieldRooms     = "rooms"
	FieldFloor     = "floor"
	FieldBathrooms = "bathrooms"
)

// OlderThanYear stands in for "built before ..." buckets.
const OlderThanYear = 1940

var (
	fourDigitRun     = regexp.MustCompile(`\d{4}`)
	parenthesizedNum = regexp.MustCompile(`\((\d+\.?\d*)\)`)
	notDigitOrMinus  = regexp.MustCompile(`[^\d-]`)
)

var (
	rangeSeparators  = []string{"do", "to"}
	olderThanMarkers = []string{"prije", "before", "older"}
)

// ParseYear reads a construction year from text such as "2010+",
// "2000 do 2009" (mean of the bounds, truncated) or "Prije 1950".
func ParseYear(raw string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}

	for _, sep := range rangeSeparators {
		if strings.Contains(s, sep) {
			return meanOfYears(strings.Split(s, sep))
		}
	}

	for _, marker := range olderThanMarkers {
		if strings.Contains(s, marker) {
			return OlderThanYear, true
		}
	}

	match := fourDigitRun.FindString(s)
	if match == "" {
		return 0, false
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return year, true
}

func meanOfYears(parts []string) (int, bool) {
	sum := 0
	for _, p := range parts {
		y, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, false
		}
		sum += y
	}
	return int(math.Trunc(float64(sum) / float64(len(parts)))), true
}

type roomWord struct {
	words []string
	count float64
}

// roomVocabulary is checked in order against folded text.
var roomVocabulary = []roomWord{
	{[]string{"garsonjera", "jednosoban"}, 1.0},
	{[]string{"jednoiposoban"}, 1.5},
	{[]string{"dvosoban"}, 2.0},
	{[]string{"dvoiposoban"}, 2.5},
	{[]string{"trosoban"}, 3.0},
	{[]string{"troiposoban"}, 3.5},
	{[]string{"cetverosoban"}, 4.0},
	{[]string{"petosoban"}, 5.0},
}

// CleanRooms reads a room count. A parenthesized count such as "(1.5)" wins,
// then a bare number, then the room-word vocabulary.
func CleanRooms(raw string, rep Reporter) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}

	if m := parenthesizedNum.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v, true
		}
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil && v >= 0 && !math.IsInf(v, 0) {
		return v, true
	}

	folded := text.Fold(s)
	for _, rw := range roomVocabulary {
		for _, w := range rw.words {
			if strings.Contains(folded, w) {
				return rw.count, true
			}
		}
	}

	rep.Report(Diagnostic{Field: FieldRooms, Input: raw, Reason: "no room count or room word"})
	return 0, false
}

type floorEntry struct {
	floor int
	known bool
}

var floorLookup = map[string]floorEntry{
	"prizemlje":        {0, true},
	"visoko prizemlje": {0, true},
	"suteren":          {-1, true},
	"podrum":           {-1, true},
	"potkrovlje":       {0, false}, // attic floors are unknown, not zero
}

// CleanFloor reads a floor number: ground-floor words are 0, basements -1,
// attics missing; otherwise "minus" becomes "-" and the digits are parsed.
func CleanFloor(raw string, rep Reporter) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}

	if e, ok := floorLookup[text.Fold(s)]; ok {
		return e.floor, e.known
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if v == math.Trunc(v) && math.Abs(v) < 1000 {
			return int(v), true
		}
		rep.Report(Diagnostic{Field: FieldFloor, Input: raw, Reason: "not a whole floor number"})
		return 0, false
	}

	s = strings.ReplaceAll(s, "minus", "-")
	cleaned := notDigitOrMinus.ReplaceAllString(s, "")
	if cleaned == "" {
		rep.Report(Diagnostic{Field: FieldFloor, Input: raw, Reason: "no digits"})
		return 0, false
	}

	floor, err := strconv.Atoi(cleaned)
	if err != nil {
		rep.Report(Diagnostic{Field: FieldFloor, Input: raw, Reason: "not an integer"})
		return 0, false
	}
	return floor, true
}

// ParseCount reads a plain numeric count such as bathrooms ("2", "2.0").
func ParseCount(raw, field string, rep Reporter) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		rep.Report(Diagnostic{Field: field, Input: raw, Reason: "not a number"})
		return 0, false
	}
	return v, true
}
