// Package location canonicalizes listing locations to city tokens and builds
// the city to median price-per-m2 table.
package location

import (
	"sort"
	"strings"
)

// OtherCity collects cities seen fewer than the minimum number of times.
const OtherCity = "Other"

// DefaultMinCount is the smallest number of listings a city needs to keep
// its own bucket.
const DefaultMinCount = 5

// CityOf returns the text before the first "-" of a "City - District" location.
func CityOf(location string) (string, bool) {
	city, _, _ := strings.Cut(location, "-")
	city = strings.TrimSpace(city)
	return city, city != ""
}

// Vocabulary records which cities a training batch saw and which of them
// were frequent enough to keep their own bucket.
type Vocabulary struct {
	frequent map[string]struct{}
	rare     map[string]struct{}
}

// BuildVocabulary counts cities and keeps those seen at least minCount times.
func BuildVocabulary(cities []string, minCount int) *Vocabulary {
	counts := make(map[string]int)
	for _, c := range cities {
		counts[c]++
	}
	v := &Vocabulary{frequent: make(map[string]struct{}), rare: make(map[string]struct{})}
	for c, n := range counts {
		if n >= minCount {
			v.frequent[c] = struct{}{}
		} else {
			v.rare[c] = struct{}{}
		}
	}
	return v
}

// NewVocabulary restores a vocabulary from its two city lists.
func NewVocabulary(frequent, rare []string) *Vocabulary {
	v := &Vocabulary{frequent: make(map[string]struct{}), rare: make(map[string]struct{})}
	for _, c := range frequent {
		v.frequent[c] = struct{}{}
	}
	for _, c := range rare {
		if _, ok := v.frequent[c]; !ok {
			v.rare[c] = struct{}{}
		}
	}
	return v
}

// Bucket maps a rare city to OtherCity. Frequent cities and cities the batch
// never saw are returned unchanged. A nil Vocabulary is the identity.
func (v *Vocabulary) Bucket(city string) string {
	if v == nil {
		return city
	}
	if _, ok := v.rare[city]; ok {
		return OtherCity
	}
	return city
}

// Frequent lists the cities that kept their own bucket, sorted.
func (v *Vocabulary) Frequent() []string {
	if v == nil {
		return nil
	}
	return sortedKeys(v.frequent)
}

// Rare lists the cities collapsed into OtherCity, sorted.
func (v *Vocabulary) Rare() []string {
	if v == nil {
		return nil
	}
	return sortedKeys(v.rare)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
