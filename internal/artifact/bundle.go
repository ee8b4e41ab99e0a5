// Package artifact persists and restores the frozen serving resources: the
// model bundle and the city price table.
package artifact

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"apartment-estimator/internal/pipeline/features"
	"apartment-estimator/internal/pipeline/location"
	"apartment-estimator/internal/pipeline/regression"
)

// Vocabulary is the serialized city vocabulary.
type Vocabulary struct {
	Frequent []string `json:"frequent"`
	Rare     []string `json:"rare"`
}

// Bundle is the versioned output of one training run.
type Bundle struct {
	Version           string            `json:"version"`
	CreatedAt         time.Time         `json:"created_at"`
	Schema            []features.Field  `json:"schema"`
	SchemaFingerprint string            `json:"schema_fingerprint"`
	FeatureParams     features.Params   `json:"feature_params"`
	Vocabulary        Vocabulary        `json:"city_vocabulary"`
	Model             *regression.Model `json:"model"`
	Report            regression.Report `json:"report"`
}

// NewBundle stamps a fresh version and the compiled schema.
func NewBundle(model *regression.Model, vocab *location.Vocabulary, params features.Params, report regression.Report) *Bundle {
	return &Bundle{
		Version:           uuid.NewString(),
		CreatedAt:         time.Now().UTC(),
		Schema:            features.Schema(),
		SchemaFingerprint: features.SchemaFingerprint(),
		FeatureParams:     params,
		Vocabulary:        Vocabulary{Frequent: vocab.Frequent(), Rare: vocab.Rare()},
		Model:             model,
		Report:            report,
	}
}

// CityVocabulary restores the vocabulary the bundle was trained with.
func (b *Bundle) CityVocabulary() *location.Vocabulary {
	return location.NewVocabulary(b.Vocabulary.Frequent, b.Vocabulary.Rare)
}

// Validate rejects bundles this build cannot serve.
func (b *Bundle) Validate() error {
	if _, err := uuid.Parse(b.Version); err != nil {
		return fmt.Errorf("invalid bundle version %q: %w", b.Version, err)
	}
	if b.SchemaFingerprint != features.SchemaFingerprint() {
		return fmt.Errorf("bundle schema fingerprint %s does not match %s", b.SchemaFingerprint, features.SchemaFingerprint())
	}
	if b.Model == nil {
		return fmt.Errorf("bundle has no model")
	}
	if err := b.Model.Validate(); err != nil {
		return fmt.Errorf("bundle model: %w", err)
	}
	if b.FeatureParams.ReferenceYear <= 0 || b.FeatureParams.PlaceholderDescLen < 0 {
		return fmt.Errorf("invalid feature params %+v", b.FeatureParams)
	}
	return nil
}

// Artifacts pairs a bundle with the city table it was trained against.
type Artifacts struct {
	Bundle    *Bundle
	CityTable *location.CityPriceTable
}

func (a *Artifacts) Validate() error {
	if a == nil || a.Bundle == nil {
		return fmt.Errorf("no bundle")
	}
	if a.CityTable == nil {
		return fmt.Errorf("no city price table")
	}
	return a.Bundle.Validate()
}

func decode(bundleData, tableData []byte) (*Artifacts, error) {
	var b Bundle
	if err := json.Unmarshal(bundleData, &b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	var table location.CityPriceTable
	if err := json.Unmarshal(tableData, &table); err != nil {
		return nil, fmt.Errorf("decode city table: %w", err)
	}
	a := &Artifacts{Bundle: &b, CityTable: &table}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func encode(a *Artifacts) (bundleData, tableData []byte, err error) {
	if err := a.Validate(); err != nil {
		return nil, nil, err
	}
	if bundleData, err = json.Marshal(a.Bundle); err != nil {
		return nil, nil, fmt.Errorf("encode bundle: %w", err)
	}
	if tableData, err = json.MarshalIndent(a.CityTable, "", "  "); err != nil {
		return nil, nil, fmt.Errorf("encode city table: %w", err)
	}
	return bundleData, tableData, nil
}
