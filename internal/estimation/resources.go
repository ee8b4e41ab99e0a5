// Package estimation serves single-request price estimates from a frozen
// artifact set.
package estimation

import (
	"context"

	"apartment-estimator/internal/artifact"
	apperrors "apartment-estimator/internal/common/errors"
	"apartment-estimator/internal/pipeline/features"
	"apartment-estimator/internal/pipeline/normalize"
	"apartment-estimator/internal/pipeline/regression"
)

// Resources is the immutable serving state. The zero value and Unloaded()
// are the explicit not-loaded state; every estimate against them fails with
// RESOURCE_UNAVAILABLE.
type Resources struct {
	assembler *features.Assembler
	model     *regression.Model
	version   string
}

// Unloaded returns resources that answer every request as unavailable.
func Unloaded() *Resources {
	return &Resources{}
}

// Loaded freezes a validated artifact set for serving.
func Loaded(a *artifact.Artifacts, rep normalize.Reporter) (*Resources, error) {
	if err := a.Validate(); err != nil {
		return nil, apperrors.NewArtifactLoadFailedError("artifacts", err)
	}
	b := a.Bundle
	return &Resources{
		assembler: features.NewAssembler(a.CityTable, b.CityVocabulary(), b.FeatureParams, rep),
		model:     b.Model,
		version:   b.Version,
	}, nil
}

// Load fetches artifacts from store and freezes them.
func Load(ctx context.Context, store artifact.Store, rep normalize.Reporter) (*Resources, error) {
	a, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Loaded(a, rep)
}

func (r *Resources) IsLoaded() bool {
	return r != nil && r.assembler != nil && r.model != nil
}

// Version is the bundle version, empty when not loaded.
func (r *Resources) Version() string {
	if r == nil {
		return ""
	}
	return r.version
}
