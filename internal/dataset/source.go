// Package dataset loads historical listing batches for training and records
// finished training runs.
package dataset

import (
	"context"

	"apartment-estimator/internal/models"
)

// Source yields one historical batch per call.
type Source interface {
	Load(ctx context.Context) ([]models.RawListing, error)
	Name() string
}
