package regression

import (
	"context"
	"fmt"
	"math"

	apperrors "apartment-estimator/internal/common/errors"
	"apartment-estimator/internal/pipeline/features"
)

// Model is the frozen transform: preprocessor plus regressor over
// log1p(price). It is read-only after Fit or decode.
type Model struct {
	Preprocessor *Preprocessor     `json:"preprocessor"`
	Regressor    *GradientBoosting `json:"regressor"`
}

// Fit learns the preprocessor on vectors and boosts on log1p(prices).
func Fit(ctx context.Context, vectors []*features.Vector, prices []float64, p Params) (*Model, error) {
	if len(vectors) != len(prices) {
		return nil, fmt.Errorf("got %d vectors and %d prices", len(vectors), len(prices))
	}
	pre, err := FitPreprocessor(vectors)
	if err != nil {
		return nil, err
	}
	X := make([][]float64, len(vectors))
	for i, v := range vectors {
		X[i] = pre.Transform(v)
	}
	y := make([]float64, len(prices))
	for i, price := range prices {
		y[i] = math.Log1p(price)
	}
	gb, err := FitGradientBoosting(ctx, X, y, p)
	if err != nil {
		return nil, err
	}
	return &Model{Preprocessor: pre, Regressor: gb}, nil
}

// PredictLog returns the prediction on the log1p scale.
func (m *Model) PredictLog(v *features.Vector) (float64, error) {
	if v == nil {
		return 0, apperrors.NewSchemaViolationError("vector", "no feature vector")
	}
	if err := v.Validate(); err != nil {
		return 0, err
	}
	return m.Regressor.Predict(m.Preprocessor.Transform(v)), nil
}

// Predict returns the raw price estimate, expm1 of the log prediction.
func (m *Model) Predict(v *features.Vector) (float64, error) {
	logPrice, err := m.PredictLog(v)
	if err != nil {
		return 0, err
	}
	return math.Expm1(logPrice), nil
}

// Validate checks a decoded model for internal consistency.
func (m *Model) Validate() error {
	if m.Preprocessor == nil || m.Regressor == nil {
		return fmt.Errorf("model is missing its preprocessor or regressor")
	}
	if err := m.Preprocessor.Validate(); err != nil {
		return err
	}
	if len(m.Regressor.Trees) == 0 {
		return fmt.Errorf("regressor has no trees")
	}
	width := m.Preprocessor.Width()
	for i := range m.Regressor.Trees {
		if !m.Regressor.Trees[i].valid(width) {
			return fmt.Errorf("tree %d is malformed", i)
		}
	}
	return nil
}
