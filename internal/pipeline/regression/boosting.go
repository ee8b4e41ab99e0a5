package regression

import (
	"context"
	"fmt"
	"math/rand"
)

// Params are the gradient boosting hyperparameters searched by GridSearch.
type Params struct {
	LearningRate float64 `json:"learning_rate"`
	MaxDepth     int     `json:"max_depth"`
	NEstimators  int     `json:"n_estimators"`
	Subsample    float64 `json:"subsample"`
	Seed         int64   `json:"seed"`
}

func (p Params) Validate() error {
	switch {
	case p.LearningRate <= 0:
		return fmt.Errorf("learning_rate must be positive, got %v", p.LearningRate)
	case p.MaxDepth < 1:
		return fmt.Errorf("max_depth must be at least 1, got %d", p.MaxDepth)
	case p.NEstimators < 1:
		return fmt.Errorf("n_estimators must be at least 1, got %d", p.NEstimators)
	case p.Subsample <= 0 || p.Subsample > 1:
		return fmt.Errorf("subsample must be in (0, 1], got %v", p.Subsample)
	}
	return nil
}

// GradientBoosting is a fitted least-squares boosted tree ensemble.
type GradientBoosting struct {
	Init         float64 `json:"init"`
	LearningRate float64 `json:"learning_rate"`
	Trees        []Tree  `json:"trees"`
}

// FitGradientBoosting fits trees to the residuals of the running
// prediction, starting from the target mean. Each stage draws its in-bag
// rows without replacement from a generator seeded with p.Seed.
func FitGradientBoosting(ctx context.Context, X [][]float64, y []float64, p Params) (*GradientBoosting, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	n := len(X)
	if n == 0 || n != len(y) {
		return nil, fmt.Errorf("need matching non-empty X and y, got %d and %d rows", n, len(y))
	}

	var sum float64
	for _, v := range y {
		sum += v
	}
	m := &GradientBoosting{
		Init:         sum / float64(n),
		LearningRate: p.LearningRate,
		Trees:        make([]Tree, 0, p.NEstimators),
	}

	pred := make([]float64, n)
	for i := range pred {
		pred[i] = m.Init
	}
	order := presort(X)
	rng := rand.New(rand.NewSource(p.Seed))

	inBagCount := n
	if p.Subsample < 1 {
		inBagCount = int(p.Subsample * float64(n))
		if inBagCount < 1 {
			inBagCount = 1
		}
	}
	inBag := make([]bool, n)
	residual := make([]float64, n)

	for stage := 0; stage < p.NEstimators; stage++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i := range y {
			residual[i] = y[i] - pred[i]
		}
		if inBagCount < n {
			for i := range inBag {
				inBag[i] = false
			}
			for _, i := range rng.Perm(n)[:inBagCount] {
				inBag[i] = true
			}
		} else {
			for i := range inBag {
				inBag[i] = true
			}
		}

		tree := growTree(X, residual, order, inBag, p.MaxDepth, 1)
		for i := range X {
			pred[i] += p.LearningRate * tree.Predict(X[i])
		}
		m.Trees = append(m.Trees, *tree)
	}
	return m, nil
}

func (m *GradientBoosting) Predict(x []float64) float64 {
	out := m.Init
	for i := range m.Trees {
		out += m.LearningRate * m.Trees[i].Predict(x)
	}
	return out
}
