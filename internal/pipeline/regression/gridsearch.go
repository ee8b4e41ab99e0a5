package regression

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"apartment-estimator/internal/pipeline/features"
)

// Grid lists the candidate values per hyperparameter.
type Grid struct {
	LearningRate []float64 `json:"learning_rate"`
	MaxDepth     []int     `json:"max_depth"`
	NEstimators  []int     `json:"n_estimators"`
	Subsample    []float64 `json:"subsample"`
}

func DefaultGrid() Grid {
	return Grid{
		LearningRate: []float64{0.03},
		MaxDepth:     []int{5},
		NEstimators:  []int{400},
		Subsample:    []float64{0.7},
	}
}

// Candidates expands the grid with the last parameter varying fastest.
func (g Grid) Candidates(seed int64) []Params {
	var out []Params
	for _, lr := range g.LearningRate {
		for _, depth := range g.MaxDepth {
			for _, n := range g.NEstimators {
				for _, sub := range g.Subsample {
					out = append(out, Params{
						LearningRate: lr,
						MaxDepth:     depth,
						NEstimators:  n,
						Subsample:    sub,
						Seed:         seed,
					})
				}
			}
		}
	}
	return out
}

// CandidateScore is the cross-validated R² of one candidate.
type CandidateScore struct {
	Params     Params    `json:"params"`
	FoldScores []float64 `json:"fold_scores"`
	Mean       float64   `json:"mean"`
}

// SearchResult is the outcome of GridSearch.
type SearchResult struct {
	Best   CandidateScore
	Scores []CandidateScore
}

// GridSearch scores every candidate by k-fold R² on log1p(prices). Folds
// are independent and run on up to parallelism goroutines; the best mean
// wins and ties keep the earlier candidate.
func GridSearch(ctx context.Context, vectors []*features.Vector, prices []float64, candidates []Params, k, parallelism int) (*SearchResult, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("empty parameter grid")
	}
	for _, c := range candidates {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	folds, err := KFold(len(vectors), k)
	if err != nil {
		return nil, err
	}
	if parallelism < 1 {
		parallelism = 1
	}

	scores := make([][]float64, len(candidates))
	for c := range scores {
		scores[c] = make([]float64, len(folds))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for c := range candidates {
		for f := range folds {
			g.Go(func() error {
				s, err := scoreFold(gctx, vectors, prices, folds[f], candidates[c])
				if err != nil {
					return fmt.Errorf("candidate %d fold %d: %w", c, f, err)
				}
				scores[c][f] = s
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &SearchResult{Scores: make([]CandidateScore, len(candidates))}
	for c, p := range candidates {
		var sum float64
		for _, s := range scores[c] {
			sum += s
		}
		res.Scores[c] = CandidateScore{Params: p, FoldScores: scores[c], Mean: sum / float64(len(folds))}
		if c == 0 || res.Scores[c].Mean > res.Best.Mean {
			res.Best = res.Scores[c]
		}
	}
	return res, nil
}

func scoreFold(ctx context.Context, vectors []*features.Vector, prices []float64, fold Fold, p Params) (float64, error) {
	trainV, trainY := Subset(vectors, prices, fold.Train)
	m, err := Fit(ctx, trainV, trainY, p)
	if err != nil {
		return 0, err
	}
	actual := make([]float64, len(fold.Test))
	predicted := make([]float64, len(fold.Test))
	for i, row := range fold.Test {
		logPrice, err := m.PredictLog(vectors[row])
		if err != nil {
			return 0, err
		}
		actual[i] = math.Log1p(prices[row])
		predicted[i] = logPrice
	}
	return R2(actual, predicted), nil
}

// Subset picks rows by index.
func Subset(vectors []*features.Vector, prices []float64, rows []int) ([]*features.Vector, []float64) {
	v := make([]*features.Vector, len(rows))
	y := make([]float64, len(rows))
	for i, r := range rows {
		v[i] = vectors[r]
		y[i] = prices[r]
	}
	return v, y
}
