// Package training runs the batch job that turns a historical listing batch
// into a frozen artifact set.
package training

import (
	"context"
	"fmt"
	"time"

	"apartment-estimator/internal/artifact"
	"apartment-estimator/internal/common/config"
	apperrors "apartment-estimator/internal/common/errors"
	"apartment-estimator/internal/common/logger"
	"apartment-estimator/internal/common/metrics"
	"apartment-estimator/internal/dataset"
	"apartment-estimator/internal/models"
	"apartment-estimator/internal/pipeline/features"
	"apartment-estimator/internal/pipeline/location"
	"apartment-estimator/internal/pipeline/normalize"
	"apartment-estimator/internal/pipeline/outlier"
	"apartment-estimator/internal/pipeline/regression"
)

// Drop reasons, also used as metric labels.
const (
	DropMissingPriceOrSize = "missing_price_or_size"
	DropBelowMinPrice      = "below_min_price"
	DropBelowMinSize       = "below_min_size"
	DropNoCity             = "no_city"
	DropOutlier            = "price_per_m2_outlier"
	DropSchemaViolation    = "schema_violation"
)

type Config struct {
	Features      features.Params
	MinPriceKM    float64
	MinSizeM2     float64
	MinCityCount  int
	Outlier       outlier.Policy
	TestFraction  float64
	Seed          int64
	CVFolds       int
	CVParallelism int
	Grid          regression.Grid
}

func DefaultConfig() Config {
	return Config{
		Features:      features.DefaultParams(),
		MinPriceKM:    20000,
		MinSizeM2:     15,
		MinCityCount:  location.DefaultMinCount,
		Outlier:       outlier.DefaultPolicy(),
		TestFraction:  0.2,
		Seed:          42,
		CVFolds:       5,
		CVParallelism: 4,
		Grid:          regression.DefaultGrid(),
	}
}

// ConfigFrom maps the training section of the application config.
func ConfigFrom(tc config.TrainingConfig) Config {
	return Config{
		Features: features.Params{
			ReferenceYear:      tc.ReferenceYear,
			PlaceholderDescLen: tc.PlaceholderDescLen,
		},
		MinPriceKM:    tc.MinPriceKM,
		MinSizeM2:     tc.MinSizeM2,
		MinCityCount:  tc.MinCityCount,
		Outlier:       outlier.DefaultPolicy(),
		TestFraction:  tc.TestFraction,
		Seed:          tc.Seed,
		CVFolds:       tc.CVFolds,
		CVParallelism: tc.CVParallelism,
		Grid: regression.Grid{
			LearningRate: tc.Grid.LearningRates,
			MaxDepth:     tc.Grid.MaxDepths,
			NEstimators:  tc.Grid.NEstimators,
			Subsample:    tc.Grid.Subsamples,
		},
	}
}

// Result is the outcome of one training run.
type Result struct {
	Artifacts   *artifact.Artifacts
	RecordsIn   int
	RecordsUsed int
	Dropped     map[string]int
	Fences      outlier.Fences
	Search      *regression.SearchResult
	Duration    time.Duration
}

// Run summarizes the result as a training_runs row.
func (r *Result) Run() dataset.TrainingRun {
	rep := r.Artifacts.Bundle.Report
	return dataset.TrainingRun{
		Version:     r.Artifacts.Bundle.Version,
		RecordsIn:   r.RecordsIn,
		RecordsUsed: r.RecordsUsed,
		CVR2:        rep.CVScore,
		TestR2:      rep.TestR2,
		TestMAE:     rep.TestMAE,
		TestRMSE:    rep.TestRMSE,
		CreatedAt:   r.Artifacts.Bundle.CreatedAt,
	}
}

type Trainer struct {
	cfg Config
	log logger.Logger
	rep normalize.Reporter
}

func NewTrainer(cfg Config, log logger.Logger) *Trainer {
	return &Trainer{cfg: cfg, log: log, rep: normalize.NewLogReporter(log)}
}

type candidate struct {
	listing models.RawListing
	city    string
}

// Run filters the batch, builds the city table, assembles features, selects
// hyperparameters by cross-validation and refits on the training split.
// Invalid records are skipped; a batch with no usable record fails.
func (t *Trainer) Run(ctx context.Context, listings []models.RawListing) (*Result, error) {
	start := time.Now()
	res := &Result{RecordsIn: len(listings), Dropped: make(map[string]int)}
	t.log.Info("training run started", map[string]interface{}{"records": len(listings)})

	candidates := make([]candidate, 0, len(listings))
	for _, l := range listings {
		if reason := t.prefilter(l); reason != "" {
			t.drop(res, l, reason)
			continue
		}
		city, ok := location.CityOf(l.Location)
		if !ok {
			t.drop(res, l, DropNoCity)
			continue
		}
		candidates = append(candidates, candidate{listing: l, city: city})
	}

	cities := make([]string, len(candidates))
	for i, c := range candidates {
		cities[i] = c.city
	}
	vocab := location.BuildVocabulary(cities, t.cfg.MinCityCount)

	filtered := outlier.Apply(t.cfg.Outlier, candidates, func(c candidate) (float64, bool) {
		return c.listing.PricePerM2()
	})
	res.Fences = filtered.Fences
	if n := filtered.Outside + filtered.Missing; n > 0 {
		res.Dropped[DropOutlier] += n
		metrics.TrainingRecordsDropped.WithLabelValues(DropOutlier).Add(float64(n))
	}
	t.log.Info("outlier filter applied", map[string]interface{}{
		"kept":   len(filtered.Kept),
		"lower":  filtered.Fences.Lower,
		"upper":  filtered.Fences.Upper,
		"passes": filtered.Passes,
	})

	obs := make([]location.Observation, 0, len(filtered.Kept))
	for _, c := range filtered.Kept {
		ppm, _ := c.listing.PricePerM2()
		obs = append(obs, location.Observation{City: vocab.Bucket(c.city), PricePerM2: ppm})
	}
	table := location.BuildTable(obs)

	asm := features.NewAssembler(table, vocab, t.cfg.Features, t.rep)
	vectors := make([]*features.Vector, 0, len(filtered.Kept))
	prices := make([]float64, 0, len(filtered.Kept))
	for _, c := range filtered.Kept {
		v, err := asm.FromScrapedRecord(c.listing)
		if err != nil {
			t.log.WithError(err).Warn("skipping record", map[string]interface{}{"id": c.listing.ID})
			t.drop(res, c.listing, DropSchemaViolation)
			continue
		}
		vectors = append(vectors, v)
		prices = append(prices, *c.listing.PriceKM)
	}
	res.RecordsUsed = len(vectors)

	if len(vectors) == 0 {
		return nil, apperrors.NewEmptyTrainingBatchError(fmt.Sprintf("no usable records out of %d", len(listings)))
	}
	t.log.Info("feature matrix assembled", map[string]interface{}{
		"rows":   len(vectors),
		"cities": table.Len(),
	})

	model, report, search, err := t.fit(ctx, vectors, prices)
	if err != nil {
		return nil, err
	}
	res.Search = search
	res.Artifacts = &artifact.Artifacts{
		Bundle:    artifact.NewBundle(model, vocab, t.cfg.Features, report),
		CityTable: table,
	}
	res.Duration = time.Since(start)

	t.log.Info("training run finished", map[string]interface{}{
		"version":   res.Artifacts.Bundle.Version,
		"cv_r2":     report.CVScore,
		"test_r2":   report.TestR2,
		"test_mae":  report.TestMAE,
		"test_rmse": report.TestRMSE,
		"duration":  res.Duration.String(),
	})
	return res, nil
}

func (t *Trainer) prefilter(l models.RawListing) string {
	switch {
	case l.PriceKM == nil || l.SizeM2 == nil:
		return DropMissingPriceOrSize
	case *l.PriceKM < t.cfg.MinPriceKM:
		return DropBelowMinPrice
	case *l.SizeM2 < t.cfg.MinSizeM2:
		return DropBelowMinSize
	}
	return ""
}

func (t *Trainer) drop(res *Result, l models.RawListing, reason string) {
	res.Dropped[reason]++
	metrics.TrainingRecordsDropped.WithLabelValues(reason).Inc()
	t.log.Debug("record dropped", map[string]interface{}{"id": l.ID, "reason": reason})
}

func (t *Trainer) fit(ctx context.Context, vectors []*features.Vector, prices []float64) (*regression.Model, regression.Report, *regression.SearchResult, error) {
	var report regression.Report

	trainIdx, testIdx, err := regression.TrainTestSplit(len(vectors), t.cfg.TestFraction, t.cfg.Seed)
	if err != nil {
		return nil, report, nil, apperrors.NewEmptyTrainingBatchError(err.Error())
	}
	trainV, trainY := regression.Subset(vectors, prices, trainIdx)
	testV, testY := regression.Subset(vectors, prices, testIdx)

	search, err := regression.GridSearch(ctx, trainV, trainY, t.cfg.Grid.Candidates(t.cfg.Seed), t.cfg.CVFolds, t.cfg.CVParallelism)
	if err != nil {
		return nil, report, nil, apperrors.NewTrainingFailedError(err)
	}
	t.log.Info("grid search finished", map[string]interface{}{
		"best_cv_r2":  search.Best.Mean,
		"candidates":  len(search.Scores),
		"best_params": fmt.Sprintf("%+v", search.Best.Params),
	})

	model, err := regression.Fit(ctx, trainV, trainY, search.Best.Params)
	if err != nil {
		return nil, report, nil, apperrors.NewTrainingFailedError(err)
	}

	predicted := make([]float64, len(testV))
	for i, v := range testV {
		if predicted[i], err = model.Predict(v); err != nil {
			return nil, report, nil, apperrors.NewTrainingFailedError(err)
		}
	}
	report = regression.Report{
		CVScore:    search.Best.Mean,
		BestParams: search.Best.Params,
		TestR2:     regression.R2(testY, predicted),
		TestMAE:    regression.MAE(testY, predicted),
		TestRMSE:   regression.RMSE(testY, predicted),
		TrainRows:  len(trainV),
		TestRows:   len(testV),
	}
	metrics.ModelTestMetric.WithLabelValues("r2").Set(report.TestR2)
	metrics.ModelTestMetric.WithLabelValues("mae").Set(report.TestMAE)
	metrics.ModelTestMetric.WithLabelValues("rmse").Set(report.TestRMSE)
	return model, report, search, nil
}
