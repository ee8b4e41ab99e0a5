package training

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apartment-estimator/internal/artifact"
	"apartment-estimator/internal/common/config"
	apperrors "apartment-estimator/internal/common/errors"
	"apartment-estimator/internal/common/logger"
	"apartment-estimator/internal/dataset"
	"apartment-estimator/internal/models"
	"apartment-estimator/internal/pipeline/location"
	"apartment-estimator/internal/pipeline/regression"
)

func ptr[T any](v T) *T { return &v }

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.CVFolds = 3
	cfg.CVParallelism = 2
	cfg.Grid = regression.Grid{
		LearningRate: []float64{0.1},
		MaxDepth:     []int{2},
		NEstimators:  []int{20},
		Subsample:    []float64{1},
	}
	return cfg
}

func listing(id int, loc string, size, ppm float64) models.RawListing {
	return models.RawListing{
		ID:          int64(id),
		Location:    loc,
		SizeM2:      ptr(size),
		PriceKM:     ptr(size * ppm),
		Rooms:       []string{"Jednosoban (1)", "Dvosoban (2)", "Trosoban (3)"}[id%3],
		Floor:       fmt.Sprint(id % 6),
		Bathrooms:   "1",
		YearBuilt:   []string{"2010+", "1980 do 1989", "Prije 1950"}[id%3],
		Condition:   []string{"Renoviran", "Dobro stanje", "Novogradnja"}[id%3],
		Furnished:   "Namješten",
		HeatingType: "Centralno (gradsko)",
		Description: "Stan sa pogledom",
		HasElevator: id%2 == 0,
	}
}

// trainingBatch returns 58 clean listings, one price outlier and four
// records the prefilter rejects.
func trainingBatch() []models.RawListing {
	var out []models.RawListing
	for i := 0; i < 30; i++ {
		out = append(out, listing(i, "Sarajevo - Centar", 30+float64((i*7)%50), 2500+float64(i%7)*50))
	}
	for i := 30; i < 55; i++ {
		out = append(out, listing(i, "Tuzla", 30+float64((i*7)%50), 1800+float64(i%5)*40))
	}
	for i := 55; i < 58; i++ {
		out = append(out, listing(i, "Neum", 60, 3000))
	}
	out = append(out, listing(58, "Tuzla", 50, 250000))

	noPrice := listing(59, "Tuzla", 50, 2000)
	noPrice.PriceKM = nil
	cheap := listing(60, "Tuzla", 20, 500)
	tiny := listing(61, "Tuzla", 10, 4000)
	noCity := listing(62, " - Centar", 50, 2000)
	return append(out, noPrice, cheap, tiny, noCity)
}

func TestTrainerRun(t *testing.T) {
	tr := NewTrainer(testConfig(), logger.NewTestLogger(t))

	res, err := tr.Run(context.Background(), trainingBatch())
	require.NoError(t, err)

	assert.Equal(t, 63, res.RecordsIn)
	assert.Equal(t, 58, res.RecordsUsed)
	assert.Equal(t, 1, res.Dropped[DropMissingPriceOrSize])
	assert.Equal(t, 1, res.Dropped[DropBelowMinPrice])
	assert.Equal(t, 1, res.Dropped[DropBelowMinSize])
	assert.Equal(t, 1, res.Dropped[DropNoCity])
	assert.Equal(t, 1, res.Dropped[DropOutlier])

	require.NoError(t, res.Artifacts.Validate())
	table := res.Artifacts.CityTable
	assert.Equal(t, []string{location.OtherCity, "Sarajevo", "Tuzla"}, table.Cities())
	other, ok := table.Lookup(location.OtherCity)
	require.True(t, ok)
	assert.Equal(t, 3000.0, other)

	b := res.Artifacts.Bundle
	assert.Equal(t, []string{"Neum"}, b.Vocabulary.Rare)
	assert.Equal(t, []string{"Sarajevo", "Tuzla"}, b.Vocabulary.Frequent)
	assert.Equal(t, 12, b.Report.TestRows)
	assert.Equal(t, 46, b.Report.TrainRows)
	assert.Greater(t, b.Report.TestR2, 0.0)
	assert.Len(t, res.Search.Best.FoldScores, 3)

	row := res.Run()
	assert.Equal(t, b.Version, row.Version)
	assert.Equal(t, 58, row.RecordsUsed)
}

func TestTrainerRunDeterministic(t *testing.T) {
	tr := NewTrainer(testConfig(), logger.NewNoOpLogger())

	first, err := tr.Run(context.Background(), trainingBatch())
	require.NoError(t, err)
	second, err := tr.Run(context.Background(), trainingBatch())
	require.NoError(t, err)

	assert.Equal(t, first.Artifacts.Bundle.Model, second.Artifacts.Bundle.Model)
	assert.Equal(t, first.Artifacts.CityTable.Medians(), second.Artifacts.CityTable.Medians())
	assert.NotEqual(t, first.Artifacts.Bundle.Version, second.Artifacts.Bundle.Version)
}

func TestTrainerRunEmptyBatch(t *testing.T) {
	tr := NewTrainer(testConfig(), logger.NewNoOpLogger())

	bad := listing(1, "Tuzla", 10, 100)
	_, err := tr.Run(context.Background(), []models.RawListing{bad})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeEmptyTrainingBatch))

	_, err = tr.Run(context.Background(), nil)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeEmptyTrainingBatch))
}

type memorySource struct {
	listings []models.RawListing
	err      error
}

func (s *memorySource) Load(context.Context) ([]models.RawListing, error) { return s.listings, s.err }
func (s *memorySource) Name() string { return "memory" }

type memoryRecorder struct {
	runs []dataset.TrainingRun
	err  error
}

func (r *memoryRecorder) Record(_ context.Context, run dataset.TrainingRun) error {
	r.runs = append(r.runs, run)
	return r.err
}

func TestJobExecute(t *testing.T) {
	dir := t.TempDir()
	store := artifact.NewFileStore(filepath.Join(dir, "bundle.json"), filepath.Join(dir, "city_table.json"))
	rec := &memoryRecorder{err: errors.New("db down")}
	job := &Job{
		Source:   &memorySource{listings: trainingBatch()},
		Trainer:  NewTrainer(testConfig(), logger.NewNoOpLogger()),
		Stores:   []artifact.Store{store},
		Recorder: rec,
		Log:      logger.NewNoOpLogger(),
	}

	res, err := job.Execute(context.Background())
	require.NoError(t, err, "recorder failures do not fail the run")
	require.Len(t, rec.runs, 1)
	assert.Equal(t, res.Artifacts.Bundle.Version, rec.runs[0].Version)

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res.Artifacts.Bundle.Version, loaded.Bundle.Version)
}

func TestJobExecuteSourceError(t *testing.T) {
	dir := t.TempDir()
	store := artifact.NewFileStore(filepath.Join(dir, "bundle.json"), filepath.Join(dir, "city_table.json"))
	job := &Job{
		Source:  &memorySource{err: apperrors.NewDataSourceError("memory", errors.New("unreachable"))},
		Trainer: NewTrainer(testConfig(), logger.NewNoOpLogger()),
		Stores:  []artifact.Store{store},
		Log:     logger.NewNoOpLogger(),
	}

	_, err := job.Execute(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDataSourceError))

	_, err = store.Load(context.Background())
	assert.Error(t, err)
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.TrainingConfig{
		ReferenceYear:      2025,
		PlaceholderDescLen: 150,
		MinPriceKM:         20000,
		MinSizeM2:          15,
		MinCityCount:       5,
		TestFraction:       0.2,
		Seed:               42,
		CVFolds:            5,
		CVParallelism:      2,
		Grid: config.GridConfig{
			LearningRates: []float64{0.03},
			MaxDepths:     []int{5},
			NEstimators:   []int{400},
			Subsamples:    []float64{0.7},
		},
	})
	assert.Equal(t, 2025, cfg.Features.ReferenceYear)
	assert.Equal(t, []int{5}, cfg.Grid.MaxDepth)
	assert.Len(t, cfg.Grid.Candidates(cfg.Seed), 1)
}
