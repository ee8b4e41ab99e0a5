package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFileDefaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: estimator-test\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "estimator-test", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.HTTPPort)
	assert.Equal(t, ArtifactSourceFile, cfg.Artifact.Source)
	assert.True(t, cfg.Artifact.RequiredAtStartup)

	assert.Equal(t, 2025, cfg.Training.ReferenceYear)
	assert.Equal(t, 150, cfg.Training.PlaceholderDescLen)
	assert.Equal(t, 20000.0, cfg.Training.MinPriceKM)
	assert.Equal(t, 15.0, cfg.Training.MinSizeM2)
	assert.Equal(t, 5, cfg.Training.MinCityCount)
	assert.Equal(t, 0.2, cfg.Training.TestFraction)
	assert.Equal(t, int64(42), cfg.Training.Seed)
	assert.Equal(t, 5, cfg.Training.CVFolds)

	assert.Equal(t, []float64{0.03}, cfg.Training.Grid.LearningRates)
	assert.Equal(t, []int{5}, cfg.Training.Grid.MaxDepths)
	assert.Equal(t, []int{400}, cfg.Training.Grid.NEstimators)
	assert.Equal(t, []float64{0.7}, cfg.Training.Grid.Subsamples)

	assert.Equal(t, 20, cfg.RateLimit.Requests)
	assert.Equal(t, 1, cfg.RateLimit.WindowMinutes)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoadFromFileEnvOverride(t *testing.T) {
	t.Setenv("TRAINING_REFERENCE_YEAR", "2026")
	t.Setenv("ESTIMATOR_MODEL_DIR", "/srv/models")

	path := writeConfig(t, "artifact:\n  model_path: ${ESTIMATOR_MODEL_DIR}/model.json\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2026, cfg.Training.ReferenceYear)
	assert.Equal(t, "/srv/models/model.json", cfg.Artifact.ModelPath)
}

func TestLoadFromFileGridAndWorkers(t *testing.T) {
	path := writeConfig(t, `
training:
  grid:
    learning_rates: [0.03, 0.1]
    max_depths: [3, 5]
workers:
  estimate-apartment-price:
    enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.03, 0.1}, cfg.Training.Grid.LearningRates)
	assert.Equal(t, []int{3, 5}, cfg.Training.Grid.MaxDepths)

	wcfg := GetWorkerConfig(cfg, "estimate-apartment-price")
	assert.True(t, wcfg.Enabled)
	assert.Equal(t, 5, wcfg.MaxJobsActive)
	assert.Equal(t, 30*time.Second, GetDuration(wcfg.Timeout))
	assert.False(t, IsWorkerEnabled(cfg, "train-price-model"))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"unknown artifact source", "artifact:\n  source: s3\n", "unknown artifact.source"},
		{"redis artifact without redis", "artifact:\n  source: redis\n", "requires database.redis"},
		{"postgres source disabled", "training:\n  source: postgres\n", "requires database.postgres"},
		{"bad test fraction", "training:\n  test_fraction: 1.5\n", "test_fraction"},
		{"one fold", "training:\n  cv_folds: 1\n", "cv_folds"},
		{"camunda without broker", "camunda:\n  enabled: true\n", "broker_address"},
		{"rate limit without redis", "rate_limit:\n  enabled: true\n", "rate_limit requires"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "listings", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=listings sslmode=disable", p.GetDSN())
}
