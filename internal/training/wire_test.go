package training

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apartment-estimator/internal/common/config"
	"apartment-estimator/internal/common/database"
	"apartment-estimator/internal/common/logger"
)

func wireConfig(dir string) *config.Config {
	return &config.Config{
		Artifact: config.ArtifactConfig{
			Source:        config.ArtifactSourceFile,
			ModelPath:     dir + "/model.json",
			CityTablePath: dir + "/city_price_map.json",
		},
		Training: config.TrainingConfig{
			Source:       config.TrainingSourceCSV,
			CSVPath:      dir + "/listings.csv",
			TestFraction: 0.2,
			CVFolds:      5,
			MinCityCount: 5,
		},
		Database: config.DatabaseConfig{
			Elasticsearch: config.ElasticsearchConfig{Index: "listings", PageSize: 100},
		},
	}
}

func TestSourceFromConfig(t *testing.T) {
	cfg := wireConfig(t.TempDir())

	src, err := SourceFromConfig(cfg, Connections{})
	require.NoError(t, err)
	assert.Equal(t, "csv", src.Name())

	cfg.Training.Source = config.TrainingSourcePostgres
	_, err = SourceFromConfig(cfg, Connections{})
	assert.Error(t, err)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	src, err = SourceFromConfig(cfg, Connections{Postgres: db})
	require.NoError(t, err)
	assert.Equal(t, "postgres", src.Name())

	cfg.Training.Source = config.TrainingSourceElasticsearch
	_, err = SourceFromConfig(cfg, Connections{})
	assert.Error(t, err)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{"http://localhost:9200"}})
	require.NoError(t, err)
	src, err = SourceFromConfig(cfg, Connections{Elasticsearch: es})
	require.NoError(t, err)
	assert.Equal(t, "elasticsearch", src.Name())

	cfg.Training.Source = "parquet"
	_, err = SourceFromConfig(cfg, Connections{})
	assert.Error(t, err)
}

func TestNewJobFromConfigRecordsRuns(t *testing.T) {
	cfg := wireConfig(t.TempDir())
	cfg.Training.RecordRuns = true

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS training_runs").WillReturnResult(sqlmock.NewResult(0, 0))

	job, err := NewJobFromConfig(context.Background(), cfg, Connections{Postgres: db}, logger.NewTestLogger(t), nil)
	require.NoError(t, err)
	assert.NotNil(t, job.Recorder)
	require.Len(t, job.Stores, 1)
	assert.Equal(t, "file", job.Stores[0].Name())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewJobFromConfigWithoutRecorder(t *testing.T) {
	cfg := wireConfig(t.TempDir())

	job, err := NewJobFromConfig(context.Background(), cfg, Connections{}, logger.NewTestLogger(t), nil)
	require.NoError(t, err)
	assert.Nil(t, job.Recorder)

	cfg.Training.PublishToRedis = true
	_, err = NewJobFromConfig(context.Background(), cfg, Connections{}, logger.NewTestLogger(t), nil)
	assert.Error(t, err)
}

func TestConnectionsFrom(t *testing.T) {
	assert.Equal(t, Connections{}, ConnectionsFrom(nil))
	assert.Equal(t, Connections{}, ConnectionsFrom(&database.Connections{}))

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	conns := ConnectionsFrom(&database.Connections{Postgres: &database.PostgresClient{DB: db}})
	assert.Same(t, db, conns.Postgres)
	assert.Nil(t, conns.Redis)
}
