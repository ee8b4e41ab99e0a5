package training

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"

	"apartment-estimator/internal/artifact"
	"apartment-estimator/internal/common/config"
	"apartment-estimator/internal/common/database"
	"apartment-estimator/internal/common/logger"
	"apartment-estimator/internal/common/observability"
	"apartment-estimator/internal/dataset"
)

// Connections are the clients a job may draw on. Unused ones may be nil.
type Connections struct {
	Postgres      *sql.DB
	Elasticsearch *elasticsearch.Client
	Redis         redis.Cmdable
}

// ConnectionsFrom picks the raw clients out of the opened backends.
func ConnectionsFrom(c *database.Connections) Connections {
	var conns Connections
	if c == nil {
		return conns
	}
	if c.Postgres != nil {
		conns.Postgres = c.Postgres.DB
	}
	if c.Elasticsearch != nil {
		conns.Elasticsearch = c.Elasticsearch.Client
	}
	if c.Redis != nil {
		conns.Redis = c.Redis.Client
	}
	return conns
}

// SourceFromConfig picks the historical batch source.
func SourceFromConfig(cfg *config.Config, conns Connections) (dataset.Source, error) {
	switch cfg.Training.Source {
	case config.TrainingSourceCSV:
		return dataset.NewCSVSource(cfg.Training.CSVPath), nil
	case config.TrainingSourcePostgres:
		if conns.Postgres == nil {
			return nil, fmt.Errorf("training source postgres needs a database connection")
		}
		return dataset.NewPostgresSource(conns.Postgres), nil
	case config.TrainingSourceElasticsearch:
		if conns.Elasticsearch == nil {
			return nil, fmt.Errorf("training source elasticsearch needs a client")
		}
		es := cfg.Database.Elasticsearch
		return dataset.NewElasticsearchSource(conns.Elasticsearch, es.Index, es.PageSize), nil
	default:
		return nil, fmt.Errorf("unknown training source %q", cfg.Training.Source)
	}
}

// NewJobFromConfig assembles a training job. When runs are recorded the
// training_runs table is created first.
func NewJobFromConfig(ctx context.Context, cfg *config.Config, conns Connections, log logger.Logger, obs *observability.Observability) (*Job, error) {
	source, err := SourceFromConfig(cfg, conns)
	if err != nil {
		return nil, err
	}
	stores, err := artifact.PublishStores(cfg.Artifact, cfg.Training.PublishToRedis, conns.Redis)
	if err != nil {
		return nil, err
	}

	job := &Job{
		Source:  source,
		Trainer: NewTrainer(ConfigFrom(cfg.Training), log),
		Stores:  stores,
		Metrics: obs,
		Log:     log,
	}

	if cfg.Training.RecordRuns && conns.Postgres != nil {
		recorder := dataset.NewRunRecorder(conns.Postgres)
		if err := recorder.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		job.Recorder = recorder
	}
	return job, nil
}
