// internal/common/database/connections.go
package database

import (
	"context"
	"time"

	"apartment-estimator/internal/common/config"
	"apartment-estimator/internal/common/logger"
)

// Connections holds every enabled backend. Disabled ones stay nil.
type Connections struct {
	Postgres      *PostgresClient
	Elasticsearch *ElasticsearchClient
	Redis         *RedisClient
}

// RetryPolicy controls how long ConnectAll waits for backends to come up.
type RetryPolicy struct {
	Attempts     int
	InitialDelay time.Duration
}

var DefaultRetryPolicy = RetryPolicy{Attempts: 10, InitialDelay: 2 * time.Second}

// ConnectAll opens and pings each enabled backend, retrying while it starts.
func ConnectAll(ctx context.Context, cfg config.DatabaseConfig, policy RetryPolicy, log logger.Logger) (*Connections, error) {
	conns := &Connections{}

	if cfg.Redis.Enabled {
		rc := NewRedis(cfg.Redis)
		err := RetryWithBackoff(ctx, func() error {
			return rc.Ping(ctx)
		}, policy.Attempts, policy.InitialDelay, log, "Redis connection")
		if err != nil {
			_ = rc.Close()
			return nil, err
		}
		conns.Redis = rc
		log.Info("Redis connected successfully", nil)
	}

	if cfg.Postgres.Enabled {
		err := RetryWithBackoff(ctx, func() error {
			pg, err := NewPostgres(cfg.Postgres)
			if err != nil {
				return err
			}
			if err := pg.Ping(ctx); err != nil {
				_ = pg.Close()
				return err
			}
			conns.Postgres = pg
			return nil
		}, policy.Attempts, policy.InitialDelay, log, "PostgreSQL connection")
		if err != nil {
			conns.Close()
			return nil, err
		}
		log.Info("PostgreSQL connected successfully", nil)
	}

	if cfg.Elasticsearch.Enabled {
		err := RetryWithBackoff(ctx, func() error {
			es, err := NewElasticsearch(cfg.Elasticsearch)
			if err != nil {
				return err
			}
			if err := es.Ping(ctx); err != nil {
				return err
			}
			conns.Elasticsearch = es
			return nil
		}, policy.Attempts, policy.InitialDelay, log, "Elasticsearch connection")
		if err != nil {
			conns.Close()
			return nil, err
		}
		log.Info("Elasticsearch connected successfully", nil)
	}

	return conns, nil
}

// Close releases the SQL pool and the Redis client.
func (c *Connections) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Postgres != nil {
		_ = c.Postgres.Close()
	}
}
