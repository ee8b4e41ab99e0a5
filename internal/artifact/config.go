package artifact

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"apartment-estimator/internal/common/config"
)

// StoreFromConfig returns the store artifacts are served from. client may be
// nil unless the source is redis.
func StoreFromConfig(cfg config.ArtifactConfig, client redis.Cmdable) (Store, error) {
	switch cfg.Source {
	case config.ArtifactSourceFile:
		return NewFileStore(cfg.ModelPath, cfg.CityTablePath), nil
	case config.ArtifactSourceRedis:
		if client == nil {
			return nil, fmt.Errorf("artifact source redis needs a redis client")
		}
		return NewRedisStore(client, cfg.RedisKeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown artifact source %q", cfg.Source)
	}
}

// PublishStores lists every store a training run writes to: the serving
// store, plus Redis when publishing is on and Redis is not already it.
func PublishStores(cfg config.ArtifactConfig, publishToRedis bool, client redis.Cmdable) ([]Store, error) {
	primary, err := StoreFromConfig(cfg, client)
	if err != nil {
		return nil, err
	}
	stores := []Store{primary}
	if publishToRedis && cfg.Source != config.ArtifactSourceRedis {
		if client == nil {
			return nil, fmt.Errorf("publishing to redis needs a redis client")
		}
		stores = append(stores, NewRedisStore(client, cfg.RedisKeyPrefix))
	}
	return stores, nil
}
