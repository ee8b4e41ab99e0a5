// internal/workers/estimation/estimate-apartment-price/config.go
package estimateapartmentprice

import (
	"time"

	"apartment-estimator/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	timeout := 10 * time.Second
	if wc := config.GetWorkerConfig(cfg, TaskType); wc.Timeout > 0 {
		timeout = config.GetDuration(wc.Timeout)
	}
	return &Config{Timeout: timeout}
}
