// internal/workers/training/train-price-model/config.go
package trainpricemodel

import (
	"time"

	"apartment-estimator/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

// LoadConfig reads the worker timeout. Training runs far longer than the
// serving workers, so the default is generous.
func LoadConfig(cfg *config.Config) *Config {
	timeout := 30 * time.Minute
	if wc, ok := cfg.Workers[TaskType]; ok && wc.Timeout > 0 {
		timeout = config.GetDuration(wc.Timeout)
	}
	return &Config{Timeout: timeout}
}
