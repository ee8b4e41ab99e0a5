// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml and
// lets environment variables override any key (training.seed -> TRAINING_SEED).
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return build(v)
}

// LoadFromFile reads a single explicit config file.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return build(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func build(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok || !strings.Contains(strVal, "$") {
			continue
		}
		if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
			v.Set(key, expanded)
		}
	}
}

// setDefaults registers every key so AutomaticEnv can override it even when
// the yaml file leaves it out.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "apartment-estimator")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.http_port", 8080)

	v.SetDefault("artifact.source", ArtifactSourceFile)
	v.SetDefault("artifact.model_path", "artifacts/model.json")
	v.SetDefault("artifact.city_table_path", "artifacts/city_price_map.json")
	v.SetDefault("artifact.redis_key_prefix", "estimator:artifact")
	v.SetDefault("artifact.required_at_startup", true)

	v.SetDefault("training.source", TrainingSourceCSV)
	v.SetDefault("training.csv_path", "data/listings.csv")
	v.SetDefault("training.reference_year", 2025)
	v.SetDefault("training.placeholder_desc_len", 150)
	v.SetDefault("training.min_price_km", 20000)
	v.SetDefault("training.min_size_m2", 15)
	v.SetDefault("training.min_city_count", 5)
	v.SetDefault("training.test_fraction", 0.2)
	v.SetDefault("training.seed", 42)
	v.SetDefault("training.cv_folds", 5)
	v.SetDefault("training.cv_parallelism", 4)
	v.SetDefault("training.publish_to_redis", false)
	v.SetDefault("training.record_runs", false)

	v.SetDefault("database.postgres.enabled", false)
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.elasticsearch.enabled", false)
	v.SetDefault("database.elasticsearch.index", "listings")
	v.SetDefault("database.redis.enabled", false)

	v.SetDefault("camunda.enabled", false)

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests", 20)
	v.SetDefault("rate_limit.window_minutes", 1)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

func applyDefaults(cfg *Config) {
	grid := &cfg.Training.Grid
	if len(grid.LearningRates) == 0 {
		grid.LearningRates = []float64{0.03}
	}
	if len(grid.MaxDepths) == 0 {
		grid.MaxDepths = []int{5}
	}
	if len(grid.NEstimators) == 0 {
		grid.NEstimators = []int{400}
	}
	if len(grid.Subsamples) == 0 {
		grid.Subsamples = []float64{0.7}
	}

	if cfg.Training.CVParallelism <= 0 {
		cfg.Training.CVParallelism = 1
	}

	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Elasticsearch.PageSize == 0 {
		cfg.Database.Elasticsearch.PageSize = 1000
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		cfg.Workers[key] = worker
	}
}

func validateConfig(cfg *Config) error {
	switch cfg.Artifact.Source {
	case ArtifactSourceFile:
		if cfg.Artifact.ModelPath == "" || cfg.Artifact.CityTablePath == "" {
			return fmt.Errorf("artifact.model_path and artifact.city_table_path are required")
		}
	case ArtifactSourceRedis:
		if !cfg.Database.Redis.Enabled || cfg.Database.Redis.Address == "" {
			return fmt.Errorf("artifact.source=redis requires database.redis")
		}
	default:
		return fmt.Errorf("unknown artifact.source %q", cfg.Artifact.Source)
	}

	switch cfg.Training.Source {
	case TrainingSourceCSV:
		if cfg.Training.CSVPath == "" {
			return fmt.Errorf("training.csv_path is required")
		}
	case TrainingSourcePostgres:
		if !cfg.Database.Postgres.Enabled {
			return fmt.Errorf("training.source=postgres requires database.postgres")
		}
	case TrainingSourceElasticsearch:
		if !cfg.Database.Elasticsearch.Enabled || len(cfg.Database.Elasticsearch.Addresses) == 0 {
			return fmt.Errorf("training.source=elasticsearch requires database.elasticsearch.addresses")
		}
	default:
		return fmt.Errorf("unknown training.source %q", cfg.Training.Source)
	}

	if cfg.Training.TestFraction <= 0 || cfg.Training.TestFraction >= 1 {
		return fmt.Errorf("training.test_fraction must be in (0, 1)")
	}
	if cfg.Training.CVFolds < 2 {
		return fmt.Errorf("training.cv_folds must be at least 2")
	}
	if cfg.Training.MinCityCount < 1 {
		return fmt.Errorf("training.min_city_count must be positive")
	}

	if cfg.Database.Postgres.Enabled {
		if cfg.Database.Postgres.Host == "" || cfg.Database.Postgres.Database == "" || cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres host, database and user are required")
		}
	}
	if cfg.Database.Redis.Enabled && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}
	if cfg.RateLimit.Enabled && !cfg.Database.Redis.Enabled {
		return fmt.Errorf("rate_limit requires database.redis")
	}
	if cfg.Camunda.Enabled && cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}

	return nil
}

func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       false,
		MaxJobsActive: 5,
		Timeout:       30000,
	}
}

func IsWorkerEnabled(cfg *Config, workerName string) bool {
	return GetWorkerConfig(cfg, workerName).Enabled
}
