// internal/common/config/config.go
package config

import "fmt"

type Config struct {
	App       AppConfig               `mapstructure:"app"`
	Artifact  ArtifactConfig          `mapstructure:"artifact"`
	Training  TrainingConfig          `mapstructure:"training"`
	Database  DatabaseConfig          `mapstructure:"database"`
	Camunda   CamundaConfig           `mapstructure:"camunda"`
	Workers   map[string]WorkerConfig `mapstructure:"workers"`
	RateLimit RateLimitConfig         `mapstructure:"rate_limit"`
	CORS      CORSConfig              `mapstructure:"cors"`
	Logging   LoggingConfig           `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	HTTPPort    int    `mapstructure:"http_port"`
}

const (
	ArtifactSourceFile  = "file"
	ArtifactSourceRedis = "redis"
)

// ArtifactConfig locates the trained bundle and the city price table.
type ArtifactConfig struct {
	Source            string `mapstructure:"source"`
	ModelPath         string `mapstructure:"model_path"`
	CityTablePath     string `mapstructure:"city_table_path"`
	RedisKeyPrefix    string `mapstructure:"redis_key_prefix"`
	RequiredAtStartup bool   `mapstructure:"required_at_startup"`
}

const (
	TrainingSourceCSV           = "csv"
	TrainingSourcePostgres      = "postgres"
	TrainingSourceElasticsearch = "elasticsearch"
)

type TrainingConfig struct {
	Source             string     `mapstructure:"source"`
	CSVPath            string     `mapstructure:"csv_path"`
	ReferenceYear      int        `mapstructure:"reference_year"`
	PlaceholderDescLen int        `mapstructure:"placeholder_desc_len"`
	MinPriceKM         float64    `mapstructure:"min_price_km"`
	MinSizeM2          float64    `mapstructure:"min_size_m2"`
	MinCityCount       int        `mapstructure:"min_city_count"`
	TestFraction       float64    `mapstructure:"test_fraction"`
	Seed               int64      `mapstructure:"seed"`
	CVFolds            int        `mapstructure:"cv_folds"`
	CVParallelism      int        `mapstructure:"cv_parallelism"`
	Grid               GridConfig `mapstructure:"grid"`
	PublishToRedis     bool       `mapstructure:"publish_to_redis"`
	RecordRuns         bool       `mapstructure:"record_runs"`
}

// GridConfig lists the hyperparameter values tried by cross-validation.
type GridConfig struct {
	LearningRates []float64 `mapstructure:"learning_rates"`
	MaxDepths     []int     `mapstructure:"max_depths"`
	NEstimators   []int     `mapstructure:"n_estimators"`
	Subsamples    []float64 `mapstructure:"subsamples"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
	PageSize  int      `mapstructure:"page_size"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CamundaConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	BrokerAddress string `mapstructure:"broker_address"`
}

type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
}

type RateLimitConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	Requests      int  `mapstructure:"requests"`
	WindowMinutes int  `mapstructure:"window_minutes"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
