package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Oracle   OracleConfig
	Engine   EngineConfig
	Catalog  CatalogConfig
}

type AppConfig struct {
	AppName     string `env:"APP_NAME" envDefault:"skill-coach"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
}

type DatabaseConfig struct {
	DBHost     string `env:"DB_HOST"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBName     string `env:"DB_NAME"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBSSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`

	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"5s"`
	MigrateOnStart bool          `env:"DB_MIGRATE_ON_START" envDefault:"true"`
	PoolMaxConns   int32         `env:"DB_POOL_MAX_CONNS" envDefault:"10"`
	PoolMinConns   int32         `env:"DB_POOL_MIN_CONNS" envDefault:"0"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`

	SnapshotTTL time.Duration `env:"REDIS_SNAPSHOT_TTL" envDefault:"24h"`
}

type OracleConfig struct {
	OpenAIAPIKey  string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL"`
	OpenAIModel   string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	CallTimeout   time.Duration `env:"ORACLE_CALL_TIMEOUT" envDefault:"20s"`
}

// EngineConfig carries the scoring and filtering knobs. The weights are
// tuning parameters, not contracts; tests assert direction of effect only.
type EngineConfig struct {
	GapWeight       float64 `env:"ENGINE_GAP_WEIGHT" envDefault:"0.3"`
	GoalWeight      float64 `env:"ENGINE_GOAL_WEIGHT" envDefault:"0.3"`
	TimeFitWeight   float64 `env:"ENGINE_TIME_FIT_WEIGHT" envDefault:"0.2"`
	RecencyWeight   float64 `env:"ENGINE_RECENCY_WEIGHT" envDefault:"0.2"`
	FoundationalMul float64 `env:"ENGINE_FOUNDATIONAL_MUL" envDefault:"1.5"`

	DiversityWindow  int     `env:"ENGINE_DIVERSITY_WINDOW" envDefault:"5"`
	DiversityPenalty float64 `env:"ENGINE_DIVERSITY_PENALTY" envDefault:"0.2"`
	StreakEscalation float64 `env:"ENGINE_STREAK_ESCALATION" envDefault:"0.15"`

	DecayAfterCycles int     `env:"ENGINE_DECAY_AFTER_CYCLES" envDefault:"3"`
	DecayBoost       float64 `env:"ENGINE_DECAY_BOOST" envDefault:"0.05"`

	AnalysisTTL    time.Duration `env:"ANALYSIS_TTL" envDefault:"1h"`
	TopK           int           `env:"ENGINE_TOP_K" envDefault:"3"`
	StorageRetries int           `env:"STORAGE_RETRIES" envDefault:"3"`
}

type CatalogConfig struct {
	HarvestEnabled bool   `env:"CATALOG_HARVEST_ENABLED" envDefault:"false"`
	HarvestBaseURL string `env:"CATALOG_HARVEST_BASE_URL" envDefault:"https://dev.to"`
	HarvestWorkers int    `env:"CATALOG_HARVEST_WORKERS" envDefault:"2"`

	StaleSweepSpec string `env:"STALE_SWEEP_CRON" envDefault:"@every 10m"`
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	for _, target := range []any{
		&cfg.App, &cfg.Database, &cfg.Redis, &cfg.Oracle, &cfg.Engine, &cfg.Catalog,
	} {
		if err := env.Parse(target); err != nil {
			return Config{}, err
		}
	}

	var missing []string
	req := func(key, val string) {
		if strings.TrimSpace(val) == "" {
			missing = append(missing, key)
		}
	}
	req("DB_HOST", cfg.Database.DBHost)
	req("DB_NAME", cfg.Database.DBName)
	req("DB_USER", cfg.Database.DBUser)

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}
