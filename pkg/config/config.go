package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	API      APIConfig
	Cache    CacheConfig
	Snapshot SnapshotConfig
	Log      LogConfig
	Reports  ReportsConfig
	Mock     MockConfig
}

// APIConfig points the console at the waterworks backend.
type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	TokenFile string
}

// CacheConfig tunes the resource query cache.
type CacheConfig struct {
	MaxAge         time.Duration
	Retention      time.Duration
	MaxIdleEntries int
}

// SnapshotConfig controls the optional Redis-backed warm-start store.
type SnapshotConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// ReportsConfig governs report export output.
type ReportsConfig struct {
	OutputDir string
	Format    string
}

// MockConfig configures the local fixture backend.
type MockConfig struct {
	Port      int
	JWTSecret string
	TokenTTL  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.API = APIConfig{
		BaseURL:   strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		Timeout:   parseDuration(v.GetString("API_TIMEOUT"), 15*time.Second),
		TokenFile: v.GetString("API_TOKEN_FILE"),
	}

	cfg.Cache = CacheConfig{
		MaxAge:         parseDuration(v.GetString("CACHE_MAX_AGE"), time.Minute),
		Retention:      parseDuration(v.GetString("CACHE_RETENTION"), 5*time.Minute),
		MaxIdleEntries: v.GetInt("CACHE_MAX_IDLE_ENTRIES"),
	}

	cfg.Snapshot = SnapshotConfig{
		Enabled:  v.GetBool("SNAPSHOT_ENABLED"),
		Host:     v.GetString("SNAPSHOT_REDIS_HOST"),
		Port:     v.GetInt("SNAPSHOT_REDIS_PORT"),
		Password: v.GetString("SNAPSHOT_REDIS_PASSWORD"),
		DB:       v.GetInt("SNAPSHOT_REDIS_DB"),
		TTL:      parseDuration(v.GetString("SNAPSHOT_TTL"), 30*time.Minute),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Reports = ReportsConfig{
		OutputDir: v.GetString("REPORTS_OUTPUT_DIR"),
		Format:    v.GetString("REPORTS_FORMAT"),
	}

	cfg.Mock = MockConfig{
		Port:      v.GetInt("MOCKAPI_PORT"),
		JWTSecret: v.GetString("MOCKAPI_JWT_SECRET"),
		TokenTTL:  parseDuration(v.GetString("MOCKAPI_TOKEN_TTL"), 24*time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("API_BASE_URL", "http://localhost:8080/api/v1")
	v.SetDefault("API_TIMEOUT", "15s")
	v.SetDefault("API_TOKEN_FILE", ".agaspay-token")

	v.SetDefault("CACHE_MAX_AGE", "1m")
	v.SetDefault("CACHE_RETENTION", "5m")
	v.SetDefault("CACHE_MAX_IDLE_ENTRIES", 256)

	v.SetDefault("SNAPSHOT_ENABLED", false)
	v.SetDefault("SNAPSHOT_REDIS_HOST", "localhost")
	v.SetDefault("SNAPSHOT_REDIS_PORT", 6379)
	v.SetDefault("SNAPSHOT_REDIS_PASSWORD", "")
	v.SetDefault("SNAPSHOT_REDIS_DB", 0)
	v.SetDefault("SNAPSHOT_TTL", "30m")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("REPORTS_OUTPUT_DIR", "./exports")
	v.SetDefault("REPORTS_FORMAT", "csv")

	v.SetDefault("MOCKAPI_PORT", 8080)
	v.SetDefault("MOCKAPI_JWT_SECRET", "dev_secret")
	v.SetDefault("MOCKAPI_TOKEN_TTL", "24h")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
