package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConfig struct {
	Port string

	LogLevel  string // debug, info, warn, error
	LogFormat string // text, json

	// OpenMeteoURL is the forecast endpoint queried once per point.
	OpenMeteoURL string
	// HTTPTimeout bounds every outbound HTTP call at the client level.
	HTTPTimeout time.Duration
	// FetchTimeout bounds one point's fetch, retries included.
	FetchTimeout       time.Duration
	FetchConcurrency   int
	ProviderMaxRetries int

	// CacheTTL is how long a snapshot is served without a live fetch.
	CacheTTL time.Duration
	// RefreshInterval controls how often the scheduler re-warms a stale
	// cache (0 = disabled).
	RefreshInterval time.Duration

	// ElevationScale is meters of column height per degree Celsius.
	ElevationScale float64

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads configuration from .env, an optional config.yaml and the
// environment, with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*AppConfig, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("openmeteo_base_url", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("http_timeout", "10s")
	v.SetDefault("fetch_timeout", "10s")
	v.SetDefault("fetch_concurrency", 4)
	v.SetDefault("provider_max_retries", 0)
	v.SetDefault("cache_ttl", "10m")
	v.SetDefault("refresh_interval", "10m")
	v.SetDefault("elevation_scale", 3000.0)
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &AppConfig{
		Port:               v.GetString("port"),
		LogLevel:           v.GetString("log_level"),
		LogFormat:          v.GetString("log_format"),
		OpenMeteoURL:       v.GetString("openmeteo_base_url"),
		FetchConcurrency:   v.GetInt("fetch_concurrency"),
		ProviderMaxRetries: v.GetInt("provider_max_retries"),
		ElevationScale:     v.GetFloat64("elevation_scale"),
		RedisAddr:          v.GetString("redis_addr"),
		RedisPassword:      v.GetString("redis_password"),
		RedisDB:            v.GetInt("redis_db"),
	}

	var err error
	if cfg.HTTPTimeout, err = duration(v, "http_timeout"); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = duration(v, "fetch_timeout"); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = duration(v, "cache_ttl"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = duration(v, "refresh_interval"); err != nil {
		return nil, err
	}

	if cfg.FetchConcurrency < 1 {
		return nil, fmt.Errorf("invalid FETCH_CONCURRENCY: must be at least 1, got %d", cfg.FetchConcurrency)
	}
	if cfg.ProviderMaxRetries < 0 {
		return nil, fmt.Errorf("invalid PROVIDER_MAX_RETRIES: must not be negative, got %d", cfg.ProviderMaxRetries)
	}
	if cfg.ElevationScale <= 0 {
		return nil, fmt.Errorf("invalid ELEVATION_SCALE: must be positive, got %v", cfg.ElevationScale)
	}

	return cfg, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", strings.ToUpper(key), err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", strings.ToUpper(key))
	}
	return d, nil
}

// NewLogger creates a new slog.Logger based on the configuration.
func (c *AppConfig) NewLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(c.LogFormat) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
