package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("CacheTTL = %v, want 10m", cfg.CacheTTL)
	}
	if cfg.ElevationScale != 3000 {
		t.Errorf("ElevationScale = %v, want 3000", cfg.ElevationScale)
	}
	if cfg.FetchConcurrency != 4 || cfg.ProviderMaxRetries != 0 {
		t.Errorf("concurrency/retries = %d/%d, want 4/0", cfg.FetchConcurrency, cfg.ProviderMaxRetries)
	}
	if cfg.OpenMeteoURL != "https://api.open-meteo.com/v1/forecast" {
		t.Errorf("OpenMeteoURL = %q", cfg.OpenMeteoURL)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty", cfg.RedisAddr)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("FETCH_CONCURRENCY", "1")
	t.Setenv("ELEVATION_SCALE", "1500")
	t.Setenv("REFRESH_INTERVAL", "0s")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" || cfg.CacheTTL != 30*time.Second || cfg.FetchConcurrency != 1 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.ElevationScale != 1500 || cfg.RefreshInterval != 0 || cfg.LogFormat != "json" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad duration", "CACHE_TTL", "ten minutes"},
		{"negative duration", "FETCH_TIMEOUT", "-1s"},
		{"zero concurrency", "FETCH_CONCURRENCY", "0"},
		{"negative retries", "PROVIDER_MAX_RETRIES", "-1"},
		{"zero scale", "ELEVATION_SCALE", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := load(viper.New()); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"text", "json"} {
		cfg := &AppConfig{LogLevel: "debug", LogFormat: format}
		if cfg.NewLogger() == nil {
			t.Errorf("NewLogger(%s) returned nil", format)
		}
	}
}
