package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/temperature-column-map/internal/config"
	"github.com/i474232898/temperature-column-map/internal/weather"
	"github.com/i474232898/temperature-column-map/internal/weather/providers"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	// Running without a subcommand starts the server.
	root := &cobra.Command{
		Use:          "temperature-column-map",
		Short:        "Current temperatures of Kyushu and Chugoku as a 3D column map",
		RunE:         serve.RunE,
		SilenceUsage: true,
	}
	root.AddCommand(serve, newFetchCmd())
	return root
}

// deps is everything both subcommands build from configuration.
type deps struct {
	cfg      *config.AppConfig
	logger   *slog.Logger
	registry *weather.Registry
	pipeline *weather.Pipeline
}

func buildDeps() *deps {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	// Registry problems must stop us before any request goes out.
	registry, err := weather.NewRegistry(weather.DefaultPoints())
	if err != nil {
		log.Fatalf("failed to build point registry: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	provider := providers.NewOpenMeteoProvider(httpClient, cfg.OpenMeteoURL, cfg.ProviderMaxRetries)

	pipeline := weather.NewPipeline(provider, weather.PipelineConfig{
		Scale:        cfg.ElevationScale,
		FetchTimeout: cfg.FetchTimeout,
		Concurrency:  cfg.FetchConcurrency,
	}, logger)

	return &deps{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		pipeline: pipeline,
	}
}
