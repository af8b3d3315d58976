package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/temperature-column-map/internal/api/http"
	"github.com/i474232898/temperature-column-map/internal/metrics"
	"github.com/i474232898/temperature-column-map/internal/scheduler"
	"github.com/i474232898/temperature-column-map/internal/store"
	"github.com/i474232898/temperature-column-map/internal/weather"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the column map and its JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(buildDeps())
		},
	}
}

func serve(d *deps) error {
	log := d.logger

	// Snapshot cache: redis when configured and reachable, memory otherwise.
	var cache weather.Cache = store.NewMemoryCache()
	if client := store.OpenRedis(d.cfg.RedisAddr, d.cfg.RedisPassword, d.cfg.RedisDB); client != nil {
		rc := store.NewRedisCache(client)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn("redis unreachable; using in-memory cache", "addr", d.cfg.RedisAddr, "error", err)
		} else {
			log.Info("using redis snapshot cache", "addr", d.cfg.RedisAddr)
			cache = rc
		}
		defer client.Close()
	}

	service := weather.NewService(d.registry, d.pipeline, cache, d.cfg.CacheTTL, log)

	// Re-warm the cache in the background so page loads rarely block.
	jobTimeout := d.cfg.FetchTimeout*time.Duration(d.registry.Len()) + 5*time.Second
	sched := scheduler.New(d.cfg.RefreshInterval, jobTimeout, service, log)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "temperature-column-map",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          jobTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "temperature-column-map",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	httpapi.RegisterRoutes(app, service)

	go func() {
		log.Info("starting server", "addr", ":"+d.cfg.Port, "points", d.registry.Len())
		if err := app.Listen(":" + d.cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	return nil
}
