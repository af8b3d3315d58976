package weather

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/i474232898/temperature-column-map/internal/metrics"
)

// Runner runs the fetch-transform pipeline over a list of points.
type Runner interface {
	Run(ctx context.Context, points []GeoPoint) RunResult
}

// Service serves the latest snapshot for the registry, memoized for ttl.
type Service struct {
	registry *Registry
	runner   Runner
	cache    Cache
	ttl      time.Duration
	logger   *slog.Logger

	now func() time.Time
}

// NewService creates a new Service.
func NewService(registry *Registry, runner Runner, cache Cache, ttl time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		registry: registry,
		runner:   runner,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Registry returns the registry this service fetches.
func (s *Service) Registry() *Registry {
	return s.registry
}

// TTL returns how long a snapshot is served from cache.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Current returns the cached snapshot while it is fresh, otherwise runs the
// pipeline and caches the result. The bool reports a cache hit.
func (s *Service) Current(ctx context.Context) (Snapshot, bool) {
	key := s.registry.Fingerprint()

	snap, err := s.cache.Get(ctx, key)
	switch {
	case err == nil && !snap.IsStale(s.now()):
		metrics.CacheHitsTotal.Inc()
		return snap, true
	case err != nil && !errors.Is(err, ErrCacheMiss):
		s.logger.Error("cache read failed; running live", "key", key, "error", err)
	}

	metrics.CacheMissesTotal.Inc()
	return s.runAndStore(ctx, key), false
}

// Refresh drops the cached snapshot, resets the runner's failure state and
// runs the pipeline live, whatever ttl remains.
func (s *Service) Refresh(ctx context.Context) Snapshot {
	key := s.registry.Fingerprint()
	metrics.RefreshTotal.Inc()

	if err := s.cache.Invalidate(ctx, key); err != nil {
		// The live run below overwrites the entry anyway.
		s.logger.Error("cache invalidation failed", "key", key, "error", err)
	}
	if r, ok := s.runner.(Resetter); ok {
		r.Reset()
	}
	return s.runAndStore(ctx, key)
}

func (s *Service) runAndStore(ctx context.Context, key string) Snapshot {
	res := s.runner.Run(ctx, s.registry.All())

	snap := Snapshot{
		RunID:     res.RunID,
		Records:   res.Records,
		Warnings:  res.Warnings,
		CreatedAt: s.now().UTC(),
		TTL:       s.ttl,
	}

	if err := s.cache.Put(ctx, key, snap); err != nil {
		s.logger.Error("cache write failed", "key", key, "error", err)
	}
	return snap
}
