package weather

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/temperature-column-map/internal/metrics"
)

// PipelineConfig controls one pipeline instance.
type PipelineConfig struct {
	// Scale is the elevation in meters per degree Celsius.
	Scale float64
	// FetchTimeout bounds each per-point provider call.
	FetchTimeout time.Duration
	// Concurrency is the number of points fetched at once; 1 is sequential.
	Concurrency int
}

// RunResult is the output of one pipeline run.
type RunResult struct {
	RunID      string
	Records    ResultSet
	Warnings   []Warning
	StartedAt  time.Time
	FinishedAt time.Time
}

// Pipeline fetches a reading per point and turns it into a WeatherRecord.
type Pipeline struct {
	provider Provider
	cfg      PipelineConfig
	logger   *slog.Logger
}

// NewPipeline creates a new Pipeline. Zero config values fall back to
// DefaultScale, a 10s fetch timeout and sequential fetching.
func NewPipeline(provider Provider, cfg PipelineConfig, logger *slog.Logger) *Pipeline {
	if cfg.Scale == 0 {
		cfg.Scale = DefaultScale
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		provider: provider,
		cfg:      cfg,
		logger:   logger,
	}
}

// Scale returns the elevation scale used by this pipeline.
func (p *Pipeline) Scale() float64 {
	return p.cfg.Scale
}

// Reset clears the provider's failure state, if it keeps any.
func (p *Pipeline) Reset() {
	if r, ok := p.provider.(Resetter); ok {
		r.Reset()
	}
}

type outcome struct {
	record WeatherRecord
	err    *FetchError
}

// Run fetches every point and returns the records of the ones that
// succeeded, in input order, plus one warning per failed point. A failing
// point never aborts the run; an all-failed run returns an empty ResultSet.
func (p *Pipeline) Run(ctx context.Context, points []GeoPoint) RunResult {
	res := RunResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	log := p.logger.With("run", res.RunID, "provider", p.provider.Name())
	log.Debug("pipeline run started", "points", len(points), "concurrency", p.cfg.Concurrency)

	// One slot per point; merged in order once every fetch is done.
	outcomes := make([]outcome, len(points))

	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Concurrency)
	for i, pt := range points {
		wg.Add(1)
		go func(i int, pt GeoPoint) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			outcomes[i] = p.fetchOne(ctx, pt)
		}(i, pt)
	}
	wg.Wait()

	res.Records = make(ResultSet, 0, len(points))
	for _, o := range outcomes {
		if o.err != nil {
			w := o.err.warning()
			res.Warnings = append(res.Warnings, w)
			log.Warn("point dropped", "point", w.PointID, "kind", w.Kind, "error", o.err.Err)
			continue
		}
		res.Records = append(res.Records, o.record)
	}
	res.FinishedAt = time.Now().UTC()

	metrics.RunsTotal.Inc()
	metrics.RunRecords.Set(float64(len(res.Records)))
	log.Info("pipeline run finished",
		"records", len(res.Records),
		"warnings", len(res.Warnings),
		"duration", res.FinishedAt.Sub(res.StartedAt),
	)
	return res
}

func (p *Pipeline) fetchOne(ctx context.Context, pt GeoPoint) outcome {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
	defer cancel()

	start := time.Now()
	reading, err := p.provider.Fetch(ctx, pt)
	metrics.FetchDurationMs.Observe(float64(time.Since(start).Milliseconds()))

	if err == nil && (math.IsNaN(reading.TemperatureC) || math.IsInf(reading.TemperatureC, 0)) {
		err = fmt.Errorf("%w: temperature is not a finite number", ErrContract)
	}
	if err != nil {
		fe := newFetchError(pt, err)
		metrics.FetchTotal.WithLabelValues(string(fe.Kind)).Inc()
		return outcome{err: fe}
	}

	if reading.FetchedAt.IsZero() {
		reading.FetchedAt = time.Now().UTC()
	}
	metrics.FetchTotal.WithLabelValues("ok").Inc()
	return outcome{record: NewRecord(pt, reading, p.cfg.Scale)}
}
