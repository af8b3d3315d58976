package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/temperature-column-map/internal/weather"
)

// Warmer is the part of weather.Service the scheduler drives.
type Warmer interface {
	Current(ctx context.Context) (weather.Snapshot, bool)
}

// Scheduler periodically re-warms the snapshot cache so page loads rarely
// wait on a live fetch.
type Scheduler struct {
	scheduler *gocron.Scheduler
	warmer    Warmer
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler. timeout bounds a single warm-up job.
func New(interval, timeout time.Duration, warmer Warmer, logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		warmer:    warmer,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("scheduler: refresh interval is 0; cache is only filled on demand")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	snap, cached := s.warmer.Current(ctx)
	if cached {
		s.logger.Debug("scheduler: cache still fresh", "run", snap.RunID, "expiresAt", snap.ExpiresAt())
		return
	}
	s.logger.Info("scheduler: cache re-warmed",
		"run", snap.RunID,
		"records", len(snap.Records),
		"warnings", len(snap.Warnings),
	)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
