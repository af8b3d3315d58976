package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/i474232898/temperature-column-map/internal/weather"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	if _, err := c.Get(ctx, "k"); !errors.Is(err, weather.ErrCacheMiss) {
		t.Fatalf("expected cache miss on empty cache, got %v", err)
	}

	snap := weather.Snapshot{
		RunID:     "run-1",
		Records:   weather.ResultSet{{ID: "Fukuoka", TemperatureC: 8}},
		CreatedAt: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
		TTL:       10 * time.Minute,
	}
	if err := c.Put(ctx, "k", snap); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.RunID != "run-1" || len(got.Records) != 1 {
		t.Errorf("unexpected snapshot: %+v", got)
	}

	// Other keys are independent.
	if _, err := c.Get(ctx, "other"); !errors.Is(err, weather.ErrCacheMiss) {
		t.Errorf("expected miss for other key, got %v", err)
	}

	if err := c.Invalidate(ctx, "k"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, weather.ErrCacheMiss) {
		t.Errorf("expected miss after invalidation, got %v", err)
	}
	if err := c.Invalidate(ctx, "k"); err != nil {
		t.Errorf("invalidating a missing key should not fail: %v", err)
	}
}
