package weather

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// mapCache is a minimal Cache used to observe the service.
type mapCache struct {
	mu      sync.Mutex
	data    map[string]Snapshot
	getErr  error
	invalid int
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string]Snapshot{}}
}

func (c *mapCache) Get(_ context.Context, key string) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return Snapshot{}, c.getErr
	}
	s, ok := c.data[key]
	if !ok {
		return Snapshot{}, ErrCacheMiss
	}
	return s, nil
}

func (c *mapCache) Put(_ context.Context, key string, s Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = s
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalid++
	delete(c.data, key)
	return nil
}

type serviceFixture struct {
	svc   *Service
	prov  *fakeProvider
	cache *mapCache
	now   time.Time
}

func newServiceFixture(t *testing.T, ttl time.Duration) *serviceFixture {
	t.Helper()

	reg := MustNewRegistry([]GeoPoint{
		{ID: "A", Lat: 33.59, Lon: 130.40},
		{ID: "B", Lat: 34.39, Lon: 132.46},
	})
	prov := newFakeProvider(map[string]float64{"A": 8.0, "B": 27.5})
	cache := newMapCache()

	f := &serviceFixture{
		prov:  prov,
		cache: cache,
		now:   time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(reg, NewPipeline(prov, PipelineConfig{}, nil), cache, ttl, nil)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func TestServiceCurrentServesFromCacheWithinTTL(t *testing.T) {
	f := newServiceFixture(t, 10*time.Minute)
	ctx := context.Background()

	first, hit := f.svc.Current(ctx)
	if hit {
		t.Fatal("first call cannot be a cache hit")
	}

	// Provider changes, but we are still inside the ttl window.
	f.prov.setTemp("A", 30)
	f.now = f.now.Add(9 * time.Minute)

	second, hit := f.svc.Current(ctx)
	if !hit {
		t.Fatal("second call within ttl should be served from cache")
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached snapshot differs (-first +second):\n%s", diff)
	}
	if n := f.prov.callCount("A"); n != 1 {
		t.Errorf("expected 1 provider call for A, got %d", n)
	}
}

func TestServiceCurrentRefetchesWhenStale(t *testing.T) {
	f := newServiceFixture(t, 10*time.Minute)
	ctx := context.Background()

	f.svc.Current(ctx)
	f.prov.setTemp("A", 30)
	f.now = f.now.Add(10 * time.Minute)

	snap, hit := f.svc.Current(ctx)
	if hit {
		t.Fatal("snapshot at exactly ttl age must be treated as stale")
	}
	if snap.Records[0].TemperatureC != 30 {
		t.Errorf("expected fresh reading 30, got %v", snap.Records[0].TemperatureC)
	}
	if n := f.prov.callCount("A"); n != 2 {
		t.Errorf("expected 2 provider calls for A, got %d", n)
	}
}

func TestServiceRefreshBypassesCache(t *testing.T) {
	f := newServiceFixture(t, time.Hour)
	ctx := context.Background()

	f.svc.Current(ctx)
	f.prov.setTemp("B", 12)

	snap := f.svc.Refresh(ctx)
	if f.cache.invalid != 1 {
		t.Errorf("expected one invalidation, got %d", f.cache.invalid)
	}
	if f.prov.resets != 1 {
		t.Errorf("expected refresh to reset the provider once, got %d", f.prov.resets)
	}
	for _, id := range []string{"A", "B"} {
		if n := f.prov.callCount(id); n != 2 {
			t.Errorf("expected a live fetch for %s after refresh, got %d calls", id, n)
		}
	}
	if snap.Records[1].TemperatureC != 12 || snap.Records[1].Bucket != BucketMild {
		t.Errorf("refresh returned stale record: %+v", snap.Records[1])
	}

	// The refreshed snapshot is what later pulls see.
	again, hit := f.svc.Current(ctx)
	if !hit || again.RunID != snap.RunID {
		t.Errorf("expected cached refreshed snapshot %s, got %s (hit=%v)", snap.RunID, again.RunID, hit)
	}
}

func TestServiceCurrentSurvivesCacheErrors(t *testing.T) {
	f := newServiceFixture(t, time.Hour)
	f.cache.getErr = errors.New("cache down")

	snap, hit := f.svc.Current(context.Background())
	if hit {
		t.Error("a failing cache cannot produce a hit")
	}
	if len(snap.Records) != 2 {
		t.Errorf("expected a live result with 2 records, got %d", len(snap.Records))
	}
}

func TestSnapshotIsStale(t *testing.T) {
	created := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{CreatedAt: created, TTL: 600 * time.Second}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"at creation", created, false},
		{"inside ttl", created.Add(599 * time.Second), false},
		{"at ttl", created.Add(600 * time.Second), true},
		{"past ttl", created.Add(time.Hour), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := snap.IsStale(tt.now); got != tt.want {
				t.Errorf("IsStale(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}

	if !(Snapshot{}).IsStale(created) {
		t.Error("zero snapshot must be stale")
	}
	if !snap.ExpiresAt().Equal(created.Add(10 * time.Minute)) {
		t.Errorf("ExpiresAt = %v", snap.ExpiresAt())
	}
}
