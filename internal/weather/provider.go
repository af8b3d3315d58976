package weather

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by a Cache that holds no entry for a key.
var ErrCacheMiss = errors.New("no cached snapshot")

// Provider abstracts the weather source queried once per point.
// Implementations wrap ErrTransport, ErrProvider or ErrContract so failures
// can be classified.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, p GeoPoint) (RawReading, error)
}

// Resetter is implemented by providers and runners that keep per-point
// failure state (circuit breakers) across runs. A manual refresh resets it
// so every point is requested live.
type Resetter interface {
	Reset()
}

// Cache is the contract the snapshot caches (memory, redis) satisfy.
// Staleness is decided by the caller through Snapshot.IsStale.
type Cache interface {
	Get(ctx context.Context, key string) (Snapshot, error)
	Put(ctx context.Context, key string, snap Snapshot) error
	Invalidate(ctx context.Context, key string) error
}
