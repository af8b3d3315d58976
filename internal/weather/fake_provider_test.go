package weather

import (
	"context"
	"sync"
	"time"
)

var fixedFetchTime = time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

// fakeProvider serves canned readings and errors, counting calls per point.
type fakeProvider struct {
	mu     sync.Mutex
	temps  map[string]float64
	errs   map[string]error
	hang   map[string]bool
	calls  map[string]int
	resets int
}

func newFakeProvider(temps map[string]float64) *fakeProvider {
	return &fakeProvider{
		temps: temps,
		errs:  map[string]error{},
		hang:  map[string]bool{},
		calls: map[string]int{},
	}
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Fetch(ctx context.Context, p GeoPoint) (RawReading, error) {
	f.mu.Lock()
	f.calls[p.ID]++
	temp := f.temps[p.ID]
	err := f.errs[p.ID]
	hang := f.hang[p.ID]
	f.mu.Unlock()

	if hang {
		<-ctx.Done()
		return RawReading{}, ctx.Err()
	}
	if err != nil {
		return RawReading{}, err
	}
	return RawReading{TemperatureC: temp, FetchedAt: fixedFetchTime}, nil
}

func (f *fakeProvider) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
}

func (f *fakeProvider) setTemp(id string, temp float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.temps[id] = temp
}

func (f *fakeProvider) callCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}
