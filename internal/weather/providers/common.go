package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/i474232898/temperature-column-map/internal/weather"
)

// BackoffConfig controls exponential backoff behaviour. MaxRetries of 0
// means a failed call is reported straight away.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *resty.Client
	Backoff BackoffConfig
}

const maxErrorBody = 256

var (
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

// transportTripThreshold is how many consecutive transport failures of one
// point open that point's breaker.
const transportTripThreshold = 5

// breakerSet holds one circuit breaker per point, so a failing point never
// short-circuits another one.
type breakerSet struct {
	name     string
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

func newBreakerSet(name string) *breakerSet {
	return &breakerSet{name: name, breakers: make(map[string]*gobreaker.CircuitBreaker)}
}

// get returns the breaker for key, creating it on first use.
func (b *breakerSet) get(key string) *gobreaker.CircuitBreaker {
	b.mu.Lock()
	defer b.mu.Unlock()

	cb, ok := b.breakers[key]
	if !ok {
		cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        b.name + ":" + key,
			MaxRequests: 1,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= transportTripThreshold
			},
			// Only transport failures count; a provider or contract error
			// means the upstream answered.
			IsSuccessful: func(err error) bool {
				return err == nil || !errors.Is(err, weather.ErrTransport)
			},
		})
		b.breakers[key] = cb
	}
	return cb
}

// reset drops every breaker; gobreaker has no public reset.
func (b *breakerSet) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.breakers = make(map[string]*gobreaker.CircuitBreaker)
}

// doRequestWithResilience executes the request through the circuit breaker,
// retrying with exponential backoff when configured. Returned errors wrap
// weather.ErrTransport or weather.ErrProvider.
func doRequestWithResilience(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	do func(req *resty.Request) (*resty.Response, error),
) (*resty.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Backoff.MaxRetries < 0 || (cfg.Backoff.MaxRetries > 0 && cfg.Backoff.InitialInterval <= 0) {
		return nil, errInvalidConfig
	}

	var attempt int

	for {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", weather.ErrTransport, ctx.Err())
		}

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := do(cfg.Client.R().SetContext(ctx))
			if execErr != nil {
				return nil, fmt.Errorf("%w: %v", weather.ErrTransport, execErr)
			}
			if !resp.IsSuccess() {
				return nil, fmt.Errorf("%w: status %d: %s",
					weather.ErrProvider, resp.StatusCode(), truncate(resp.String(), maxErrorBody))
			}
			return resp, nil
		})

		if err == nil {
			resp, ok := result.(*resty.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		// If circuit is open, propagate immediately.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w: %v", weather.ErrTransport, errCircuitOpen, err)
		}

		if attempt >= cfg.Backoff.MaxRetries {
			return nil, err
		}

		delay := cfg.Backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if delay > cfg.Backoff.MaxInterval && cfg.Backoff.MaxInterval > 0 {
			delay = cfg.Backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %v", weather.ErrTransport, ctx.Err())
		case <-timer.C:
		}

		attempt++
	}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
