package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/i474232898/temperature-column-map/internal/weather"
)

// API Docs: https://open-meteo.com/en/docs
// Sample request: https://api.open-meteo.com/v1/forecast?latitude=33.5904&longitude=130.4017&current=temperature_2m
const (
	DefaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

	// openMeteoTimeLayout is the iso8601 layout of "current.time" (GMT, no zone).
	openMeteoTimeLayout = "2006-01-02T15:04"
)

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *breakerSet
}

// NewOpenMeteoProvider builds a provider on top of client. An empty baseURL
// selects the public endpoint.
func NewOpenMeteoProvider(client *http.Client, baseURL string, maxRetries int) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}

	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client: resty.NewWithClient(client),
			Backoff: BackoffConfig{
				MaxRetries:      maxRetries,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: newBreakerSet("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// Reset closes every per-point circuit breaker.
func (p *OpenMeteoProvider) Reset() {
	p.circuit.reset()
}

type openMeteoCurrent struct {
	Current *struct {
		Time          string   `json:"time"`
		Temperature2m *float64 `json:"temperature_2m"`
	} `json:"current"`
}

// Fetch requests the current 2m temperature for pt.
func (p *OpenMeteoProvider) Fetch(ctx context.Context, pt weather.GeoPoint) (weather.RawReading, error) {
	params := map[string]string{
		"latitude":  strconv.FormatFloat(pt.Lat, 'f', -1, 64),
		"longitude": strconv.FormatFloat(pt.Lon, 'f', -1, 64),
		"current":   "temperature_2m",
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit.get(pt.ID), func(req *resty.Request) (*resty.Response, error) {
		return req.SetQueryParams(params).Get(p.baseURL)
	})
	if err != nil {
		return weather.RawReading{}, err
	}

	return parseOpenMeteoCurrent(resp.Body())
}

func parseOpenMeteoCurrent(body []byte) (weather.RawReading, error) {
	var payload openMeteoCurrent
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.RawReading{}, fmt.Errorf("%w: decode response: %v", weather.ErrContract, err)
	}
	if payload.Current == nil {
		return weather.RawReading{}, fmt.Errorf("%w: missing field current", weather.ErrContract)
	}
	if payload.Current.Temperature2m == nil {
		return weather.RawReading{}, fmt.Errorf("%w: missing field current.temperature_2m", weather.ErrContract)
	}

	ts, err := time.ParseInLocation(openMeteoTimeLayout, payload.Current.Time, time.UTC)
	if err != nil {
		ts = time.Now().UTC()
	}

	return weather.RawReading{
		TemperatureC: *payload.Current.Temperature2m,
		FetchedAt:    ts,
	}, nil
}
