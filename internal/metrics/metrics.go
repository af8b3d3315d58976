// Package metrics exposes prometheus collectors for the fetch pipeline and
// the snapshot cache.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tcm_point_fetch_total",
		Help: "Per-point fetches by outcome (ok, TransportError, ProviderError, ContractError)",
	}, []string{"outcome"})
	FetchDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tcm_point_fetch_duration_ms",
		Help:    "Per-point provider call duration in milliseconds",
		Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})
	RunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tcm_pipeline_runs_total",
		Help: "Total pipeline runs",
	})
	RunRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tcm_pipeline_last_run_records",
		Help: "Records produced by the most recent run",
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tcm_cache_hits_total",
		Help: "Snapshots served from cache",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tcm_cache_misses_total",
		Help: "Snapshot requests that needed a live run (missing or stale)",
	})
	RefreshTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tcm_manual_refresh_total",
		Help: "Manual refresh requests",
	})
)

func init() {
	prometheus.MustRegister(FetchTotal)
	prometheus.MustRegister(FetchDurationMs)
	prometheus.MustRegister(RunsTotal)
	prometheus.MustRegister(RunRecords)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(RefreshTotal)
}

// Handler serves the registered collectors on /metrics.
func Handler() http.Handler { return promhttp.Handler() }
