// Package metrics exposes Prometheus collectors for gamedex operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Scan metrics
	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gamedex_scan_duration_seconds",
		Help:    "Duration of filesystem scans in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	GamesDiscovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamedex_games_discovered_total",
		Help: "Total number of game units discovered by scans.",
	})

	// Resolution metrics
	SourceQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamedex_source_queries_total",
		Help: "Total number of metadata source queries.",
	}, []string{"source", "status"}) // status: ok, error

	ResolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gamedex_resolve_duration_seconds",
		Help:    "Duration of cache-miss metadata resolutions in seconds.",
		Buckets: prometheus.DefBuckets,
	})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamedex_cache_hits_total",
		Help: "Total number of resolutions served from the cache.",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamedex_cache_misses_total",
		Help: "Total number of resolutions that required source queries.",
	})
)

// RecordScanDuration records the time taken for a filesystem scan.
func RecordScanDuration(start time.Time) {
	ScanDuration.Observe(time.Since(start).Seconds())
}
