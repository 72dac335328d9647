package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordScanDuration(t *testing.T) {
	start := time.Now().Add(-100 * time.Millisecond)

	// The histogram is recorded successfully if this does not panic.
	RecordScanDuration(start)
}

func TestSourceQueries_Counter(t *testing.T) {
	SourceQueries.WithLabelValues("test-source", "ok").Inc()
	SourceQueries.WithLabelValues("test-source", "error").Inc()

	ok := testutil.ToFloat64(SourceQueries.WithLabelValues("test-source", "ok"))
	assert.GreaterOrEqual(t, ok, float64(1))

	errored := testutil.ToFloat64(SourceQueries.WithLabelValues("test-source", "error"))
	assert.GreaterOrEqual(t, errored, float64(1))
}

func TestCacheCounters_Exist(t *testing.T) {
	CacheHits.Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(CacheHits), float64(1))

	CacheMisses.Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(CacheMisses), float64(1))
}

func TestGamesDiscovered_Counter(t *testing.T) {
	GamesDiscovered.Add(3)
	assert.GreaterOrEqual(t, testutil.ToFloat64(GamesDiscovered), float64(3))
}
