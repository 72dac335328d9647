package metadata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/calebhay/gamedex/logging"
	"github.com/calebhay/gamedex/metrics"
	"github.com/calebhay/gamedex/tracing"
)

// DefaultConcurrency bounds in-flight source queries across the whole
// middleware, regardless of how many sources are registered.
const DefaultConcurrency = 5

// DefaultCacheTTL is how long a ranked resolution stays valid.
const DefaultCacheTTL = time.Hour

// Config is the plain configuration value the middleware is built from.
// It is assembled before first use; the middleware does not expect the
// registry to change while queries are in flight.
type Config struct {
	Concurrency int           // Max concurrent source queries (default 5)
	CacheTTL    time.Duration // Cache entry validity (default 1h)
	GameType    string        // Game type used to pre-filter sources (default "all")
}

// registration pairs a source with its registration-time priority and
// enabled flag.
type registration struct {
	source   Source
	priority int
	enabled  bool
}

// Middleware owns the source registry, the concurrency limiter and the
// result cache, and drives fan-out resolution.
//
// Concurrent Resolve calls for the same key coalesce into a single remote
// flight; late arrivals share the first caller's result instead of racing
// duplicated network fetches.
type Middleware struct {
	mu      sync.RWMutex
	sources []registration // kept sorted by priority desc, name asc

	sem      *semaphore.Weighted
	flight   singleflight.Group
	cache    *resultCache
	gameType string
}

// NewMiddleware creates a middleware from cfg, applying defaults for
// unset fields.
func NewMiddleware(cfg Config) *Middleware {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.GameType == "" {
		cfg.GameType = GameTypeAll
	}
	return &Middleware{
		sem:      semaphore.NewWeighted(int64(cfg.Concurrency)),
		cache:    newResultCache(cfg.CacheTTL),
		gameType: cfg.GameType,
	}
}

// Register adds a source under the given priority. Registration is
// idempotent by source name: re-registering replaces the prior entry.
func (m *Middleware) Register(src Source, priority int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := src.Name()
	for i := range m.sources {
		if m.sources[i].source.Name() == name {
			m.sources[i] = registration{source: src, priority: priority, enabled: true}
			m.sortLocked()
			return
		}
	}
	m.sources = append(m.sources, registration{source: src, priority: priority, enabled: true})
	m.sortLocked()
}

// Unregister removes a source by name.
func (m *Middleware) Unregister(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.sources[:0]
	for _, reg := range m.sources {
		if reg.source.Name() != name {
			kept = append(kept, reg)
		}
	}
	m.sources = kept
}

// SetEnabled toggles a registered source without dropping its registration.
func (m *Middleware) SetEnabled(name string, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.sources {
		if m.sources[i].source.Name() == name {
			m.sources[i].enabled = enabled
			return
		}
	}
}

// SourceNames lists registered sources in priority order.
func (m *Middleware) SourceNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, len(m.sources))
	for i, reg := range m.sources {
		names[i] = reg.source.Name()
	}
	return names
}

// CacheSize reports the number of live-or-expired cached queries.
func (m *Middleware) CacheSize() int { return m.cache.len() }

// ClearCache drops all cached resolutions.
func (m *Middleware) ClearCache() { m.cache.clear() }

// sortLocked keeps the registry in priority order so tie-breaks and
// flattening stay deterministic. Callers must hold m.mu.
func (m *Middleware) sortLocked() {
	sort.SliceStable(m.sources, func(i, j int) bool {
		if m.sources[i].priority != m.sources[j].priority {
			return m.sources[i].priority > m.sources[j].priority
		}
		return m.sources[i].source.Name() < m.sources[j].source.Name()
	})
}

// cacheKey folds a query into its cache identity.
func cacheKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Resolve queries every eligible source for the title, scores the
// candidates and returns them sorted by descending confidence. A live
// cache entry is returned verbatim with no network activity. Individual
// source failures are recorded and excluded; Resolve fails with
// ErrSourceUnavailable only when every eligible source errors.
func (m *Middleware) Resolve(ctx context.Context, query string) ([]ScoredMatch, error) {
	key := cacheKey(query)

	if matches, ok := m.cache.get(key); ok {
		metrics.CacheHits.Inc()
		logging.Debug("resolve served from cache", "query", query, "results", len(matches))
		return matches, nil
	}
	metrics.CacheMisses.Inc()

	v, err, shared := m.flight.Do(key, func() (any, error) {
		// A flight that finished between our cache miss and this closure
		// has already written the cache; don't refetch.
		if matches, ok := m.cache.get(key); ok {
			return matches, nil
		}
		return m.resolveRemote(ctx, key, query)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logging.Debug("resolve coalesced with in-flight query", "query", query)
	}
	return v.([]ScoredMatch), nil
}

// resolveRemote is the cache-miss path: full fan-out to all eligible
// sources, fan-in of every outcome, scoring, ranking, caching.
func (m *Middleware) resolveRemote(ctx context.Context, key, query string) ([]ScoredMatch, error) {
	ctx, span := tracing.StartSpan(ctx, "metadata.resolve",
		trace.WithAttributes(attribute.String("query", query)))
	defer span.End()

	start := time.Now()

	m.mu.RLock()
	eligible := make([]registration, 0, len(m.sources))
	for _, reg := range m.sources {
		if reg.enabled && reg.source.SupportsGameType(m.gameType) {
			eligible = append(eligible, reg)
		}
	}
	m.mu.RUnlock()

	if len(eligible) == 0 {
		return nil, fmt.Errorf("resolve %q: no eligible sources: %w", query, ErrSourceUnavailable)
	}

	// One slot per source keeps priority order intact across out-of-order
	// completions; workers never touch shared state.
	perSource := make([][]ScoredMatch, len(eligible))
	failures := make([]error, len(eligible))

	var wg sync.WaitGroup
	for i, reg := range eligible {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := m.sem.Acquire(ctx, 1); err != nil {
				failures[i] = &ProviderError{Source: reg.source.Name(), Err: err}
				return
			}
			defer m.sem.Release(1)

			sctx, sspan := tracing.StartSpan(ctx, "metadata.source.search",
				trace.WithAttributes(attribute.String("source", reg.source.Name())))
			defer sspan.End()

			candidates, err := reg.source.Search(sctx, query)
			if err != nil {
				metrics.SourceQueries.WithLabelValues(reg.source.Name(), "error").Inc()
				failures[i] = &ProviderError{Source: reg.source.Name(), Err: err}
				return
			}
			metrics.SourceQueries.WithLabelValues(reg.source.Name(), "ok").Inc()

			scored := make([]ScoredMatch, 0, len(candidates))
			for _, c := range candidates {
				scored = append(scored, ScoredMatch{
					Metadata:   c,
					Source:     reg.source.Name(),
					Confidence: confidence(query, c, reg.priority),
				})
			}
			perSource[i] = scored
		}()
	}
	wg.Wait()

	var results []ScoredMatch
	var excluded []error
	for i, reg := range eligible {
		if failures[i] != nil {
			logging.Warn("source excluded from results",
				"source", reg.source.Name(), "error", failures[i])
			excluded = append(excluded, failures[i])
			continue
		}
		results = append(results, perSource[i]...)
	}

	if len(excluded) == len(eligible) {
		return nil, fmt.Errorf("resolve %q: %w: %v", query, ErrSourceUnavailable, errors.Join(excluded...))
	}

	// Candidates were flattened in source-priority order, so a stable sort
	// leaves confidence ties ranked by priority.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	if results == nil {
		results = []ScoredMatch{}
	}

	m.cache.set(key, results)
	metrics.ResolveDuration.Observe(time.Since(start).Seconds())
	logging.Debug("resolve finished", "query", query,
		"results", len(results), "excluded", len(excluded))

	return results, nil
}

// GetByID asks sources in priority order for a provider-specific ID until
// one answers. It fails with ErrNotFound when no source has the record.
func (m *Middleware) GetByID(ctx context.Context, id string) (ScoredMatch, error) {
	m.mu.RLock()
	eligible := make([]registration, 0, len(m.sources))
	for _, reg := range m.sources {
		if reg.enabled {
			eligible = append(eligible, reg)
		}
	}
	m.mu.RUnlock()

	for _, reg := range eligible {
		md, err := reg.source.GetByID(ctx, id)
		if err != nil {
			logging.Debug("id lookup miss", "source", reg.source.Name(), "id", id, "error", err)
			continue
		}
		return ScoredMatch{Metadata: md, Source: reg.source.Name(), Confidence: 0.95}, nil
	}

	return ScoredMatch{}, fmt.Errorf("get by id %q: %w", id, ErrNotFound)
}
