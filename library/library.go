// Package library composes filesystem scanning and metadata resolution
// into the gamedex collection curator.
package library

import (
	"context"
	"time"

	"github.com/calebhay/gamedex/logging"
	"github.com/calebhay/gamedex/metadata"
	"github.com/calebhay/gamedex/metrics"
	"github.com/calebhay/gamedex/scan"
	"github.com/calebhay/gamedex/tracing"
)

// SourceEntry registers one metadata source, optionally overriding the
// priority it reports for itself.
type SourceEntry struct {
	Source   metadata.Source
	Priority int // 0 keeps Source.Priority()
}

// Options is the explicit configuration value a Library is built from.
// Assemble it fully before calling New; the source registry is not meant
// to change while queries are in flight.
type Options struct {
	Scan    scan.Options
	Resolve metadata.Config
	Sources []SourceEntry
}

// Library exposes the two top-level operations: Inventory (pure
// filesystem) and Search (metadata resolution), plus a combined Scan.
type Library struct {
	scanOpts   scan.Options
	middleware *metadata.Middleware
}

// New builds a Library from opts and registers its sources.
func New(opts Options) *Library {
	mw := metadata.NewMiddleware(opts.Resolve)
	for _, entry := range opts.Sources {
		priority := entry.Priority
		if priority == 0 {
			priority = entry.Source.Priority()
		}
		mw.Register(entry.Source, priority)
	}
	return &Library{
		scanOpts:   opts.Scan,
		middleware: mw,
	}
}

// Middleware exposes the resolution middleware for cache maintenance and
// source toggling.
func (l *Library) Middleware() *metadata.Middleware { return l.middleware }

// Inventory walks root and returns the discovered game units. It performs
// no network activity and fails only when root does not exist or is not a
// directory.
func (l *Library) Inventory(ctx context.Context, root string) ([]scan.GameUnit, error) {
	ctx, span := tracing.StartSpan(ctx, "library.inventory")
	defer span.End()

	start := time.Now()
	units, err := scan.Group(ctx, root, l.scanOpts)
	if err != nil {
		return nil, err
	}

	metrics.RecordScanDuration(start)
	metrics.GamesDiscovered.Add(float64(len(units)))
	logging.Info("inventory finished", "root", root, "games", len(units))
	return units, nil
}

// Search resolves query against all registered sources, surfacing the
// middleware's errors unchanged.
func (l *Library) Search(ctx context.Context, query string) ([]metadata.ScoredMatch, error) {
	return l.middleware.Resolve(ctx, query)
}

// Scan combines Inventory and Search: every discovered unit is resolved
// and merged into a GameInfo. A unit whose resolution fails degrades to a
// name-only entry; it never fails the scan.
func (l *Library) Scan(ctx context.Context, root string) ([]GameInfo, error) {
	ctx, span := tracing.StartSpan(ctx, "library.scan")
	defer span.End()

	units, err := l.Inventory(ctx, root)
	if err != nil {
		return nil, err
	}

	infos := make([]GameInfo, 0, len(units))
	for _, unit := range units {
		matches, err := l.Search(ctx, unit.Title)
		if err != nil {
			logging.Warn("resolution failed, keeping local info only",
				"title", unit.Title, "error", err)
			matches = nil
		}
		infos = append(infos, buildGameInfo(unit, matches))
	}

	return infos, nil
}
