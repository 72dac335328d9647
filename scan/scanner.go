// Package scan discovers launchable executables on disk and groups them
// into logical game units by directory locality.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/calebhay/gamedex/logging"
)

// Options configures parallel scanning behavior.
type Options struct {
	Workers    int      // Number of parallel walk workers (default: NumCPU)
	Extensions []string // Launchable file extensions (default: .exe)
	GroupDepth int      // Directory depth under the root that anchors a group (default: 1)
}

// DefaultOptions returns sensible defaults for scanning.
func DefaultOptions() Options {
	return Options{
		Workers:    runtime.NumCPU(),
		Extensions: []string{".exe"},
		GroupDepth: 1,
	}
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if len(o.Extensions) == 0 {
		o.Extensions = []string{".exe"}
	}
	if o.GroupDepth <= 0 {
		o.GroupDepth = 1
	}
	return o
}

// skippedDirs contains directory names that never hold game executables.
var skippedDirs = map[string]bool{
	"System Volume Information": true,
	"$RECYCLE.BIN":              true,
	"$Recycle.Bin":              true,
	"node_modules":              true,
}

// skipDir reports whether a directory should be excluded from the walk.
func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "$") {
		return true
	}
	return skippedDirs[name]
}

// Group walks the tree under root, collects launchable executables and
// groups them into game units. The walk completes fully before grouping
// begins. A root with no executables yields an empty slice, not an error.
func Group(ctx context.Context, root string, opts Options) ([]GameUnit, error) {
	opts = opts.withDefaults()

	info, err := os.Stat(root)
	if err != nil {
		return nil, &ScanError{Op: "group", Path: root, Err: ErrInvalidRoot}
	}
	if !info.IsDir() {
		return nil, &ScanError{Op: "group", Path: root, Err: ErrInvalidRoot}
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &ScanError{Op: "group", Path: root, Err: err}
	}

	paths, err := collectExecutables(ctx, abs, opts)
	if err != nil {
		return nil, err
	}

	logging.Debug("scan walk finished", "root", abs, "executables", len(paths))

	return groupUnits(abs, paths, opts), nil
}

// collectExecutables walks the tree breadth-first, one level at a time.
// Directories within a level are read concurrently by a bounded worker
// group; discoveries land in a single mutex-guarded collector. Unreadable
// subtrees and symlinked directories are skipped, never fatal.
func collectExecutables(ctx context.Context, root string, opts Options) ([]string, error) {
	exts := make(map[string]bool, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts[strings.ToLower(e)] = true
	}

	var mu sync.Mutex
	var found []string

	level := []string{root}
	for len(level) > 0 {
		var nextMu sync.Mutex
		var next []string

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)

		for _, dir := range level {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				entries, err := os.ReadDir(dir)
				if err != nil {
					// Permission denied or vanished directory: drop the subtree.
					logging.Debug("skipping unreadable directory", "dir", dir, "error", err)
					return nil
				}

				for _, entry := range entries {
					name := entry.Name()
					if entry.Type()&fs.ModeSymlink != 0 {
						// Symlinks are not followed; this also breaks cycles.
						continue
					}
					if entry.IsDir() {
						if skipDir(name) {
							continue
						}
						nextMu.Lock()
						next = append(next, filepath.Join(dir, name))
						nextMu.Unlock()
						continue
					}
					if exts[strings.ToLower(filepath.Ext(name))] {
						mu.Lock()
						found = append(found, filepath.Join(dir, name))
						mu.Unlock()
					}
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, &ScanError{Op: "walk", Path: root, Err: err}
		}
		level = next
	}

	sort.Strings(found)
	return found, nil
}
