package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"go.opentelemetry.io/otel/baggage"

	"github.com/calebhay/gamedex/config"
	"github.com/calebhay/gamedex/library"
	"github.com/calebhay/gamedex/logging"
	"github.com/calebhay/gamedex/metadata"
	"github.com/calebhay/gamedex/scan"
	"github.com/calebhay/gamedex/tracing"
)

var cfg *config.Config

func main() {
	ctx := context.Background()

	m, _ := baggage.NewMember("app.version", "1.0.0")
	b, _ := baggage.New(m)
	ctx = baggage.ContextWithBaggage(ctx, b)

	var err error
	cfg, err = config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	logging.Setup(logging.Config{
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
	})

	shutdown, err := tracing.Setup(ctx, tracing.DefaultConfig())
	if err != nil {
		logging.Error("failed to setup tracing", "error", err)
	}
	defer func() {
		if shutdown != nil {
			if err := shutdown(ctx); err != nil {
				logging.Error("failed to shutdown tracing", "error", err)
			}
		}
	}()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "scan":
		if len(os.Args) < 3 {
			fmt.Println("Usage: gamedex scan <dir> [output.json]")
			os.Exit(1)
		}
		handleScan(ctx, os.Args[2:])
	case "search":
		if len(os.Args) < 3 {
			fmt.Println("Usage: gamedex search <query> [output.json]")
			os.Exit(1)
		}
		handleSearch(ctx, os.Args[2:])
	case "launch":
		if len(os.Args) < 3 {
			fmt.Println("Usage: gamedex launch <dir> [candidate-index]")
			os.Exit(1)
		}
		handleLaunch(ctx, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("gamedex - local game collection curator")
	fmt.Println()
	fmt.Println("Usage: gamedex <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  scan <dir> [out.json]        Scan a directory and resolve metadata")
	fmt.Println("  search <query> [out.json]    Query metadata sources directly")
	fmt.Println("  launch <dir> [index]         Start a game from its directory")
	fmt.Println("  help                         Show this help")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  GAMEDEX_CONFIG               Config file path")
	fmt.Println("  GAMEDEX_IGDB_CLIENT_ID       IGDB/Twitch client ID")
	fmt.Println("  GAMEDEX_IGDB_CLIENT_SECRET   IGDB/Twitch client secret")
	fmt.Println("  GAMEDEX_THEGAMESDB_API_KEY   TheGamesDB API key")
}

// newLibrary assembles the Library from the loaded configuration. Sources
// missing credentials are skipped with a warning instead of aborting.
func newLibrary() *library.Library {
	var sources []library.SourceEntry

	if cfg.DLsite.Enabled {
		sources = append(sources, library.SourceEntry{
			Source: metadata.NewDLsiteSource(), Priority: cfg.DLsite.Priority,
		})
	}
	if cfg.IGDB.Enabled {
		src, err := metadata.NewIGDBSource(cfg.IGDB.ClientID, cfg.IGDB.Secret)
		if err != nil {
			logging.Warn("skipping IGDB source", "error", err)
		} else {
			sources = append(sources, library.SourceEntry{Source: src, Priority: cfg.IGDB.Priority})
		}
	}
	if cfg.GamesDB.Enabled {
		src, err := metadata.NewGamesDBSource(cfg.GamesDB.APIKey)
		if err != nil {
			logging.Warn("skipping TheGamesDB source", "error", err)
		} else {
			sources = append(sources, library.SourceEntry{Source: src, Priority: cfg.GamesDB.Priority})
		}
	}

	return library.New(library.Options{
		Scan: scan.Options{
			Workers:    cfg.Scan.Workers,
			Extensions: cfg.Scan.Extensions,
			GroupDepth: cfg.Scan.GroupDepth,
		},
		Resolve: metadata.Config{
			Concurrency: cfg.GetConcurrency(),
			CacheTTL:    cfg.GetCacheTTL(),
			GameType:    cfg.Resolve.GameType,
		},
		Sources: sources,
	})
}

func handleScan(ctx context.Context, args []string) {
	lib := newLibrary()

	infos, err := lib.Scan(ctx, args[0])
	if err != nil {
		logging.Error("scan failed", "root", args[0], "error", err)
		os.Exit(1)
	}

	out := ""
	if len(args) > 1 {
		out = args[1]
	}
	path, err := library.ExportJSON(infos, out)
	if err != nil {
		logging.Error("export failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Scanned %d games, results written to %s\n", len(infos), path)
}

func handleSearch(ctx context.Context, args []string) {
	lib := newLibrary()

	matches, err := lib.Search(ctx, args[0])
	if err != nil {
		logging.Error("search failed", "query", args[0], "error", err)
		os.Exit(1)
	}

	for i, m := range matches {
		fmt.Printf("[%d] %.2f  %-12s %s\n", i, m.Confidence, m.Source, m.Metadata.Title)
	}

	if len(args) > 1 {
		path, err := library.ExportJSON(matches, args[1])
		if err != nil {
			logging.Error("export failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Results written to %s\n", path)
	}
}

func handleLaunch(ctx context.Context, args []string) {
	units, err := scan.Group(ctx, args[0], scan.Options{
		Workers:    cfg.Scan.Workers,
		Extensions: cfg.Scan.Extensions,
		GroupDepth: cfg.Scan.GroupDepth,
	})
	if err != nil {
		logging.Error("scan failed", "dir", args[0], "error", err)
		os.Exit(1)
	}
	if len(units) == 0 {
		fmt.Println("No launchable executables found")
		os.Exit(1)
	}

	index := library.DefaultCandidate
	if len(args) > 1 {
		index, err = strconv.Atoi(args[1])
		if err != nil {
			fmt.Printf("Invalid candidate index: %s\n", args[1])
			os.Exit(1)
		}
	}

	path, err := library.Launch(units[0], index)
	if err != nil {
		logging.Error("launch failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Started %s\n", path)
}
