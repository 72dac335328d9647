package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebhay/gamedex/metadata"
	"github.com/calebhay/gamedex/scan"
)

// stubSource is a canned metadata.Source for library-level tests.
type stubSource struct {
	name    string
	results []metadata.Metadata
	err     error
}

func (s *stubSource) Name() string                 { return s.name }
func (s *stubSource) Priority() int                { return 50 }
func (s *stubSource) SupportsGameType(string) bool { return true }

func (s *stubSource) Search(ctx context.Context, title string) ([]metadata.Metadata, error) {
	return s.results, s.err
}

func (s *stubSource) GetByID(ctx context.Context, id string) (metadata.Metadata, error) {
	if len(s.results) == 0 {
		return metadata.Metadata{}, metadata.ErrNotFound
	}
	return s.results[0], s.err
}

func writeExe(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("MZ"), 0755))
}

func TestInventoryInvalidRoot(t *testing.T) {
	lib := New(Options{})
	_, err := lib.Inventory(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, scan.ErrInvalidRoot)
}

func TestScanMergesMetadata(t *testing.T) {
	root := t.TempDir()
	writeExe(t, filepath.Join(root, "ExampleGame"), "game.exe")

	lib := New(Options{
		Sources: []SourceEntry{{Source: &stubSource{
			name: "stub",
			results: []metadata.Metadata{{
				Title:       "Example Game",
				CoverURL:    "https://img.example/cover.jpg",
				Description: "a fine game",
				Developer:   "Example Studio",
				Genres:      []string{"Adventure"},
			}},
		}}},
	})

	infos, err := lib.Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, infos, 1)

	info := infos[0]
	assert.Equal(t, "Example Game", info.Title)
	assert.Equal(t, "ExampleGame", info.SubTitle)
	assert.Equal(t, "a fine game", info.Description)
	assert.Equal(t, "Example Studio", info.Developer)
	assert.Equal(t, []string{"https://img.example/cover.jpg"}, info.CoverURLs)
	assert.Equal(t, []string{"Adventure"}, info.Genres)
	assert.Equal(t, "game.exe", info.DefaultLaunch)
	assert.Greater(t, info.ByteSize, uint64(0))
	assert.False(t, info.ScanTime.IsZero())
}

func TestScanDegradesWhenResolutionFails(t *testing.T) {
	root := t.TempDir()
	writeExe(t, filepath.Join(root, "LocalOnly"), "start.exe")

	lib := New(Options{
		Sources: []SourceEntry{{Source: &stubSource{name: "stub", err: errors.New("offline")}}},
	})

	infos, err := lib.Scan(context.Background(), root)
	require.NoError(t, err, "a resolution failure must not fail the scan")
	require.Len(t, infos, 1)
	assert.Equal(t, "LocalOnly", infos[0].Title)
	assert.Empty(t, infos[0].Description)
}

func TestSearchSurfacesMiddlewareErrors(t *testing.T) {
	lib := New(Options{})
	_, err := lib.Search(context.Background(), "anything")
	assert.ErrorIs(t, err, metadata.ErrSourceUnavailable)
}

func TestBuildGameInfoFirstNonEmptyWins(t *testing.T) {
	unit := scan.GameUnit{
		RootDir:          t.TempDir(),
		Name:             "GameDir",
		Title:            "Game",
		LaunchCandidates: []string{"game.exe", "setup.exe"},
	}
	matches := []metadata.ScoredMatch{
		{Metadata: metadata.Metadata{
			Title:    "Game Deluxe",
			CoverURL: "https://a.example/1.jpg",
			Genres:   []string{"RPG"},
		}, Confidence: 0.9},
		{Metadata: metadata.Metadata{
			Title:       "Game",
			CoverURL:    "https://a.example/1.jpg", // duplicate, must not repeat
			Description: "second source fills the gap",
			Genres:      []string{"RPG", "Indie"},
		}, Confidence: 0.8},
	}

	info := buildGameInfo(unit, matches)
	assert.Equal(t, "Game Deluxe", info.Title, "most confident title wins")
	assert.Equal(t, "second source fills the gap", info.Description)
	assert.Equal(t, []string{"https://a.example/1.jpg"}, info.CoverURLs)
	assert.Equal(t, []string{"RPG", "Indie"}, info.Genres)
	assert.Equal(t, "game.exe", info.DefaultLaunch)
}

func TestBuildGameInfoNoMatches(t *testing.T) {
	unit := scan.GameUnit{
		RootDir:          t.TempDir(),
		Name:             "Game_v1.2",
		Title:            "Game",
		Version:          "1.2",
		LaunchCandidates: []string{"game.exe"},
	}

	info := buildGameInfo(unit, nil)
	assert.Equal(t, "Game", info.Title)
	assert.Equal(t, "Game_v1.2", info.SubTitle)
	assert.Equal(t, "1.2", info.Version)
	assert.Empty(t, info.CoverURLs)
}
