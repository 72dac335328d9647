package library

import (
	"time"

	"github.com/calebhay/gamedex/metadata"
	"github.com/calebhay/gamedex/scan"
)

// GameInfo is the merged view of one game: what the filesystem scan found
// plus whatever the metadata sources agreed on.
type GameInfo struct {
	Title            string    `json:"title"`             // Best resolved title, or the local name
	SubTitle         string    `json:"sub_title"`         // Always the local directory name
	Version          string    `json:"version,omitempty"` // Extracted from the directory name
	CoverURLs        []string  `json:"cover_urls,omitempty"`
	DirPath          string    `json:"dir_path"`
	LaunchCandidates []string  `json:"launch_candidates"`
	DefaultLaunch    string    `json:"default_launch,omitempty"`
	Description      string    `json:"description,omitempty"`
	ReleaseDate      string    `json:"release_date,omitempty"`
	Developer        string    `json:"developer,omitempty"`
	Publisher        string    `json:"publisher,omitempty"`
	Genres           []string  `json:"genres,omitempty"`
	ByteSize         uint64    `json:"byte_size"`
	ScanTime         time.Time `json:"scan_time"`
}

// buildGameInfo merges ranked matches into the unit's local facts. Matches
// arrive sorted by confidence, so "first non-empty wins" prefers the most
// confident source per field; cover URLs and genres are collected from all.
func buildGameInfo(unit scan.GameUnit, matches []metadata.ScoredMatch) GameInfo {
	info := GameInfo{
		Title:            unit.Title,
		SubTitle:         unit.Name,
		Version:          unit.Version,
		DirPath:          unit.RootDir,
		LaunchCandidates: unit.LaunchCandidates,
		ByteSize:         scan.DirSize(unit.RootDir),
		ScanTime:         time.Now().UTC(),
	}
	if len(unit.LaunchCandidates) > 0 {
		info.DefaultLaunch = unit.LaunchCandidates[0]
	}

	titled := false
	seenCovers := map[string]bool{}
	seenGenres := map[string]bool{}

	for _, m := range matches {
		md := m.Metadata

		if !titled && md.Title != "" {
			info.Title = md.Title
			titled = true
		}
		if md.CoverURL != "" && !seenCovers[md.CoverURL] {
			seenCovers[md.CoverURL] = true
			info.CoverURLs = append(info.CoverURLs, md.CoverURL)
		}
		if info.Description == "" {
			info.Description = md.Description
		}
		if info.ReleaseDate == "" {
			info.ReleaseDate = md.ReleaseDate
		}
		if info.Developer == "" {
			info.Developer = md.Developer
		}
		if info.Publisher == "" {
			info.Publisher = md.Publisher
		}
		for _, g := range append(md.Genres, md.Tags...) {
			if g != "" && !seenGenres[g] {
				seenGenres[g] = true
				info.Genres = append(info.Genres, g)
			}
		}
	}

	return info
}
