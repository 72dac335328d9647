package scan

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/calebhay/gamedex/match"
)

// GameUnit is one logical game discovered on disk: a root directory plus
// the launchable executables found under it. Units are created once per
// scan and not mutated afterwards.
type GameUnit struct {
	RootDir          string   // Absolute path of the game's root directory
	Name             string   // Raw directory name as found on disk
	Title            string   // Normalized title derived from Name
	Version          string   // Version extracted from Name, "" if absent
	LaunchCandidates []string // Paths relative to RootDir, ordered; first is the default
}

// platformDirs are generic platform directory names that should never be
// treated as a game root on their own.
var platformDirs = map[string]bool{
	"Windows": true,
	"Linux":   true,
	"Mac":     true,
	"MacOS":   true,
	"Android": true,
	"iOS":     true,
}

// installerTokens mark executables that are almost certainly not the game
// itself. Candidates whose base name contains one of these sort after
// plain candidates.
var installerTokens = []string{
	"unins", "uninstall", "setup", "install", "updater", "update",
	"patch", "config", "settings", "crash", "dxsetup", "vcredist", "redist",
}

// groupUnits is the single-threaded post-pass over a finished walk. Paths
// are grouped by the directory GroupDepth levels below the scan root;
// executables sitting directly in the root each form their own unit.
func groupUnits(root string, paths []string, opts Options) []GameUnit {
	if len(paths) == 0 {
		return []GameUnit{}
	}

	groups := make(map[string][]string)
	var topLevel []string

	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			continue
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) <= opts.GroupDepth {
			topLevel = append(topLevel, p)
			continue
		}
		key := strings.Join(parts[:opts.GroupDepth], "/")
		groups[key] = append(groups[key], rel)
	}

	units := make([]GameUnit, 0, len(groups)+len(topLevel))

	for key, rels := range groups {
		units = append(units, buildUnit(root, key, rels))
	}

	// A lone executable at the top of the scan root is its own unit.
	for _, p := range topLevel {
		base := filepath.Base(p)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		units = append(units, GameUnit{
			RootDir:          root,
			Name:             stem,
			Title:            match.Normalize(stem),
			Version:          match.ExtractVersion(stem),
			LaunchCandidates: []string{base},
		})
	}

	sort.Slice(units, func(i, j int) bool {
		if units[i].RootDir != units[j].RootDir {
			return units[i].RootDir < units[j].RootDir
		}
		return units[i].Name < units[j].Name
	})

	return units
}

// buildUnit assembles one GameUnit from the relative executable paths that
// share a first-level directory.
func buildUnit(root, key string, rels []string) GameUnit {
	anchor := strings.Split(key, "/")
	commonLen := commonParentLen(rels)

	// The first-level directory is the game root by default. When it is a
	// bracketed release-tag folder and everything lives one level deeper in
	// a non-platform directory, that deeper directory is the real root.
	rootLen := len(anchor)
	if commonLen == rootLen+1 {
		parts := strings.Split(filepath.ToSlash(rels[0]), "/")
		second := parts[rootLen]
		first := anchor[len(anchor)-1]
		hasTag := strings.ContainsAny(first, "[【")
		if hasTag && !platformDirs[second] {
			rootLen++
		}
	}

	parts := strings.Split(filepath.ToSlash(rels[0]), "/")
	rootName := parts[rootLen-1]
	unitRoot := filepath.Join(root, filepath.Join(parts[:rootLen]...))

	candidates := make([]string, 0, len(rels))
	for _, rel := range rels {
		p := strings.Split(filepath.ToSlash(rel), "/")
		if len(p) > rootLen {
			candidates = append(candidates, filepath.Join(p[rootLen:]...))
		}
	}
	orderCandidates(candidates)

	return GameUnit{
		RootDir:          unitRoot,
		Name:             rootName,
		Title:            match.Normalize(rootName),
		Version:          match.ExtractVersion(rootName),
		LaunchCandidates: candidates,
	}
}

// commonParentLen returns the number of leading path components (below the
// scan root) shared by every relative path, excluding the file name itself.
func commonParentLen(rels []string) int {
	if len(rels) == 0 {
		return 0
	}

	split := make([][]string, len(rels))
	minLen := 0
	for i, rel := range rels {
		split[i] = strings.Split(filepath.ToSlash(rel), "/")
		dirs := len(split[i]) - 1
		if i == 0 || dirs < minLen {
			minLen = dirs
		}
	}

	common := 0
	for i := 0; i < minLen; i++ {
		c := split[0][i]
		same := true
		for _, p := range split[1:] {
			if p[i] != c {
				same = false
				break
			}
		}
		if !same {
			break
		}
		common = i + 1
	}
	return common
}

// orderCandidates sorts launch candidates so that installers, uninstallers
// and other tooling sink below plain executables. The sort is stable, so
// candidates with equal standing keep their discovery order.
func orderCandidates(candidates []string) {
	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := installerPenalty(candidates[i]), installerPenalty(candidates[j])
		if pi != pj {
			return pi < pj
		}
		// Shallower candidates make better defaults than nested ones.
		di := strings.Count(filepath.ToSlash(candidates[i]), "/")
		dj := strings.Count(filepath.ToSlash(candidates[j]), "/")
		return di < dj
	})
}

func installerPenalty(rel string) int {
	base := strings.ToLower(filepath.Base(rel))
	for _, tok := range installerTokens {
		if strings.Contains(base, tok) {
			return 1
		}
	}
	return 0
}
