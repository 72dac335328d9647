package metadata

import "github.com/calebhay/gamedex/match"

// Confidence weighting. Title similarity dominates; completeness rewards
// richer records; the priority bonus is small enough that it can only
// break near-ties between sources, never outvote a real similarity gap.
const (
	similarityWeight   = 0.7
	completenessWeight = 0.3
	maxPriorityBonus   = 0.05
)

// informativeFields is the size of the fixed field set completeness is
// measured against.
const informativeFields = 6

// confidence scores one candidate against the query.
func confidence(query string, m Metadata, priority int) float64 {
	c := similarityWeight*match.Similarity(query, m.Title) +
		completenessWeight*completeness(m) +
		priorityBonus(priority)

	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// completeness is the fraction of informative fields the record fills.
func completeness(m Metadata) float64 {
	present := 0
	if m.CoverURL != "" {
		present++
	}
	if m.Description != "" {
		present++
	}
	if m.ReleaseDate != "" {
		present++
	}
	if m.Developer != "" {
		present++
	}
	if m.Publisher != "" {
		present++
	}
	if len(m.Genres) > 0 {
		present++
	}
	return float64(present) / float64(informativeFields)
}

// priorityBonus maps a source priority in [0, 100] onto [0, maxPriorityBonus].
func priorityBonus(priority int) float64 {
	if priority < 0 {
		priority = 0
	}
	if priority > 100 {
		priority = 100
	}
	return float64(priority) / 100 * maxPriorityBonus
}
