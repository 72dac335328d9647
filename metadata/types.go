// Package metadata resolves authoritative game metadata by fanning a query
// out to registered external sources, scoring the candidates against the
// query and caching the ranked result.
package metadata

import "context"

// Metadata is one candidate record produced by a Source. It is an
// immutable value; fields a provider cannot fill stay zero.
type Metadata struct {
	ID          string   `json:"id,omitempty"`           // Provider-specific ID (e.g. "igdb:12345")
	Title       string   `json:"title,omitempty"`        // Game title as known to the provider
	CoverURL    string   `json:"cover_url,omitempty"`    // URL to cover/boxart image
	Description string   `json:"description,omitempty"`  // Game summary
	ReleaseDate string   `json:"release_date,omitempty"` // ISO 8601 date string (approximate)
	Developer   string   `json:"developer,omitempty"`    // Main developer
	Publisher   string   `json:"publisher,omitempty"`    // Main publisher
	Genres      []string `json:"genres,omitempty"`       // Genre names
	Tags        []string `json:"tags,omitempty"`         // Provider tags
}

// ScoredMatch pairs a candidate with its origin and a confidence in [0, 1].
type ScoredMatch struct {
	Metadata   Metadata `json:"metadata"`
	Source     string   `json:"source"`
	Confidence float64  `json:"confidence"`
}

// Source is an external game database provider. Implementations live
// outside the resolution core and may rate-limit or retry internally;
// the core treats each call as a single attempt.
type Source interface {
	// Name returns a stable identifier used for registration and diagnostics.
	Name() string
	// Priority orders scoring tie-breaks; higher wins. It never changes
	// which sources are queried.
	Priority() int
	// SupportsGameType reports whether the source is worth querying for
	// the given game type ("all" matches everything).
	SupportsGameType(gameType string) bool
	// Search finds candidates for a title.
	Search(ctx context.Context, title string) ([]Metadata, error)
	// GetByID fetches one record by provider-specific ID.
	GetByID(ctx context.Context, id string) (Metadata, error)
}

// GameTypeAll is the default game type; every source accepts it.
const GameTypeAll = "all"
