package metadata

import (
	"errors"
	"fmt"
)

// Sentinel errors for resolution outcomes.
var (
	// ErrSourceUnavailable means every eligible source failed. Partial
	// failure never raises it; one healthy source is enough for success.
	ErrSourceUnavailable = errors.New("all metadata sources unavailable")

	// ErrNotFound means no source could satisfy an ID lookup.
	ErrNotFound = errors.New("not found")
)

// ProviderError records one source's failure. It is absorbed into the
// excluded set during resolution and only surfaces when all sources fail.
type ProviderError struct {
	Source string // Source name
	Err    error  // Underlying error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("source '%s': %v", e.Source, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
