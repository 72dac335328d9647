package scan

import (
	"errors"
	"fmt"
)

// ErrInvalidRoot signals that a scan root does not exist or is not a directory.
var ErrInvalidRoot = errors.New("invalid scan root")

// ScanError provides context for scan-related errors.
type ScanError struct {
	Op   string // Operation that failed (e.g., "group")
	Path string // Path involved if applicable
	Err  error  // Underlying error
}

func (e *ScanError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s '%s': %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}
