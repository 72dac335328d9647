package library

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/calebhay/gamedex/metadata"
)

// Default export filenames, used when the caller passes an empty path.
const (
	DefaultScanFilename   = "scan_result.json"
	DefaultSearchFilename = "search_result.json"
	DefaultExportFilename = "export_result.json"
)

// ExportError wraps serialization and file I/O failures during export.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export to '%s': %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// ExportJSON serializes v as a pretty-printed JSON document at path and
// returns the path actually written. An empty path picks a default
// filename based on the value's type.
func ExportJSON(v any, path string) (string, error) {
	if path == "" {
		path = defaultFilename(v)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", &ExportError{Path: path, Err: err}
	}

	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // Standard file permissions
		return "", &ExportError{Path: path, Err: err}
	}

	return path, nil
}

func defaultFilename(v any) string {
	switch v.(type) {
	case []GameInfo:
		return DefaultScanFilename
	case []metadata.ScoredMatch:
		return DefaultSearchFilename
	default:
		return DefaultExportFilename
	}
}
