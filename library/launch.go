package library

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/calebhay/gamedex/logging"
	"github.com/calebhay/gamedex/scan"
)

// ErrLaunch is the sentinel all launch failures wrap.
var ErrLaunch = errors.New("launch failed")

// LaunchError carries the unit and candidate index of a failed launch.
type LaunchError struct {
	Dir   string // Game root directory
	Index int    // Requested candidate index
	Err   error  // Underlying error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch '%s' candidate %d: %v", e.Dir, e.Index, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// DefaultCandidate selects the unit's default launch target.
const DefaultCandidate = -1

// Launch starts the unit's launch candidate at index (DefaultCandidate
// picks the first) with the game root as working directory. It returns
// the resolved executable path once the process has started.
func Launch(unit scan.GameUnit, index int) (string, error) {
	if len(unit.LaunchCandidates) == 0 {
		return "", &LaunchError{Dir: unit.RootDir, Index: index,
			Err: fmt.Errorf("%w: no launch candidates", ErrLaunch)}
	}

	if index == DefaultCandidate {
		index = 0
	}
	if index < 0 || index >= len(unit.LaunchCandidates) {
		return "", &LaunchError{Dir: unit.RootDir, Index: index,
			Err: fmt.Errorf("%w: index out of range (have %d candidates)",
				ErrLaunch, len(unit.LaunchCandidates))}
	}

	full := filepath.Join(unit.RootDir, unit.LaunchCandidates[index])
	if _, err := os.Stat(full); err != nil {
		return "", &LaunchError{Dir: unit.RootDir, Index: index,
			Err: fmt.Errorf("%w: %v", ErrLaunch, err)}
	}

	cmd := exec.Command(full)
	cmd.Dir = unit.RootDir
	if err := cmd.Start(); err != nil {
		return "", &LaunchError{Dir: unit.RootDir, Index: index,
			Err: fmt.Errorf("%w: %v", ErrLaunch, err)}
	}

	logging.Info("game started", "path", full, "pid", cmd.Process.Pid)
	return full, nil
}
