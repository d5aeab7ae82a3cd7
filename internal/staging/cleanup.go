// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Obligation tracks what must be undone once staging has begun: every file
// copied into the project directory, plus the working directory captured
// before the flow started. It is created before any mutation and discharged
// exactly once at flow end, on every exit path.
type Obligation struct {
	staged     []string
	originalWD string
	discharged bool
}

// CaptureObligation records the current working directory and returns an
// unarmed obligation. Call this before any file is copied.
func CaptureObligation() (*Obligation, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("capture working directory: %w", err)
	}
	return &Obligation{originalWD: wd}, nil
}

// Record arms the obligation with one successfully copied target path.
func (o *Obligation) Record(target string) {
	o.staged = append(o.staged, target)
}

// Armed reports whether at least one file has been copied.
func (o *Obligation) Armed() bool {
	return len(o.staged) > 0
}

// OriginalWD returns the working directory captured at flow start.
func (o *Obligation) OriginalWD() string {
	return o.originalWD
}

// Discharge removes every staged file still present and restores the
// original working directory. It runs at most once; later calls are no-ops.
// Removal is attempted for every file even when earlier removals fail, and
// all failures are reported on stderr and joined into the returned error so
// the caller can decide whether they matter — typically they must never mask
// the error that ended the flow.
func (o *Obligation) Discharge(stdout, stderr io.Writer) error {
	if o.discharged {
		return nil
	}
	o.discharged = true

	var errs []error

	for _, target := range o.staged {
		info, err := os.Lstat(target)
		if err != nil {
			if os.IsNotExist(err) {
				// Already gone; nothing owed for this file.
				continue
			}
			errs = append(errs, fmt.Errorf("inspect staged file %q: %w", target, err))
			continue
		}
		if !info.Mode().IsRegular() {
			// Something replaced the staged file; leave it alone but report it.
			fmt.Fprintf(stderr, "Warning: staged path %q is no longer a regular file, not removing\n", target)
			continue
		}
		fmt.Fprintf(stdout, "Deleting %q from project directory\n", filepath.Base(target))
		if err := os.Remove(target); err != nil {
			errs = append(errs, fmt.Errorf("remove staged file %q: %w", target, err))
		}
	}

	if err := os.Chdir(o.originalWD); err != nil {
		errs = append(errs, fmt.Errorf("restore working directory %q: %w", o.originalWD, err))
	}

	for _, err := range errs {
		fmt.Fprintf(stderr, "Warning: cleanup: %v\n", err)
	}

	return errors.Join(errs...)
}
