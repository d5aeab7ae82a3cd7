// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrCollision is the sentinel error wrapped by CollisionError.
	ErrCollision = errors.New("staging collision")
	// ErrDuplicateTarget is the sentinel error wrapped by DuplicateTargetError.
	ErrDuplicateTarget = errors.New("duplicate staging target")
)

type (
	// Entry maps one source file to its target path inside the project
	// directory (project dir joined with the source's base name).
	Entry struct {
		Source string
		Target string
	}

	// Plan is a collision-checked list of copy operations. A Plan is only
	// constructed when no target path exists yet and all target paths are
	// distinct, so executing it never overwrites anything.
	Plan struct {
		ProjectDir string
		Entries    []Entry
	}

	// CollisionError is returned when a staged file's base name already
	// exists in the project directory.
	CollisionError struct {
		Name       string
		ProjectDir string
	}

	// DuplicateTargetError is returned when two distinct source files would
	// stage to the same base name.
	DuplicateTargetError struct {
		Name    string
		Sources [2]string
	}
)

// Error implements the error interface.
func (e *CollisionError) Error() string {
	return fmt.Sprintf("file %q already exists in project directory %q", e.Name, e.ProjectDir)
}

// Unwrap returns ErrCollision so callers can use errors.Is for detection.
func (e *CollisionError) Unwrap() error { return ErrCollision }

// Error implements the error interface.
func (e *DuplicateTargetError) Error() string {
	return fmt.Sprintf("resources %q and %q would both stage as %q", e.Sources[0], e.Sources[1], e.Name)
}

// Unwrap returns ErrDuplicateTarget so callers can use errors.Is for detection.
func (e *DuplicateTargetError) Unwrap() error { return ErrDuplicateTarget }

// BuildPlan computes the target path for every member of set and verifies,
// over the whole set before any copy happens, that no target exists on disk
// and no two members share a base name. The check is all-or-nothing: on the
// first violation the flow aborts with nothing copied and nothing owed.
func BuildPlan(set *FileSet, projectDir string) (*Plan, error) {
	plan := &Plan{ProjectDir: projectDir}
	bySource := make(map[string]string, set.Len())

	for _, source := range set.Paths() {
		name := filepath.Base(source)
		if prev, ok := bySource[name]; ok {
			return nil, &DuplicateTargetError{Name: name, Sources: [2]string{prev, source}}
		}
		bySource[name] = source

		target := filepath.Join(projectDir, name)
		if _, err := os.Lstat(target); err == nil {
			return nil, &CollisionError{Name: name, ProjectDir: projectDir}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("check staging target %q: %w", target, err)
		}

		plan.Entries = append(plan.Entries, Entry{Source: source, Target: target})
	}

	return plan, nil
}
