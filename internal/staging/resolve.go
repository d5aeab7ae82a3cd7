// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

type (
	// Request is the immutable input of one staging flow.
	Request struct {
		// Document is the absolute path to the source document.
		Document string
		// Patterns are the resource glob patterns, in command-line order.
		Patterns []string
		// ProjectDir is the absolute path to the target project directory.
		ProjectDir string
		// OutputRel is the path, relative to ProjectDir, where the renderer
		// writes its output.
		OutputRel string
	}

	// FileSet is an ordered set of absolute source paths, deduplicated by
	// resolved path. Membership is fixed once collision checking begins.
	FileSet struct {
		paths []string
		seen  map[string]struct{}
	}
)

func newFileSet() *FileSet {
	return &FileSet{seen: make(map[string]struct{})}
}

func (s *FileSet) add(path string) {
	if _, ok := s.seen[path]; ok {
		return
	}
	s.seen[path] = struct{}{}
	s.paths = append(s.paths, path)
}

// Paths returns the member paths in insertion order. The caller must not
// mutate the returned slice.
func (s *FileSet) Paths() []string {
	return s.paths
}

// Len returns the number of members.
func (s *FileSet) Len() int {
	return len(s.paths)
}

// Resolve expands the request's resource patterns into a FileSet and appends
// the document itself. Patterns support doublestar semantics including
// recursive "**" segments. Only regular files are collected; directory
// matches are dropped. A pattern with no file matches produces a warning
// string rather than an error, as does a malformed pattern.
func Resolve(req Request) (*FileSet, []string, error) {
	set := newFileSet()
	var warnings []string

	for _, pattern := range req.Patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Warning: resource %q is not a valid pattern, skipping", pattern))
			continue
		}

		found := 0
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			abs, err := filepath.Abs(match)
			if err != nil {
				return nil, warnings, fmt.Errorf("resolve resource path %q: %w", match, err)
			}
			set.add(abs)
			found++
		}

		if found == 0 {
			warnings = append(warnings, fmt.Sprintf("Warning: resource %q does not match any files, skipping", pattern))
		}
	}

	doc, err := filepath.Abs(req.Document)
	if err != nil {
		return nil, warnings, fmt.Errorf("resolve document path %q: %w", req.Document, err)
	}
	set.add(doc)

	return set, warnings, nil
}
