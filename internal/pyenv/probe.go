// SPDX-License-Identifier: MPL-2.0

// Package pyenv detects Python virtual environments inside a project
// directory and derives the environment adjustments needed to run
// subprocesses against them.
//
// Detection is best-effort and side-effect free: Probe only reads the
// filesystem and returns an overlay; callers decide whether and how to
// apply it to a subprocess environment.
package pyenv

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"docstage/internal/platform"
)

// candidateDirs are the conventional virtual-environment directory names,
// in probe order. The first directory containing a marker file wins.
var candidateDirs = []string{".venv", "venv", "env", ".virtualenv"}

// markerFile identifies a directory as a Python virtual environment.
const markerFile = "pyvenv.cfg"

// Overlay describes environment adjustments for running a subprocess with
// a virtual environment active: its bin directory is prepended to PATH,
// VIRTUAL_ENV names the environment root, and PYTHONHOME is removed so it
// cannot force a conflicting interpreter home.
type Overlay struct {
	// Root is the absolute path of the virtual environment directory.
	Root string
	// BinDir is the absolute path of the environment's executables directory.
	BinDir string
}

// Probe scans projectDir for a conventional virtual-environment directory.
// It returns nil when none is found; absence is not an error.
func Probe(projectDir string) *Overlay {
	for _, name := range candidateDirs {
		root := filepath.Join(projectDir, name)
		if !isVenv(root) {
			continue
		}
		return &Overlay{
			Root:   root,
			BinDir: filepath.Join(root, platform.VenvBinDir()),
		}
	}
	return nil
}

// isVenv reports whether dir is a directory containing the venv marker file.
func isVenv(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	marker, err := os.Stat(filepath.Join(dir, markerFile))
	return err == nil && marker.Mode().IsRegular()
}

// Apply returns a copy of environ ("KEY=VALUE" form) adjusted for the
// overlay: PATH gains the bin directory as its first entry, VIRTUAL_ENV is
// set to the environment root, and any PYTHONHOME entry is dropped.
// A nil overlay returns environ unchanged.
func (o *Overlay) Apply(environ []string) []string {
	if o == nil {
		return environ
	}

	out := make([]string, 0, len(environ)+2)
	pathSeen := false
	for _, kv := range environ {
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			out = append(out, kv)
			continue
		}
		switch {
		case envKeyEquals(key, "PYTHONHOME"):
			// dropped
		case envKeyEquals(key, "VIRTUAL_ENV"):
			// replaced below
		case envKeyEquals(key, "PATH"):
			out = append(out, key+"="+o.BinDir+string(os.PathListSeparator)+val)
			pathSeen = true
		default:
			out = append(out, kv)
		}
	}
	if !pathSeen {
		out = append(out, "PATH="+o.BinDir)
	}
	out = append(out, "VIRTUAL_ENV="+o.Root)
	return out
}

// envKeyEquals compares environment variable names, case-insensitively on
// Windows where the environment is case-preserving but case-insensitive.
func envKeyEquals(a, b string) bool {
	if runtime.GOOS == platform.Windows {
		return strings.EqualFold(a, b)
	}
	return a == b
}
