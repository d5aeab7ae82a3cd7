// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ResetOutputDir removes dir recursively if it exists, so the renderer
// always starts from a clean output state. Missing dir is a no-op.
func ResetOutputDir(dir string, stdout io.Writer) error {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("inspect output directory %q: %w", dir, err)
	}
	fmt.Fprintf(stdout, "Removing existing %q from project directory\n", filepath.Base(dir))
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove stale output directory %q: %w", dir, err)
	}
	return nil
}

// Retrieve moves the rendered output tree from srcDir (inside the project)
// to destDir (next to the original document). If destDir already exists the
// trees are merged: files from srcDir overwrite same-named destination
// entries, and destination entries with no counterpart are left untouched.
// After a successful copy the source tree is deleted. Returns false without
// error when srcDir does not exist — some renderers legitimately produce no
// output directory.
func Retrieve(srcDir, destDir string, stdout io.Writer) (bool, error) {
	if _, err := os.Stat(srcDir); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("inspect renderer output %q: %w", srcDir, err)
	}

	fmt.Fprintf(stdout, "Copying %q contents to %q (overwriting existing files)\n", filepath.Base(srcDir), destDir)
	if err := mergeTree(srcDir, destDir); err != nil {
		return false, fmt.Errorf("retrieve output: %w", err)
	}

	fmt.Fprintf(stdout, "Copy succeeded; removing source %q\n", filepath.Base(srcDir))
	if err := os.RemoveAll(srcDir); err != nil {
		return false, fmt.Errorf("remove retrieved output %q: %w", srcDir, err)
	}

	return true, nil
}

// mergeTree copies src onto dst node by node: directories are created (or
// reused) and recursed into, files overwrite same-named destination files.
// Existing destination entries that do not collide are never touched, which
// is what distinguishes a merge from a delete-then-replace.
func mergeTree(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := mergeTree(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}

		// A file overwriting a directory of the same name cannot be merged;
		// clear the directory first so the copy below can proceed.
		if info, err := os.Lstat(dstPath); err == nil && info.IsDir() {
			if err := os.RemoveAll(dstPath); err != nil {
				return err
			}
		}

		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}

	return nil
}
