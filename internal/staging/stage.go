// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"fmt"
	"io"
	"os"
)

// Stage copies every plan entry into the project directory, preserving file
// mode and modification time. Each successfully copied file is recorded on
// the obligation before the next copy starts, so a failure partway through
// leaves the obligation covering exactly the files that made it to disk.
// Copy order follows the plan but nothing depends on it.
func (p *Plan) Stage(ob *Obligation, stdout io.Writer) error {
	for _, entry := range p.Entries {
		fmt.Fprintf(stdout, "Copying %q to %q\n", entry.Source, p.ProjectDir+string(os.PathSeparator))
		if err := copyFile(entry.Source, entry.Target); err != nil {
			return fmt.Errorf("stage %q: %w", entry.Source, err)
		}
		ob.Record(entry.Target)
	}
	return nil
}

// copyFile copies src to dst, carrying over the source's permission bits and
// modification time. dst must not exist as a directory.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	// Metadata preservation is best-effort; some filesystems reject Chtimes.
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())

	return nil
}
