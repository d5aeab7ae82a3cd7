// SPDX-License-Identifier: MPL-2.0

package renderer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
)

// fakeRenderer writes a shell script that records its invocation and exits
// with the given code. Skips the calling test on Windows.
func fakeRenderer(t *testing.T, dir string, exitCode int) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake renderer script requires a POSIX shell")
	}

	script := filepath.Join(dir, "fake-renderer")
	body := "#!/bin/sh\necho \"$@\" > invoked.txt\npwd >> invoked.txt\nexit " + strconv.Itoa(exitCode) + "\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	return script
}

func TestRenderPropagatesZeroExit(t *testing.T) {
	t.Parallel()

	project := t.TempDir()
	script := fakeRenderer(t, t.TempDir(), 0)

	inv := New(script, "render", &bytes.Buffer{}, &bytes.Buffer{}, nil)
	res := inv.Render(context.Background(), project, "doc.qmd", []string{"--to", "pdf"}, os.Environ())

	if res.Err != nil {
		t.Fatalf("Render error: %v", res.Err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("ExitCode = %d, want 0", res.ExitCode)
	}

	// The renderer must have run with the project directory as its cwd and
	// received the subcommand, document name, and pass-through args in order.
	got, err := os.ReadFile(filepath.Join(project, "invoked.txt"))
	if err != nil {
		t.Fatalf("renderer did not run in project dir: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(got)), "\n")
	if lines[0] != "render doc.qmd --to pdf" {
		t.Errorf("renderer args = %q", lines[0])
	}
}

func TestRenderPropagatesNonZeroExit(t *testing.T) {
	t.Parallel()

	project := t.TempDir()
	script := fakeRenderer(t, t.TempDir(), 3)

	inv := New(script, "render", &bytes.Buffer{}, &bytes.Buffer{}, nil)
	res := inv.Render(context.Background(), project, "doc.qmd", nil, os.Environ())

	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if res.Err != nil {
		t.Errorf("Err = %v, want nil for a renderer that started and failed", res.Err)
	}
}

func TestRenderMissingBinary(t *testing.T) {
	t.Parallel()

	inv := New(filepath.Join(t.TempDir(), "no-such-renderer"), "render", &bytes.Buffer{}, &bytes.Buffer{}, nil)
	res := inv.Render(context.Background(), t.TempDir(), "doc.qmd", nil, os.Environ())

	if res.Err == nil {
		t.Error("Err = nil for a renderer that could not start")
	}
	if res.ExitCode.IsSuccess() {
		t.Error("ExitCode reports success for a renderer that could not start")
	}
}

func TestRenderAnnouncesCommandLine(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	script := fakeRenderer(t, t.TempDir(), 0)
	inv := New(script, "render", &out, &bytes.Buffer{}, nil)
	inv.Render(context.Background(), t.TempDir(), "doc.qmd", []string{"--no-cache"}, os.Environ())

	if !strings.Contains(out.String(), "render doc.qmd --no-cache") {
		t.Errorf("command line not announced: %q", out.String())
	}
}
