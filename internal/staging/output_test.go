// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestResetOutputDirRemovesExisting(t *testing.T) {
	t.Parallel()

	project := t.TempDir()
	out := filepath.Join(project, "_output")
	writeFile(t, filepath.Join(out, "stale.html"))

	var buf bytes.Buffer
	if err := ResetOutputDir(out, &buf); err != nil {
		t.Fatalf("ResetOutputDir: %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("stale output directory still present")
	}
	if buf.Len() == 0 {
		t.Error("removal not reported")
	}
}

func TestResetOutputDirMissingIsNoOp(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := ResetOutputDir(filepath.Join(t.TempDir(), "_output"), &buf); err != nil {
		t.Fatalf("ResetOutputDir: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected output for missing dir: %q", buf.String())
	}
}

func TestRetrieveFreshDestination(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "_output")
	writeFile(t, filepath.Join(src, "a.html"))
	writeFile(t, filepath.Join(src, "assets", "style.css"))
	dest := filepath.Join(t.TempDir(), "_output")

	moved, err := Retrieve(src, dest, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if !moved {
		t.Fatal("Retrieve reported nothing moved")
	}

	for _, rel := range []string{"a.html", filepath.Join("assets", "style.css")} {
		if _, err := os.Stat(filepath.Join(dest, rel)); err != nil {
			t.Errorf("missing retrieved file %q: %v", rel, err)
		}
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source output tree not removed after retrieval")
	}
}

func TestRetrieveMergesOverExistingDestination(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "_output")
	writeFile(t, filepath.Join(src, "a.html"))
	if err := os.WriteFile(filepath.Join(src, "a.html"), []byte("new a"), 0o644); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(t.TempDir(), "_output")
	writeFile(t, filepath.Join(dest, "b.html"))
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dest, "a.html"), []byte("old a"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Retrieve(src, dest, &bytes.Buffer{}); err != nil {
		t.Fatalf("Retrieve: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dest, "a.html"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new a" {
		t.Errorf("a.html = %q, want the newly rendered content", got)
	}
	if _, err := os.Stat(filepath.Join(dest, "b.html")); err != nil {
		t.Errorf("non-colliding destination entry b.html was destroyed: %v", err)
	}
}

func TestRetrieveMergesNestedDirectories(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "_output")
	writeFile(t, filepath.Join(src, "assets", "new.css"))
	dest := filepath.Join(t.TempDir(), "_output")
	writeFile(t, filepath.Join(dest, "assets", "keep.css"))

	if _, err := Retrieve(src, dest, &bytes.Buffer{}); err != nil {
		t.Fatalf("Retrieve: %v", err)
	}

	for _, rel := range []string{"new.css", "keep.css"} {
		if _, err := os.Stat(filepath.Join(dest, "assets", rel)); err != nil {
			t.Errorf("missing %q after nested merge: %v", rel, err)
		}
	}
}

func TestRetrieveMissingSource(t *testing.T) {
	t.Parallel()

	moved, err := Retrieve(filepath.Join(t.TempDir(), "_output"), filepath.Join(t.TempDir(), "_output"), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if moved {
		t.Error("Retrieve reported a move for a missing source")
	}
}
