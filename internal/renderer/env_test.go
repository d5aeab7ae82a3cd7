// SPDX-License-Identifier: MPL-2.0

package renderer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docstage/internal/pyenv"
)

func envValue(environ []string, key string) (string, bool) {
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			return v, true
		}
	}
	return "", false
}

func TestBuildEnvNoFilesNoOverlay(t *testing.T) {
	t.Parallel()

	environ := []string{"A=1", "B=2"}
	got, err := BuildEnv(environ, nil, nil)
	if err != nil {
		t.Fatalf("BuildEnv: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("env = %v, want unchanged", got)
	}
}

func TestBuildEnvAppliesDotenvFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := filepath.Join(dir, "first.env")
	second := filepath.Join(dir, "second.env")
	if err := os.WriteFile(first, []byte("DOCSTAGE_TEST_X=from-first\nDOCSTAGE_TEST_Y=only-first\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte("DOCSTAGE_TEST_X=from-second\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := BuildEnv([]string{"DOCSTAGE_TEST_X=from-host"}, []string{first, second}, nil)
	if err != nil {
		t.Fatalf("BuildEnv: %v", err)
	}

	if v, _ := envValue(got, "DOCSTAGE_TEST_X"); v != "from-second" {
		t.Errorf("DOCSTAGE_TEST_X = %q, want later file to win", v)
	}
	if v, _ := envValue(got, "DOCSTAGE_TEST_Y"); v != "only-first" {
		t.Errorf("DOCSTAGE_TEST_Y = %q", v)
	}
}

func TestBuildEnvMissingFile(t *testing.T) {
	t.Parallel()

	_, err := BuildEnv([]string{"A=1"}, []string{filepath.Join(t.TempDir(), "absent.env")}, nil)
	if err == nil {
		t.Error("BuildEnv succeeded with a missing env file")
	}
}

func TestBuildEnvOverlayWinsOverFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "vars.env")
	if err := os.WriteFile(file, []byte("VIRTUAL_ENV=/from/dotenv\nPYTHONHOME=/from/dotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	overlay := &pyenv.Overlay{Root: "/proj/.venv", BinDir: "/proj/.venv/bin"}
	got, err := BuildEnv([]string{"PATH=/usr/bin"}, []string{file}, overlay)
	if err != nil {
		t.Fatalf("BuildEnv: %v", err)
	}

	if v, _ := envValue(got, "VIRTUAL_ENV"); v != "/proj/.venv" {
		t.Errorf("VIRTUAL_ENV = %q, want overlay to win", v)
	}
	if _, ok := envValue(got, "PYTHONHOME"); ok {
		t.Error("PYTHONHOME survived the overlay")
	}
	if v, _ := envValue(got, "PATH"); !strings.HasPrefix(v, "/proj/.venv/bin") {
		t.Errorf("PATH = %q, want venv bin prepended", v)
	}
}
