// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestGetReturnsCatalogIssues(t *testing.T) {
	ids := []Id{
		MissingEnvVarId,
		DocumentNotFoundId,
		ProjectDirNotFoundId,
		StagingCollisionId,
		RendererFailedId,
		ConfigLoadFailedId,
	}

	for _, id := range ids {
		iss := Get(id)
		if iss == nil {
			t.Fatalf("Get(%d) = nil", id)
		}
		if iss.Id() != id {
			t.Errorf("Get(%d).Id() = %d", id, iss.Id())
		}
		if iss.MarkdownMsg() == "" {
			t.Errorf("issue %d has empty markdown body", id)
		}
	}
}

func TestGetUnknownId(t *testing.T) {
	if iss := Get(Id(9999)); iss != nil {
		t.Errorf("Get(unknown) = %v, want nil", iss)
	}
}

func TestRenderUsesRenderer(t *testing.T) {
	orig := render
	defer func() { render = orig }()

	render = func(in, stylePath string) (string, error) {
		return "rendered:" + stylePath + ":" + in, nil
	}

	out, err := Get(StagingCollisionId).Render("dark")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(out, "rendered:dark:") {
		t.Errorf("Render did not pass through the style: %q", out)
	}
	if !strings.Contains(out, "Staging collision") {
		t.Errorf("Render output missing issue body: %q", out)
	}
}
