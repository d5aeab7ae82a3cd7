// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableErrorError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "stage document"},
			want: "failed to stage document",
		},
		{
			name: "operation and resource",
			err:  &ActionableError{Operation: "stage document", Resource: "report.qmd"},
			want: "failed to stage document: report.qmd",
		},
		{
			name: "operation, resource and cause",
			err: &ActionableError{
				Operation: "stage document",
				Resource:  "report.qmd",
				Cause:     errors.New("permission denied"),
			},
			want: "failed to stage document: report.qmd: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := WrapWithOperation(cause, "retrieve output")

	if !errors.Is(err, cause) {
		t.Error("errors.Is does not find the wrapped cause")
	}
}

func TestWrapWithOperationNil(t *testing.T) {
	t.Parallel()

	if got := WrapWithOperation(nil, "anything"); got != nil {
		t.Errorf("WrapWithOperation(nil) = %v, want nil", got)
	}
}

func TestErrorContextBuild(t *testing.T) {
	t.Parallel()

	cause := errors.New("no such file")
	err := NewErrorContext().
		WithOperation("resolve resources").
		WithResource("figures/*.png").
		WithSuggestion("Check the glob pattern").
		Wrap(cause).
		Build()

	if err == nil {
		t.Fatal("Build() returned nil for a populated context")
	}
	if err.Operation != "resolve resources" {
		t.Errorf("Operation = %q", err.Operation)
	}
	if !errors.Is(err, cause) {
		t.Error("built error does not wrap the cause")
	}

	formatted := err.Format(false)
	if !strings.Contains(formatted, "Check the glob pattern") {
		t.Errorf("Format() missing suggestion: %q", formatted)
	}
}

func TestErrorContextBuildRequiresOperation(t *testing.T) {
	t.Parallel()

	if got := NewErrorContext().WithResource("x").BuildError(); got != nil {
		t.Errorf("BuildError() without operation = %v, want nil", got)
	}
}

func TestFormatVerboseIncludesChain(t *testing.T) {
	t.Parallel()

	inner := errors.New("inner")
	err := NewErrorContext().
		WithOperation("stage document").
		Wrap(WrapWithOperation(inner, "copy file")).
		Build()

	out := err.Format(true)
	if !strings.Contains(out, "Error chain:") {
		t.Errorf("verbose Format() missing error chain: %q", out)
	}
	if !strings.Contains(out, "inner") {
		t.Errorf("verbose Format() missing innermost cause: %q", out)
	}
}
