// SPDX-License-Identifier: MPL-2.0

package renderer

import (
	"errors"
	"testing"
)

func TestExitCodeIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     ExitCode
		wantValid bool
	}{
		{name: "zero is valid", value: 0, wantValid: true},
		{name: "one is valid", value: 1, wantValid: true},
		{name: "255 is valid", value: 255, wantValid: true},
		{name: "negative is invalid", value: -1, wantValid: false},
		{name: "256 is invalid", value: 256, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			isValid, errs := tt.value.IsValid()
			if isValid != tt.wantValid {
				t.Errorf("ExitCode(%d).IsValid() = %v, want %v", tt.value, isValid, tt.wantValid)
			}
			if !tt.wantValid && !errors.Is(errs[0], ErrInvalidExitCode) {
				t.Errorf("error does not wrap ErrInvalidExitCode: %v", errs[0])
			}
		})
	}
}

func TestExitCodeIsSuccess(t *testing.T) {
	t.Parallel()

	if !ExitCode(0).IsSuccess() {
		t.Error("ExitCode(0).IsSuccess() = false")
	}
	if ExitCode(3).IsSuccess() {
		t.Error("ExitCode(3).IsSuccess() = true")
	}
}
