// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
package platform

import "runtime"

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// VenvBinDir returns the name of the executables directory inside a Python
// virtual environment for the current platform ("Scripts" on Windows,
// "bin" everywhere else).
func VenvBinDir() string {
	if runtime.GOOS == Windows {
		return "Scripts"
	}
	return "bin"
}
