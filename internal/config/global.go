// SPDX-License-Identifier: MPL-2.0

package config

var (
	// configDirOverride allows tests to override the config directory.
	// This is necessary because os.UserHomeDir() doesn't reliably respect
	// the HOME environment variable on all platforms (e.g., macOS in CI).
	configDirOverride string

	// configFilePathOverride holds the --config flag value, which takes
	// precedence over the default config locations.
	configFilePathOverride string
)

// Reset clears overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
	configFilePathOverride = ""
}

// SetConfigDirOverride sets a custom config directory path, primarily for
// tests.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetConfigFilePathOverride points Load at an explicit config file.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
}
