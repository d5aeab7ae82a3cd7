// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Environment variable names read at startup.
const (
	// EnvProjectDir names the template project directory.
	EnvProjectDir = "DOCSTAGE_PROJECT_DIR"
	// EnvOutputDir names the renderer's output directory, relative to the project.
	EnvOutputDir = "DOCSTAGE_OUTPUT_DIR"
)

var (
	// ErrMissingEnvVar is the sentinel error wrapped by MissingEnvVarError.
	ErrMissingEnvVar = errors.New("missing environment variable")
	// ErrInvalidRendererConfig is returned when the renderer command or
	// subcommand is blank.
	ErrInvalidRendererConfig = errors.New("invalid renderer config")
)

type (
	// Config holds the file-backed configuration. Zero values fall back to
	// defaults during Load.
	Config struct {
		Renderer RendererConfig `mapstructure:"renderer"`
		UI       UIConfig       `mapstructure:"ui"`
		Watch    WatchConfig    `mapstructure:"watch"`
	}

	// RendererConfig selects the external renderer invocation.
	RendererConfig struct {
		// Command is the renderer binary name or path.
		Command string `mapstructure:"command"`
		// Subcommand is the render subcommand passed before the document name.
		Subcommand string `mapstructure:"subcommand"`
	}

	// UIConfig holds console output preferences.
	UIConfig struct {
		Verbose bool `mapstructure:"verbose"`
	}

	// WatchConfig tunes watch mode.
	WatchConfig struct {
		// DebounceMs is the quiet period in milliseconds before a re-render
		// fires after the last file change.
		DebounceMs int `mapstructure:"debounce_ms"`
	}

	// Env is the required process environment, captured once at startup.
	Env struct {
		// ProjectDir is the template project directory as given (possibly
		// relative; the cmd layer resolves it).
		ProjectDir string
		// OutputRel is the output directory relative to the project.
		OutputRel string
	}

	// MissingEnvVarError is returned when a required environment variable is
	// unset or blank. It wraps ErrMissingEnvVar for errors.Is compatibility.
	MissingEnvVarError struct {
		Name string
	}
)

// Error implements the error interface.
func (e *MissingEnvVarError) Error() string {
	return fmt.Sprintf("environment variable %s is not set", e.Name)
}

// Unwrap returns ErrMissingEnvVar so callers can use errors.Is for detection.
func (e *MissingEnvVarError) Unwrap() error { return ErrMissingEnvVar }

// DefaultConfig returns the built-in defaults: quarto render, quiet UI,
// 500ms watch debounce.
func DefaultConfig() *Config {
	return &Config{
		Renderer: RendererConfig{Command: "quarto", Subcommand: "render"},
		UI:       UIConfig{Verbose: false},
		Watch:    WatchConfig{DebounceMs: 500},
	}
}

// Validate checks constraints the CUE schema cannot express against the
// merged configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Renderer.Command) == "" {
		return fmt.Errorf("%w: renderer.command must not be blank", ErrInvalidRendererConfig)
	}
	if strings.TrimSpace(c.Renderer.Subcommand) == "" {
		return fmt.Errorf("%w: renderer.subcommand must not be blank", ErrInvalidRendererConfig)
	}
	return nil
}
