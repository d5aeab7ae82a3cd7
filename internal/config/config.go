// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"docstage/internal/issue"
	"docstage/internal/platform"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "docstage"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"

	// maxConfigFileSize bounds config files to keep CUE compilation cheap.
	maxConfigFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the docstage configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads the config file (if any) and merges it over the defaults.
// A missing config file is not an error; a malformed or schema-violating
// one is.
func Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("renderer.command", defaults.Renderer.Command)
	v.SetDefault("renderer.subcommand", defaults.Renderer.Subcommand)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)

	path, err := resolveConfigFilePath()
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Set renderer.command and renderer.subcommand to non-blank values").
			Wrap(err).
			BuildError()
	}

	return &cfg, nil
}

// resolveConfigFilePath returns the config file to load, or "" when none
// exists. An explicit override (--config flag) must exist; the default
// locations are optional.
func resolveConfigFilePath() (string, error) {
	if configFilePathOverride != "" {
		if !fileExists(configFilePathOverride) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(configFilePathOverride).
				WithSuggestion("Verify the file path is correct").
				Wrap(fmt.Errorf("config file not found: %s", configFilePathOverride)).
				BuildError()
		}
		return configFilePathOverride, nil
	}

	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if fileExists(path) {
		return path, nil
	}
	return "", nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config
// schema, and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigFileSize {
		return fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return fmt.Errorf("invalid CUE in %s: %w", path, userValue.Err())
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return fmt.Errorf("config %s does not match schema: %w", path, err)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// LoadEnv reads the required environment variables. Surrounding matching
// single or double quotes are stripped from values. Both variables must be
// present and non-blank.
func LoadEnv() (*Env, error) {
	projectDir := stripQuotes(os.Getenv(EnvProjectDir))
	if projectDir == "" {
		return nil, &MissingEnvVarError{Name: EnvProjectDir}
	}
	outputRel := stripQuotes(os.Getenv(EnvOutputDir))
	if outputRel == "" {
		return nil, &MissingEnvVarError{Name: EnvOutputDir}
	}
	return &Env{ProjectDir: projectDir, OutputRel: outputRel}, nil
}

// stripQuotes removes one pair of matching surrounding quotes, if present.
// Mismatched quotes are left alone.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
