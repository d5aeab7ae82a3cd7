// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the docstage CLI.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"docstage/internal/config"
	"docstage/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// resourcePatterns collects the repeatable --resources flag
	resourcePatterns []string
	// envFiles collects the repeatable --env-file flag
	envFiles []string
	// watchMode re-renders on document or resource changes
	watchMode bool
	// dryRun resolves and collision-checks without touching the project
	dryRun bool

	// appCfg is the file-backed configuration, loaded before command execution.
	appCfg *config.Config

	// rootCmd is the single docstage command: stage a document into the
	// template project, render it there, and bring the output back.
	rootCmd = &cobra.Command{
		Use:   "docstage <document> [renderer args...]",
		Short: "Render a standalone document through a template project",
		Long: TitleStyle.Render("docstage") + SubtitleStyle.Render(" - render standalone documents as if they lived in a template project") + `

docstage temporarily stages a document (and any resources it needs) into a
template project directory, runs the external renderer there so the project's
configuration and includes apply, copies the rendered output back next to the
document, and restores the project directory to its original state - even when
the renderer fails or the run is interrupted.

Flags must precede the document; everything after it is passed to the
renderer verbatim.

` + SubtitleStyle.Render("Environment variables:") + `
  DOCSTAGE_PROJECT_DIR   Path to the template project directory
  DOCSTAGE_OUTPUT_DIR    Relative path to the project's output directory

` + SubtitleStyle.Render("Examples:") + `
  docstage report.qmd                          Render with project defaults
  docstage -r 'figs/**/*.png' report.qmd       Stage matching resources too
  docstage report.qmd --to pdf                 Pass --to pdf to the renderer
  docstage --watch report.qmd                  Re-render on every change`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd.Context(), args[0], args[1:])
		},
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.Flags().StringArrayVarP(&resourcePatterns, "resources", "r", nil,
		"resource glob pattern to stage alongside the document (repeatable, supports '**')")
	rootCmd.Flags().StringArrayVar(&envFiles, "env-file", nil,
		"dotenv file merged into the renderer environment (repeatable, later files win)")
	rootCmd.Flags().BoolVar(&watchMode, "watch", false,
		"re-render whenever the document or a staged resource changes")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"resolve resources and check for collisions without staging or rendering")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/docstage/config.cue)")

	// Flags stop at the first positional so renderer arguments pass through
	// untouched and in order.
	rootCmd.Flags().SetInterspersed(false)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig loads the config file before command execution.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		cfg = config.DefaultConfig()
	}
	appCfg = cfg

	if !verbose {
		verbose = appCfg.UI.Verbose
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
