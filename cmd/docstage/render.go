// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"docstage/internal/config"
	"docstage/internal/issue"
	"docstage/internal/pyenv"
	"docstage/internal/renderer"
	"docstage/internal/staging"
	"docstage/internal/watch"
)

// renderParams carries everything one pipeline run needs, so the pipeline is
// callable from the one-shot path, the watch loop, and tests alike.
type renderParams struct {
	req         staging.Request
	passthrough []string
	rendererCmd string
	rendererSub string
	envFiles    []string
	verbose     bool
	stdout      io.Writer
	stderr      io.Writer
	stdin       io.Reader
}

// runRoot validates the pre-mutation fatal conditions, then runs the pipeline
// once, in dry-run mode, or under the file watcher.
func runRoot(ctx context.Context, documentArg string, passthrough []string) error {
	if appCfg == nil {
		appCfg = config.DefaultConfig()
	}

	env, err := config.LoadEnv()
	if err != nil {
		reportIssue(issue.MissingEnvVarId)
		return err
	}

	document, err := filepath.Abs(documentArg)
	if err != nil {
		return fmt.Errorf("resolve document path: %w", err)
	}
	info, err := os.Stat(document)
	if err != nil || !info.Mode().IsRegular() {
		reportIssue(issue.DocumentNotFoundId)
		return issue.NewErrorContext().
			WithOperation("open document").
			WithResource(document).
			WithSuggestion("Check the path for typos").
			Wrap(errors.New("not found or not a regular file")).
			BuildError()
	}

	projectDir, err := filepath.Abs(env.ProjectDir)
	if err != nil {
		return fmt.Errorf("resolve project directory: %w", err)
	}
	if info, err := os.Stat(projectDir); err != nil || !info.IsDir() {
		reportIssue(issue.ProjectDirNotFoundId)
		return issue.NewErrorContext().
			WithOperation("open project directory").
			WithResource(projectDir).
			WithSuggestion("Check " + config.EnvProjectDir + " for typos").
			Wrap(errors.New("not found or not a directory")).
			BuildError()
	}

	params := renderParams{
		req: staging.Request{
			Document:   document,
			Patterns:   resourcePatterns,
			ProjectDir: projectDir,
			OutputRel:  env.OutputRel,
		},
		passthrough: passthrough,
		rendererCmd: appCfg.Renderer.Command,
		rendererSub: appCfg.Renderer.Subcommand,
		envFiles:    envFiles,
		verbose:     verbose,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		stdin:       os.Stdin,
	}

	if dryRun {
		return dryRunPlan(params)
	}

	if watchMode {
		return runWatch(ctx, params)
	}

	return renderOnce(ctx, params)
}

// renderOnce executes the full stage/render/retrieve flow for one document.
// Cleanup is deferred the moment the obligation is captured, so every exit
// path - renderer failure, internal error, panic - removes the staged files
// and restores the working directory before the function returns.
func renderOnce(ctx context.Context, p renderParams) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected error: %v", r)
			fmt.Fprintln(p.stderr, ErrorStyle.Render("Error: ")+err.Error())
		}
	}()

	set, warnings, err := staging.Resolve(p.req)
	if err != nil {
		return issue.WrapWithOperation(err, "resolve resources")
	}
	for _, w := range warnings {
		fmt.Fprintln(p.stderr, WarningStyle.Render(w))
	}

	plan, err := staging.BuildPlan(set, p.req.ProjectDir)
	if err != nil {
		if errors.Is(err, staging.ErrCollision) || errors.Is(err, staging.ErrDuplicateTarget) {
			reportIssue(issue.StagingCollisionId)
		}
		return issue.WrapWithOperation(err, "plan staging")
	}

	ob, err := staging.CaptureObligation()
	if err != nil {
		return err
	}
	// Discharge runs last on every path out of this function. A cleanup
	// failure surfaces only when nothing else already went wrong.
	defer func() {
		if cleanupErr := ob.Discharge(p.stdout, p.stderr); cleanupErr != nil && err == nil {
			err = issue.WrapWithOperation(cleanupErr, "clean up project directory")
		}
	}()

	if err := plan.Stage(ob, p.stdout); err != nil {
		return issue.WrapWithOperation(err, "stage files")
	}

	// The renderer runs from inside the project, like a document that
	// actually lives there. Discharge restores the original directory.
	if err := os.Chdir(p.req.ProjectDir); err != nil {
		return fmt.Errorf("enter project directory: %w", err)
	}

	projectOut := filepath.Join(p.req.ProjectDir, p.req.OutputRel)
	if err := staging.ResetOutputDir(projectOut, p.stdout); err != nil {
		return issue.WrapWithOperation(err, "reset output directory")
	}

	overlay := pyenv.Probe(p.req.ProjectDir)
	if overlay != nil && p.verbose {
		fmt.Fprintln(p.stdout, VerboseStyle.Render(fmt.Sprintf("Using virtual environment %q", overlay.Root)))
	}

	subEnv, err := renderer.BuildEnv(os.Environ(), p.envFiles, overlay)
	if err != nil {
		return issue.WrapWithOperation(err, "build renderer environment")
	}

	inv := renderer.New(p.rendererCmd, p.rendererSub, p.stdout, p.stderr, p.stdin)
	res := inv.Render(ctx, p.req.ProjectDir, filepath.Base(p.req.Document), p.passthrough, subEnv)
	if res.Err != nil {
		return issue.WrapWithOperation(res.Err, "invoke renderer")
	}
	if !res.ExitCode.IsSuccess() {
		fmt.Fprintln(p.stderr, ErrorStyle.Render(fmt.Sprintf("Error: %s failed with exit code %d", p.rendererCmd, res.ExitCode)))
		reportIssue(issue.RendererFailedId)
		return &ExitError{Code: res.ExitCode}
	}

	destOut := filepath.Join(filepath.Dir(p.req.Document), p.req.OutputRel)
	moved, err := staging.Retrieve(projectOut, destOut, p.stdout)
	if err != nil {
		return issue.WrapWithOperation(err, "retrieve output")
	}
	if !moved {
		fmt.Fprintln(p.stdout, SubtitleStyle.Render(fmt.Sprintf("No %q produced by %s", p.req.OutputRel, p.rendererCmd)))
		return nil
	}

	fmt.Fprintln(p.stdout, SuccessStyle.Render(fmt.Sprintf("Rendered %s into %s", filepath.Base(p.req.Document), destOut)))
	return nil
}

// dryRunPlan resolves and collision-checks without copying anything.
func dryRunPlan(p renderParams) error {
	set, warnings, err := staging.Resolve(p.req)
	if err != nil {
		return issue.WrapWithOperation(err, "resolve resources")
	}
	for _, w := range warnings {
		fmt.Fprintln(p.stderr, WarningStyle.Render(w))
	}

	plan, err := staging.BuildPlan(set, p.req.ProjectDir)
	if err != nil {
		if errors.Is(err, staging.ErrCollision) || errors.Is(err, staging.ErrDuplicateTarget) {
			reportIssue(issue.StagingCollisionId)
		}
		return issue.WrapWithOperation(err, "plan staging")
	}

	fmt.Fprintln(p.stdout, TitleStyle.Render("Staging plan")+SubtitleStyle.Render(" (dry run, nothing copied)"))
	for _, entry := range plan.Entries {
		fmt.Fprintf(p.stdout, "  %s -> %s\n", entry.Source, entry.Target)
	}
	return nil
}

// runWatch renders once, then re-renders on every debounced change until the
// context is cancelled. Renderer failures are reported but keep the watch
// alive; the process exits zero on clean interruption.
func runWatch(ctx context.Context, p renderParams) error {
	if err := renderOnce(ctx, p); err != nil {
		fmt.Fprintln(p.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, p.verbose))
	}

	w, err := watch.New(watch.Config{
		Document: p.req.Document,
		Patterns: p.req.Patterns,
		Debounce: time.Duration(appCfg.Watch.DebounceMs) * time.Millisecond,
		OnChange: func(ctx context.Context) error {
			return renderOnce(ctx, p)
		},
	})
	if err != nil {
		return issue.WrapWithOperation(err, "start watch mode")
	}

	return w.Run(ctx)
}

// reportIssue renders a catalog issue page to stderr. Rendering problems are
// ignored; the page is advisory and the real error is reported separately.
func reportIssue(id issue.Id) {
	if iss := issue.Get(id); iss != nil {
		if page, err := iss.Render("dark"); err == nil {
			fmt.Fprint(os.Stderr, page)
		}
	}
}
