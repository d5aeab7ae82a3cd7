// SPDX-License-Identifier: MPL-2.0

package renderer

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

type (
	// Result is the outcome of one renderer invocation.
	Result struct {
		// ExitCode is the renderer's exit status. Non-zero is fatal for the
		// flow and becomes the process exit code.
		ExitCode ExitCode
		// Err is set only when the renderer could not be started at all;
		// a renderer that started and exited non-zero leaves Err nil.
		Err error
	}

	// Invoker runs the external renderer. The zero value is not usable;
	// construct one with New.
	Invoker struct {
		// Command is the renderer binary (e.g., "quarto").
		Command string
		// Subcommand is the render subcommand (e.g., "render").
		Subcommand string
		// Stdout and Stderr receive the subprocess's output streams directly.
		Stdout io.Writer
		Stderr io.Writer
		// Stdin is passed through to the subprocess.
		Stdin io.Reader
	}
)

// New creates an Invoker for the given renderer command and subcommand.
func New(command, subcommand string, stdout, stderr io.Writer, stdin io.Reader) *Invoker {
	return &Invoker{
		Command:    command,
		Subcommand: subcommand,
		Stdout:     stdout,
		Stderr:     stderr,
		Stdin:      stdin,
	}
}

// Render runs the renderer inside projectDir with the staged document's base
// name and the verbatim pass-through arguments, blocking until it exits.
// env is the complete subprocess environment in "KEY=VALUE" form. The call
// blocks indefinitely; cancellation of ctx terminates the subprocess.
func (inv *Invoker) Render(ctx context.Context, projectDir, docName string, passthrough []string, env []string) Result {
	args := make([]string, 0, len(passthrough)+2)
	args = append(args, inv.Subcommand, docName)
	args = append(args, passthrough...)

	fmt.Fprintf(inv.Stdout, "Executing: %s %s\n", inv.Command, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, inv.Command, args...)
	cmd.Dir = projectDir
	cmd.Env = env
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr
	cmd.Stdin = inv.Stdin

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return Result{ExitCode: ExitCode(exitErr.ExitCode())}
		}
		return Result{ExitCode: 1, Err: fmt.Errorf("failed to execute %s: %w", inv.Command, err)}
	}

	return Result{ExitCode: 0}
}
