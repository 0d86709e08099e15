// Package release dispatches version bumps to an external bumper tool.
//
// The dispatcher owns no version logic: it maps an increment kind to a
// fixed argument list, runs the tool once, and propagates whatever the
// tool reports. Parsing and rewriting the version file is entirely the
// tool's job.
package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
)

// Increment is a semantic-version increment kind.
type Increment int

const (
	Major Increment = iota
	Minor
	Patch
)

// Increments lists all known increment kinds in dispatch order.
var Increments = []Increment{Major, Minor, Patch}

// incrementNames is the dispatch table from kind to command name.
// A future kind (e.g. a prerelease bump) is one new entry here.
var incrementNames = map[Increment]string{
	Major: "major",
	Minor: "minor",
	Patch: "patch",
}

// ParseIncrement maps a command name back to its increment kind.
func ParseIncrement(name string) (Increment, error) {
	for inc, n := range incrementNames {
		if n == name {
			return inc, nil
		}
	}
	return 0, fmt.Errorf("unknown increment %q (must be major, minor, or patch)", name)
}

// String returns the command name for the increment.
func (i Increment) String() string {
	if n, ok := incrementNames[i]; ok {
		return n
	}
	return fmt.Sprintf("Increment(%d)", int(i))
}

// Flag returns the bumper CLI flag for the increment ("--major", ...).
func (i Increment) Flag() string {
	return "--" + i.String()
}

// InvocationError is the single error kind surfaced by Dispatch: any
// failure reported by the external bumper, including a missing binary.
// ExitCode is the tool's exit status, or -1 when the tool never ran.
type InvocationError struct {
	Tool     string
	Args     []string
	ExitCode int
	Err      error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invoking %s: %v", e.Tool, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// Bumper invokes the external version-bumper tool.
type Bumper struct {
	// Tool is the bumper binary name or path.
	Tool string
	// TargetFile is the file the tool rewrites, passed as the first
	// positional argument. Constant per Bumper; never inspected here.
	TargetFile string

	// Stdout and Stderr receive the tool's output unmodified. The
	// dispatcher adds no messaging of its own.
	Stdout io.Writer
	Stderr io.Writer

	// run executes the assembled command. Overridable in tests.
	run func(ctx context.Context, tool string, args []string, stdout, stderr io.Writer) error
}

// New creates a Bumper for the given tool and target file.
func New(tool, targetFile string, stdout, stderr io.Writer) *Bumper {
	return &Bumper{
		Tool:       tool,
		TargetFile: targetFile,
		Stdout:     stdout,
		Stderr:     stderr,
		run:        runCommand,
	}
}

// BuildArgs assembles the bumper argument list for an increment:
// the target file followed by exactly one increment flag.
func (b *Bumper) BuildArgs(inc Increment) []string {
	return []string{b.TargetFile, inc.Flag()}
}

// Dispatch invokes the tool exactly once for the given increment.
// There is no pre-check of the target file, no retry, and no
// interpretation of the tool's output; failures come back as an
// *InvocationError carrying the tool's exit status.
func (b *Bumper) Dispatch(ctx context.Context, inc Increment) error {
	args := b.BuildArgs(inc)
	slog.Debug("dispatching version bump", "tool", b.Tool, "args", args)

	if err := b.run(ctx, b.Tool, args, b.Stdout, b.Stderr); err != nil {
		code := -1
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			code = ee.ExitCode()
		}
		return &InvocationError{Tool: b.Tool, Args: args, ExitCode: code, Err: err}
	}
	return nil
}

// runCommand runs the tool as a child process with output passed through.
func runCommand(ctx context.Context, tool string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}
