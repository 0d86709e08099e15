package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goreads/goreads/internal/output"
	"github.com/goreads/goreads/internal/release"
)

// displayedError wraps an error that has already been printed to the user.
// Execute() checks for this to avoid double-printing.
type displayedError struct {
	err error
}

func (e *displayedError) Error() string { return e.err.Error() }
func (e *displayedError) Unwrap() error { return e.err }

// displayed wraps an error to mark it as already shown to the user.
func displayed(err error) error {
	if err == nil {
		return nil
	}
	return &displayedError{err: err}
}

// flags holds per-invocation flag state (no package globals).
type flags struct {
	json    bool
	quiet   bool
	verbose bool
}

func (f *flags) outputMode() output.Mode {
	if f.json {
		return output.ModeJSON
	}
	if f.quiet {
		return output.ModeQuiet
	}
	return output.ModeText
}

// Execute runs the CLI with the given version and args. Returns exit code.
func Execute(version string, args []string) int {
	root := newRootCmd(version)
	root.SetArgs(args)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return exitCode(root.ExecuteContext(ctx))
}

// exitCode maps an execution error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	// A bumper that ran and failed already printed its own diagnostics;
	// pass its exit status through untouched.
	var ie *release.InvocationError
	if errors.As(err, &ie) && ie.ExitCode >= 0 {
		return ie.ExitCode
	}

	// If the error was already displayed inline, don't print again.
	var de *displayedError
	if !errors.As(err, &de) {
		output.New(output.ModeText).Error(err.Error(), "")
	}
	return 1
}

func newRootCmd(version string) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "goreads",
		Short: "Fetch and explore a Goodreads library from the terminal",
		Long: `goreads pulls a user's "read" shelf from Goodreads into a local
snapshot database, renders it as a table, and exports it as JSON, YAML,
or CSV. The release commands bump the project version through an
external version-bumper tool.`,
		Example: `  goreads fetch 12345           # fetch and display a user's shelf
  goreads fetch 12345 --cached  # re-display the latest snapshot
  goreads export 12345 --format csv > books.csv
  goreads history 12345         # list cached snapshots
  goreads patch                 # bump the patch version`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			output.SetupSlog(f.verbose)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().BoolVarP(&f.json, "json", "j", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&f.quiet, "quiet", "q", false, "suppress goreads messages, show only results")
	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newFetchCmd(f),
		newExportCmd(f),
		newHistoryCmd(f),
		newVersionCmd(version),
	)
	root.AddCommand(newBumpCmds(f)...)

	// Grouped help for the root command only; subcommands keep the
	// default renderer.
	defaultHelp := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd == root {
			renderRootHelp(cmd, args)
			return
		}
		defaultHelp(cmd, args)
	})

	return root
}
