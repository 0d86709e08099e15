package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goreads/goreads/internal/release"
)

// newBumpCmds builds one command per increment kind from the dispatch
// table, so a new kind becomes a new command without new wiring.
func newBumpCmds(f *flags) []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(release.Increments))
	for _, inc := range release.Increments {
		cmds = append(cmds, newBumpCmd(f, inc))
	}
	return cmds
}

func newBumpCmd(f *flags, inc release.Increment) *cobra.Command {
	return &cobra.Command{
		Use:   inc.String(),
		Short: fmt.Sprintf("Bump the %s version via the external bumper", inc),
		Long: fmt.Sprintf(`Invokes the configured version bumper once as:

  <tool> <version-file> %s

The tool's output and exit status pass through unchanged; goreads does
not inspect the version file or retry on failure.`, inc.Flag()),
		Example: fmt.Sprintf("  goreads %s", inc),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := resolveCmdContext(cmd.Context(), f.outputMode())
			if err != nil {
				return err
			}
			return RunBump(cmd.Context(), cc, inc)
		},
	}
}

// RunBump dispatches exactly one bump to the external tool.
func RunBump(ctx context.Context, cc *cmdContext, inc release.Increment) error {
	return cc.Bump(ctx, inc)
}
