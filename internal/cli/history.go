package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goreads/goreads/internal/output"
	"github.com/goreads/goreads/internal/render"
)

func newHistoryCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:     "history <user-id>",
		Short:   "List cached snapshots for a user",
		Example: `  goreads history 12345`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			cc, err := resolveCmdContext(cmd.Context(), f.outputMode())
			if err != nil {
				return err
			}
			return RunHistory(cmd.Context(), cc, userID)
		},
	}
}

// RunHistory lists the cached snapshots for a user, newest first.
func RunHistory(ctx context.Context, cc *cmdContext, userID int) error {
	s, err := cc.OpenStore()
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer s.Close()

	snaps, err := s.ListSnapshots(ctx, userID)
	if err != nil {
		return fmt.Errorf("listing snapshots: %w", err)
	}

	if len(snaps) == 0 {
		cc.Output.Infof("no cached snapshots for user %d", userID)
		cc.Output.Hint(fmt.Sprintf("run: goreads fetch %d", userID))
		return nil
	}

	if cc.Output.Mode() == output.ModeJSON {
		for _, snap := range snaps {
			cc.Output.Infof("snapshot %d: %d books at %s", snap.ID, snap.BookCount, snap.FetchedAt.Format("2006-01-02 15:04"))
		}
		return nil
	}
	render.Snapshots(cc.Output.Out(), userID, snaps)
	return nil
}
