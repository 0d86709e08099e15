package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the goreads version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "goreads %s\n", canonicalVersion(version))
		},
	}
}

// canonicalVersion normalizes the release string for display. A value
// the bumper has not stamped (e.g. "dev") passes through as-is.
func canonicalVersion(version string) string {
	v := version
	if v != "" && v[0] != 'v' {
		v = "v" + v
	}
	if semver.IsValid(v) {
		return semver.Canonical(v)
	}
	return version
}
