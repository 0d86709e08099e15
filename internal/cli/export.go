package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goreads/goreads/internal/render"
)

func newExportCmd(f *flags) *cobra.Command {
	var (
		format string
		out    string
		cached bool
	)

	cmd := &cobra.Command{
		Use:   "export <user-id>",
		Short: "Export a user's shelf as JSON, YAML, or CSV",
		Long: `Exports the complete shelf for a Goodreads user to stdout or a file.
With --cached, the latest snapshot is exported without contacting
Goodreads.`,
		Example: `  goreads export 12345 --format csv > books.csv
  goreads export 12345 --format yaml --out books.yaml
  goreads export 12345 --cached`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			exportFormat, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			cc, err := resolveCmdContext(cmd.Context(), f.outputMode())
			if err != nil {
				return err
			}
			return RunExport(cmd.Context(), cc, userID, exportFormat, out, cached)
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "export format: json, yaml, or csv")
	cmd.Flags().StringVar(&out, "out", "", "write to a file instead of stdout")
	cmd.Flags().BoolVar(&cached, "cached", false, "export the latest cached snapshot instead of fetching")
	return cmd
}

// RunExport fetches (or loads) a library and writes it in the given format.
func RunExport(ctx context.Context, cc *cmdContext, userID int, format render.Format, outPath string, cached bool) error {
	lib, err := resolveLibrary(ctx, cc, userID, cached)
	if err != nil {
		return err
	}

	if outPath == "" {
		return render.Export(cc.Output.Out(), lib, format)
	}

	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer file.Close()

	if err := render.Export(file, lib, format); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	cc.Output.Infof("wrote %d books to %s", len(lib.Books), outPath)
	return nil
}
