package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/goreads/goreads/internal/output"
)

// style wraps text in lipgloss styles when color is enabled.
type style struct {
	enabled bool
}

func (s style) bold(text string) string {
	if !s.enabled {
		return text
	}
	return output.BoldStyle.Render(text)
}

func (s style) brand(text string) string {
	if !s.enabled {
		return text
	}
	return output.BrandStyle.Render(text)
}

func (s style) cyan(text string) string {
	if !s.enabled {
		return text
	}
	return output.CyanStyle.Render(text)
}

func (s style) green(text string) string {
	if !s.enabled {
		return text
	}
	return output.GreenStyle.Render(text)
}

func (s style) yellow(text string) string {
	if !s.enabled {
		return text
	}
	return output.YellowStyle.Render(text)
}

func (s style) dim(text string) string {
	if !s.enabled {
		return text
	}
	return output.DimStyle.Render(text)
}

// renderRootHelp is the custom help function for the root command,
// grouping subcommands by purpose.
func renderRootHelp(cmd *cobra.Command, _ []string) {
	w := cmd.OutOrStdout()
	s := style{enabled: output.SupportsColor(w)}

	fmt.Fprintf(w, "%s %s %s\n", s.brand("goreads"), s.dim("—"), s.dim("your Goodreads shelf, in the terminal"))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s\n", s.bold("Usage:"))
	fmt.Fprintf(w, "  %s\n", s.dim("goreads <command> [args...]"))
	fmt.Fprintln(w)

	libraryOrder := []string{"fetch", "export", "history"}
	releaseOrder := []string{"major", "minor", "patch"}

	subByName := make(map[string]*cobra.Command)
	for _, sub := range cmd.Commands() {
		subByName[sub.Name()] = sub
	}

	// Padding based on longest command name across both groups.
	maxLen := 0
	for _, names := range [][]string{libraryOrder, releaseOrder} {
		for _, name := range names {
			full := "goreads " + name
			if len(full) > maxLen {
				maxLen = len(full)
			}
		}
	}

	fmt.Fprintf(w, "%s\n", s.bold("Library:"))
	for _, name := range libraryOrder {
		sub, ok := subByName[name]
		if !ok {
			continue
		}
		full := "goreads " + name
		padded := full + strings.Repeat(" ", maxLen-len(full))
		fmt.Fprintf(w, "  %s   %s\n", s.green(padded), s.dim(sub.Short))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s\n", s.bold("Release:"))
	for _, name := range releaseOrder {
		sub, ok := subByName[name]
		if !ok {
			continue
		}
		full := "goreads " + name
		padded := full + strings.Repeat(" ", maxLen-len(full))
		fmt.Fprintf(w, "  %s   %s\n", s.green(padded), s.dim(sub.Short))
	}
	fmt.Fprintln(w)

	if cmd.HasExample() {
		fmt.Fprintf(w, "%s\n", s.bold("Examples:"))
		for _, line := range strings.Split(cmd.Example, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			// Split on # comment, preserving original alignment.
			if idx := strings.Index(trimmed, "#"); idx >= 0 {
				fmt.Fprintf(w, "  %s%s\n", s.yellow(trimmed[:idx]), s.dim(trimmed[idx:]))
			} else {
				fmt.Fprintf(w, "  %s\n", s.yellow(trimmed))
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s\n", s.bold("Flags:"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = fmt.Sprintf("-%s, ", f.Shorthand)
		}
		flagName := fmt.Sprintf("%s--%s", short, f.Name)
		fmt.Fprintf(w, "  %s   %s\n", s.green(rpad(flagName, 16)), s.dim(f.Usage))
	})
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s\n", s.dim("Use \"goreads <command> --help\" for more information about a command."))
	fmt.Fprintf(w, "  %s  %s\n", s.dim("→ First run?"), s.cyan("goreads fetch <user-id>"))
}

// rpad right-pads a string to the given minimum width.
func rpad(s string, minWidth int) string {
	if len(s) >= minWidth {
		return s
	}
	return s + strings.Repeat(" ", minWidth-len(s))
}
