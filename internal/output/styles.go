package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Shared lipgloss styles for user-facing text.
var (
	BoldStyle   = lipgloss.NewStyle().Bold(true)
	BrandStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	CyanStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	GreenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	YellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	DimStyle    = lipgloss.NewStyle().Faint(true)
)

// SupportsColor reports whether w is a terminal that should receive
// styled output. NO_COLOR always wins.
func SupportsColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
