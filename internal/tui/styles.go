package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette (256-color).
var (
	clrBrand  = lipgloss.Color("35")  // green
	clrMuted  = lipgloss.Color("245") // gray
	clrSubtle = lipgloss.Color("242") // darker gray
	clrRed    = lipgloss.Color("203")
	clrCyan   = lipgloss.Color("81")
	clrYellow = lipgloss.Color("220")
)

var (
	brand   = lipgloss.NewStyle().Foreground(clrBrand).Bold(true)
	muted   = lipgloss.NewStyle().Foreground(clrMuted)
	subtle  = lipgloss.NewStyle().Foreground(clrSubtle)
	red     = lipgloss.NewStyle().Foreground(clrRed)
	cyan    = lipgloss.NewStyle().Foreground(clrCyan)
	yellow  = lipgloss.NewStyle().Foreground(clrYellow)
	keyword = lipgloss.NewStyle().Foreground(clrBrand)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(clrSubtle).
			Padding(0, 1)
)

func prompt(label string) string {
	return brand.Render(label+">") + " "
}

func dim(text string) string {
	return subtle.Render(text)
}

// colorEnabled reports whether color output is wanted.
func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return strings.ToLower(strings.TrimSpace(os.Getenv("TERM"))) != "dumb"
}
