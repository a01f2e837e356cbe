package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles derived from a theme.
type palette struct {
	header   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	plot     lipgloss.Style
	current  lipgloss.Style
	desired  lipgloss.Style
	help     lipgloss.Style
	muted    lipgloss.Style
	panel    lipgloss.Style
	canvas   lipgloss.Style
	selected lipgloss.Style
	running  lipgloss.Style
	paused   lipgloss.Style
	done     lipgloss.Style
	failed   lipgloss.Style
}

func newPalette(t Theme) palette {
	return palette{
		header:   lipgloss.NewStyle().Foreground(t.Header).Bold(true).MarginBottom(1),
		label:    lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:    lipgloss.NewStyle().Foreground(t.Text),
		plot:     lipgloss.NewStyle().Foreground(t.Plot),
		current:  lipgloss.NewStyle().Foreground(t.Current).Bold(true),
		desired:  lipgloss.NewStyle().Foreground(t.Desired).Bold(true),
		help:     lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		muted:    lipgloss.NewStyle().Foreground(t.Muted),
		panel:    lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Border).Padding(1, 2).Width(46),
		canvas:   lipgloss.NewStyle().Foreground(t.Plot).Padding(1, 2),
		selected: lipgloss.NewStyle().Foreground(t.Current).Bold(true),
		running:  lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		paused:   lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		done:     lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		failed:   lipgloss.NewStyle().Foreground(t.Error).Bold(true),
	}
}

// ProgressBar renders fraction in [0, 1] as a bar of width cells.
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Separator is a muted horizontal rule.
func Separator(width int) string {
	if width < 8 {
		return strings.Repeat("─", width)
	}
	mid := width / 2
	return strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3)
}
