package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	recStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("203"))

	// Meter zones: calm, hot, clipping.
	lowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	midStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("221"))
	highStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	restStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	peakStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230"))
)

// zoneStyle picks the color for a meter cell by its position in the bar.
func zoneStyle(pos, width int) lipgloss.Style {
	switch {
	case pos < width*6/10:
		return lowStyle
	case pos < width*8/10:
		return midStyle
	default:
		return highStyle
	}
}

// levelColor picks the color for a history column by its height.
func levelColor(v float64) lipgloss.Style {
	switch {
	case v < 0.6:
		return lowStyle
	case v < 0.8:
		return midStyle
	default:
		return highStyle
	}
}
