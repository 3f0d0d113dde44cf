package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Semantic colors for status indication. ANSI codes keep the output
// readable on light and dark terminals alike.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary lipgloss.Color = "7" // White/default
	ColorMuted   lipgloss.Color = "8" // Gray (bright black)
)

// GradientColors is cycled by the spinner.
var GradientColors = []lipgloss.Color{"5", "4", "6", "2"}

// DisableColors switches lipgloss to monochrome output (for --no-color).
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// SeverityColor maps a notification severity name to a color.
func SeverityColor(severity string) lipgloss.Color {
	switch severity {
	case "success":
		return ColorSuccess
	case "error":
		return ColorError
	case "warning":
		return ColorWarning
	default:
		return ColorInfo
	}
}

// thresholdColor picks a bar color for a "how much is healthy" percentage:
// high is good.
func thresholdColor(percent float64) lipgloss.Color {
	switch {
	case percent >= 80:
		return ColorSuccess
	case percent >= 40:
		return ColorWarning
	default:
		return ColorError
	}
}
