package console

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/sdnctl/internal/ui"
)

// Dashboard color palette
const (
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent = lipgloss.Color("#FF2E97")
	ColorInfo   = lipgloss.Color("#00FFFF")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	CardFocusedStyle = CardStyle.
				BorderForeground(ColorAccent)

	CardTitleStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	OnlineStyle = lipgloss.NewStyle().
			Foreground(ColorHealthy)

	OfflineStyle = lipgloss.NewStyle().
			Foreground(ColorCritical)

	PanelErrorStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	BusyStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	ConfirmStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true).
			Padding(0, 1)
)

// SeverityStyle returns the footer style for a notification severity.
func SeverityStyle(severity string) lipgloss.Style {
	var color lipgloss.Color
	switch severity {
	case "success":
		color = ColorHealthy
	case "error":
		color = ColorCritical
	case "warning":
		color = ColorWarning
	default:
		color = ColorInfo
	}
	return lipgloss.NewStyle().Foreground(color).Padding(0, 1)
}

// Indicator glyphs for the connectivity badge.
const (
	IndicatorOnline  = ui.SymbolComplete
	IndicatorOffline = ui.SymbolOffline
)

// BusyFrames animate running actions in the footer.
var BusyFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
