package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/sdnctl/internal/format"
	"github.com/rileyhilliard/sdnctl/internal/ui"
)

// historyRows is how many past notifications the help overlay lists.
const historyRows = 5

var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Width(10)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)
)

// renderHelpOverlay renders a centered box with every key binding and the
// most recent notifications.
func (m Model) renderHelpOverlay() string {
	var lines []string
	lines = append(lines, helpTitleStyle.Render("Keyboard Shortcuts"), "")

	for _, group := range m.keys.FullHelp() {
		for _, b := range group {
			h := b.Help()
			lines = append(lines, helpKeyStyle.Render(h.Key)+helpDescStyle.Render(h.Desc))
		}
		lines = append(lines, "")
	}

	if m.history != nil {
		if recent := m.history(); len(recent) > 0 {
			lines = append(lines, helpTitleStyle.Render("Recent Notifications"), "")
			start := max(len(recent)-historyRows, 0)
			for i := len(recent) - 1; i >= start; i-- {
				n := recent[i]
				when := MutedStyle.Render(format.RelativeTime(m.now, n.CreatedAt))
				icon := SeverityStyle(string(n.Severity)).UnsetPadding().Render(ui.IconSymbol(string(n.Icon)))
				lines = append(lines, icon+" "+n.Message+"  "+when)
			}
			lines = append(lines, "")
		}
	}

	lines = append(lines, LabelStyle.Render("Press ? to close"))

	box := helpBoxStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
