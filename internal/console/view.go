package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/sdnctl/internal/action"
	"github.com/rileyhilliard/sdnctl/internal/dashboard"
	"github.com/rileyhilliard/sdnctl/internal/errors"
	"github.com/rileyhilliard/sdnctl/internal/format"
	"github.com/rileyhilliard/sdnctl/internal/ui"
)

// maxListRows caps the device and topology lists in the summary cards.
const maxListRows = 5

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	third := m.cardWidth(3)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderNetworkCard(third),
		m.renderDevicesCard(third),
		m.renderTopologiesCard(third),
	))
	b.WriteString("\n")

	b.WriteString(m.renderDetailCard())
	b.WriteString("\n")

	half := m.cardWidth(2)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderQoSCard(half),
		m.renderSelectionCard(half),
	))
	b.WriteString("\n")

	b.WriteString(m.renderFooter())
	return b.String()
}

// cardWidth splits the terminal width into n cards, accounting for borders.
func (m Model) cardWidth(n int) int {
	w := m.width/n - 2
	if w < 20 {
		return 20
	}
	return w
}

// renderHeader renders the title, connectivity indicator and freshness.
func (m Model) renderHeader() string {
	title := TitleStyle.Render("sdnctl")

	view := m.conn.View()
	var indicator string
	if m.conn.Reachable {
		indicator = OnlineStyle.Render(IndicatorOnline + " " + view.Label)
	} else {
		indicator = OfflineStyle.Render(IndicatorOffline + " " + view.Label)
	}

	updated := "waiting for data"
	if last := m.snap.LastUpdated(); !last.IsZero() {
		updated = "updated " + strings.ToLower(format.RelativeTime(m.now, last))
	}
	if m.refreshing {
		updated = "refreshing..."
	}

	stats := LabelStyle.Render(fmt.Sprintf(" | %s | %s", m.backendURL, updated))
	return HeaderStyle.Render(title + " " + indicator + stats)
}

// card renders a bordered panel. A refresh error is appended below the
// content, which keeps showing the last good data.
func card(title string, body string, width int, state dashboard.PanelState, focused bool) string {
	var b strings.Builder
	b.WriteString(CardTitleStyle.Render(title))
	b.WriteString("\n")

	switch {
	case !state.Loaded && state.Err == nil:
		b.WriteString(MutedStyle.Render("loading..."))
	default:
		b.WriteString(body)
	}

	if state.Err != nil {
		b.WriteString("\n")
		b.WriteString(PanelErrorStyle.Render(ui.SymbolWarning + " " + truncate(errors.Summary(state.Err), width-4)))
	}

	style := CardStyle
	if focused {
		style = CardFocusedStyle
	}
	return style.Width(width).Render(b.String())
}

func (m Model) renderNetworkCard(width int) string {
	st := m.snap.Status
	ns := format.NetworkStatus(st.NetworkRunning)

	statusStyle := OfflineStyle
	if ns.Healthy {
		statusStyle = OnlineStyle
	}

	lines := []string{
		LabelStyle.Render("Network  ") + statusStyle.Render(ns.Icon+" "+ns.Text),
		LabelStyle.Render("Devices  ") + ValueStyle.Render(format.Count(int64(st.DeviceCount))),
	}

	if total := len(m.snap.Devices); total > 0 {
		pct := format.Percent(float64(m.snap.AvailableDevices()), float64(total))
		lines = append(lines, LabelStyle.Render("Online   ")+ui.RenderProgressBar(pct, max(width-18, 4)))
	}

	return card("Network", strings.Join(lines, "\n"), width, m.snap.Panel(dashboard.PanelStatus), false)
}

func (m Model) renderDevicesCard(width int) string {
	devices := m.snap.Devices
	var lines []string
	if len(devices) == 0 {
		lines = append(lines, MutedStyle.Render("no devices"))
	}
	for i, d := range devices {
		if i == maxListRows {
			lines = append(lines, MutedStyle.Render(fmt.Sprintf("+%d more (tab)", len(devices)-maxListRows)))
			break
		}
		glyph := OfflineStyle.Render(IndicatorOffline)
		if d.Available {
			glyph = OnlineStyle.Render(IndicatorOnline)
		}
		lines = append(lines, glyph+" "+truncate(d.ID, width-4))
	}
	return card("Devices", strings.Join(lines, "\n"), width, m.snap.Panel(dashboard.PanelDevices), false)
}

func (m Model) renderTopologiesCard(width int) string {
	tops := m.snap.Topologies
	var lines []string
	if len(tops) == 0 {
		lines = append(lines, MutedStyle.Render("no topologies"))
	}
	for i, t := range tops {
		if i == maxListRows {
			lines = append(lines, MutedStyle.Render(fmt.Sprintf("+%d more", len(tops)-maxListRows)))
			break
		}
		marker := "  "
		style := LabelStyle
		if t.Name == m.selection {
			marker = "▸ "
			style = ValueStyle.Bold(true)
		}
		lines = append(lines, marker+style.Render(truncate(t.Name, width-4)))
	}
	return card("Topologies", strings.Join(lines, "\n"), width, m.snap.Panel(dashboard.PanelTopologies), false)
}

func (m Model) renderQoSCard(width int) string {
	q := m.snap.QoS
	classes := q.Classes()
	var lines []string
	if len(classes) == 0 {
		lines = append(lines, MutedStyle.Render("no limits"))
	}
	for _, class := range classes {
		lines = append(lines, LabelStyle.Render(fmt.Sprintf("%-14s", class))+ValueStyle.Render(q.BandwidthLimits[class]))
	}
	return card("QoS limits", strings.Join(lines, "\n"), width, m.snap.Panel(dashboard.PanelQoS), false)
}

func (m Model) renderSelectionCard(width int) string {
	sel := m.snap.Selection
	value := func(s string) string {
		if s == "" {
			return MutedStyle.Render("none")
		}
		return ValueStyle.Render(s)
	}
	lines := []string{
		LabelStyle.Render("Topology  ") + value(sel.Topology),
		LabelStyle.Render("Flow set  ") + value(sel.FlowSet),
		LabelStyle.Render("Selected  ") + value(m.selection),
	}
	return card("Selection", strings.Join(lines, "\n"), width, m.snap.Panel(dashboard.PanelSelection), false)
}

// renderDetailCard renders the scrollable pane.
func (m Model) renderDetailCard() string {
	var title string
	switch m.detail {
	case dashboard.PanelDevices:
		title = fmt.Sprintf("Devices (%s)", format.Count(int64(len(m.snap.Devices))))
	case dashboard.PanelQoS:
		title = "QoS queues"
	default:
		title = fmt.Sprintf("Flow rules (%s)", format.Count(int64(len(m.snap.Flows))))
	}
	return card(title, m.detailPane.View(), m.width-2, m.snap.Panel(m.detail), true)
}

// renderDetailContent builds the text shown inside the detail viewport.
func (m Model) renderDetailContent() string {
	switch m.detail {
	case dashboard.PanelDevices:
		return renderDeviceRows(m.snap.Devices)
	case dashboard.PanelQoS:
		if m.snap.QoS.OVSOutput == "" {
			return MutedStyle.Render("no queue information")
		}
		return m.snap.QoS.OVSOutput
	default:
		return renderFlowRows(m.snap.Flows)
	}
}

func renderFlowRows(flows []dashboard.Flow) string {
	if len(flows) == 0 {
		return MutedStyle.Render("no flow rules")
	}
	var b strings.Builder
	b.WriteString(LabelStyle.Render(fmt.Sprintf("%-18s %-22s %8s %-10s %10s %10s", "ID", "DEVICE", "PRIORITY", "STATE", "BYTES", "PACKETS")))
	for _, f := range flows {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%-18s %-22s %8d %-10s %10s %10s",
			truncate(f.ID, 18), truncate(f.DeviceID, 22), f.Priority, truncate(f.State, 10),
			format.Bytes(f.Bytes), format.Count(f.Packets)))
	}
	return b.String()
}

func renderDeviceRows(devices []dashboard.Device) string {
	if len(devices) == 0 {
		return MutedStyle.Render("no devices")
	}
	var b strings.Builder
	b.WriteString(LabelStyle.Render(fmt.Sprintf("   %-24s %-8s %-8s %s", "ID", "TYPE", "ROLE", "SOFTWARE")))
	for _, d := range devices {
		glyph := OfflineStyle.Render(IndicatorOffline)
		if d.Available {
			glyph = OnlineStyle.Render(IndicatorOnline)
		}
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf(" %s %-24s %-8s %-8s %s", glyph, truncate(d.ID, 24), d.Type, d.Role, d.SW))
	}
	return b.String()
}

// renderFooter renders the notification slot, then key hints or a pending
// confirmation.
func (m Model) renderFooter() string {
	var lines []string

	if m.note != nil {
		style := SeverityStyle(string(m.note.Severity))
		lines = append(lines, style.Render(ui.IconSymbol(string(m.note.Icon))+" "+m.note.Message))
	} else {
		lines = append(lines, "")
	}

	if busy := m.busyActions(); len(busy) > 0 {
		frame := BusyFrames[m.frame%len(BusyFrames)]
		lines = append(lines, BusyStyle.Render(" "+frame+" "+strings.Join(busy, ", ")+"..."))
	}

	if m.confirm != "" {
		def, _ := action.Lookup(m.confirm)
		lines = append(lines, ConfirmStyle.Render(def.Label+"? (y/n)"))
	} else {
		lines = append(lines, FooterStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	}

	return strings.Join(lines, "\n")
}

// busyActions returns the labels of running actions.
func (m Model) busyActions() []string {
	if m.actions == nil {
		return nil
	}
	var busy []string
	for _, name := range m.actions.Names() {
		if m.actions.Busy(name) {
			def, _ := action.Lookup(name)
			busy = append(busy, def.Label)
		}
	}
	return busy
}

// truncate shortens s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
