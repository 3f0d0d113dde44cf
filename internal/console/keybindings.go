package console

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/sdnctl/internal/action"
	"github.com/rileyhilliard/sdnctl/internal/dashboard"
)

// KeyMap holds every dashboard key binding.
type KeyMap struct {
	Inject     key.Binding
	Inject2    key.Binding
	Start      key.Binding
	Stop       key.Binding
	Ping       key.Binding
	Iperf      key.Binding
	Refresh    key.Binding
	Topology   key.Binding
	NextDetail key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Dismiss    key.Binding
	Help       key.Binding
	Quit       key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Inject:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "inject flows")),
		Inject2:    key.NewBinding(key.WithKeys("I"), key.WithHelp("I", "inject set 2")),
		Start:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start network")),
		Stop:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop network")),
		Ping:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "ping all")),
		Iperf:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "iperf")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Topology:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "next topology")),
		NextDetail: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch detail")),
		ScrollUp:   key.NewBinding(key.WithKeys("up", "k", "pgup"), key.WithHelp("↑/k", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("down", "j", "pgdown"), key.WithHelp("↓/j", "scroll down")),
		Dismiss:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Confirm:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
		Cancel:     key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "cancel")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Inject, k.Start, k.Stop, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Inject, k.Inject2, k.Start, k.Stop, k.Ping, k.Iperf},
		{k.Refresh, k.Topology, k.NextDetail, k.ScrollUp, k.ScrollDown},
		{k.Dismiss, k.Help, k.Quit},
	}
}

// actionFor returns the action bound to msg.
func (k KeyMap) actionFor(msg tea.KeyMsg) (string, bool) {
	switch {
	case key.Matches(msg, k.Inject):
		return action.InjectFlows.Name, true
	case key.Matches(msg, k.Inject2):
		return action.InjectFlowSet2.Name, true
	case key.Matches(msg, k.Start):
		return action.StartNetwork.Name, true
	case key.Matches(msg, k.Stop):
		return action.StopNetwork.Name, true
	case key.Matches(msg, k.Ping):
		return action.PingAll.Name, true
	case key.Matches(msg, k.Iperf):
		return action.Iperf.Name, true
	}
	return "", false
}

// detailPanels are the panels the detail pane can show, in tab order.
var detailPanels = []dashboard.Panel{dashboard.PanelFlows, dashboard.PanelDevices, dashboard.PanelQoS}

// nextDetail returns the panel after p in tab order.
func nextDetail(p dashboard.Panel) dashboard.Panel {
	for i, d := range detailPanels {
		if d == p {
			return detailPanels[(i+1)%len(detailPanels)]
		}
	}
	return detailPanels[0]
}

// HandleKeyMsg processes keyboard input and returns the command to run.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	// A pending confirmation swallows every key.
	if m.confirm != "" {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			name := m.confirm
			m.confirm = ""
			return true, m.runAction(name)
		case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
			m.confirm = ""
		}
		return true, nil
	}

	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key.Matches(msg, m.keys.Dismiss) {
		m.showHelp = false
		return true, nil
	}

	if name, ok := m.keys.actionFor(msg); ok {
		def, _ := action.Lookup(name)
		if m.actions == nil || m.actions.Busy(name) {
			return true, nil
		}
		if def.Confirm {
			m.confirm = name
			return true, nil
		}
		return true, m.runAction(name)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return true, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		return true, m.refreshCmd()

	case key.Matches(msg, m.keys.Topology):
		return true, m.cycleTopology()

	case key.Matches(msg, m.keys.NextDetail):
		m.detail = nextDetail(m.detail)
		m.syncDetail()
		m.detailPane.GotoTop()
		return true, m.persistDetail()

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.detailPane, cmd = m.detailPane.Update(msg)
		return true, cmd

	case key.Matches(msg, m.keys.Dismiss):
		if m.dismiss == nil || m.note == nil {
			return true, nil
		}
		// The notifier renders back into this model, so it is called off
		// the update loop.
		dismiss := m.dismiss
		return true, func() tea.Msg {
			dismiss()
			return nil
		}
	}

	return false, nil
}
