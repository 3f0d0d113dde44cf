package console

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/sdnctl/internal/action"
	"github.com/rileyhilliard/sdnctl/internal/connectivity"
	"github.com/rileyhilliard/sdnctl/internal/dashboard"
	"github.com/rileyhilliard/sdnctl/internal/notify"
)

// clockInterval drives the "updated N ago" text and the busy animation.
const clockInterval = time.Second

// Layout constants.
const (
	defaultWidth  = 100
	defaultHeight = 32
	minDetailRows = 3
	// chromeRows is everything that isn't the detail pane: header, two card
	// rows, the detail card border and title, footer lines.
	chromeRows = 22
)

// Options wires a Model to the rest of the console.
type Options struct {
	Context    context.Context
	BackendURL string
	Board      *dashboard.Board
	Actions    *action.Set
	// Refresh starts a refresh of every panel; the channel closes when done.
	Refresh func(ctx context.Context) <-chan struct{}
	// Events carries bridge messages.
	Events <-chan tea.Msg
	// History returns recent notifications, newest last.
	History func() []notify.Notification
	// Dismiss removes the visible notification.
	Dismiss func()

	// Selection is the initially selected topology.
	Selection string
	// OnSelect persists a new topology selection.
	OnSelect func(topology string)

	// Detail is the initial detail pane.
	Detail dashboard.Panel
	// OnDetail persists the detail pane choice.
	OnDetail func(panel dashboard.Panel)
}

// Model is the Bubble Tea model for the SDN dashboard.
type Model struct {
	ctx        context.Context
	backendURL string
	board      *dashboard.Board
	actions    *action.Set
	refresh    func(ctx context.Context) <-chan struct{}
	events     <-chan tea.Msg
	history    func() []notify.Notification
	dismiss    func()
	onSelect   func(string)
	onDetail   func(dashboard.Panel)

	snap       dashboard.Snapshot
	conn       connectivity.State
	note       *notify.Notification
	selection  string
	detail     dashboard.Panel
	detailPane viewport.Model
	keys       KeyMap
	help       help.Model

	width      int
	height     int
	frame      int
	now        time.Time
	refreshing bool
	confirm    string
	showHelp   bool
	quitting   bool
}

// Messages produced by the model's own commands.
type (
	clockMsg       time.Time
	actionDoneMsg  struct{ out action.Outcome }
	refreshDoneMsg struct{}
	persistedMsg   struct{}
)

// NewModel creates the dashboard model.
func NewModel(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	board := opts.Board
	if board == nil {
		board = dashboard.NewBoard()
	}
	detail := opts.Detail
	if !validDetail(detail) {
		detail = dashboard.PanelFlows
	}

	m := Model{
		ctx:        ctx,
		backendURL: opts.BackendURL,
		board:      board,
		actions:    opts.Actions,
		refresh:    opts.Refresh,
		events:     opts.Events,
		history:    opts.History,
		dismiss:    opts.Dismiss,
		onSelect:   opts.OnSelect,
		onDetail:   opts.OnDetail,
		snap:       board.Snapshot(),
		conn:       connectivity.State{Reachable: true},
		selection:  opts.Selection,
		detail:     detail,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		width:      defaultWidth,
		height:     defaultHeight,
		now:        time.Now(),
	}
	m.detailPane = viewport.New(m.width-4, m.detailRows())
	m.syncDetail()
	return m
}

func validDetail(p dashboard.Panel) bool {
	for _, d := range detailPanels {
		if d == p {
			return true
		}
	}
	return false
}

// Init starts listening for events and the clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		listen(m.events),
		m.clockCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.detailPane.Width = max(m.width-4, 10)
		m.detailPane.Height = m.detailRows()
		m.syncDetail()

	case clockMsg:
		m.now = time.Time(msg)
		m.frame = (m.frame + 1) % len(BusyFrames)
		return m, m.clockCmd()

	case notificationMsg:
		note := msg.note
		m.note = &note
		return m, listen(m.events)

	case clearNotificationMsg:
		if m.note != nil && m.note.ID == msg.id {
			m.note = nil
		}
		return m, listen(m.events)

	case connectivityMsg:
		m.conn = msg.state
		return m, listen(m.events)

	case panelMsg:
		m.snap = m.board.Snapshot()
		if m.selection == "" && len(m.snap.Topologies) > 0 {
			m.selection = m.snap.Selection.Topology
		}
		m.syncDetail()
		return m, listen(m.events)

	case actionDoneMsg:
		// Actions that change backend state are followed by a refresh so the
		// panels reflect the result.
		if msg.out.Success && changesState(msg.out.Action) {
			return m, m.refreshCmd()
		}

	case refreshDoneMsg:
		m.refreshing = false
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

func (m Model) clockCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

func (m *Model) runAction(name string) tea.Cmd {
	if m.actions == nil {
		return nil
	}
	actions, ctx := m.actions, m.ctx
	return func() tea.Msg {
		return actionDoneMsg{out: actions.Run(ctx, name)}
	}
}

func (m *Model) refreshCmd() tea.Cmd {
	if m.refresh == nil || m.refreshing {
		return nil
	}
	m.refreshing = true
	refresh, ctx := m.refresh, m.ctx
	return func() tea.Msg {
		<-refresh(ctx)
		return refreshDoneMsg{}
	}
}

func (m *Model) cycleTopology() tea.Cmd {
	next := dashboard.NextTopology(m.snap.Topologies, m.selection)
	if next == "" || next == m.selection {
		return nil
	}
	m.selection = next
	if m.onSelect == nil {
		return nil
	}
	onSelect := m.onSelect
	return func() tea.Msg {
		onSelect(next)
		return persistedMsg{}
	}
}

func (m *Model) persistDetail() tea.Cmd {
	if m.onDetail == nil {
		return nil
	}
	onDetail, detail := m.onDetail, m.detail
	return func() tea.Msg {
		onDetail(detail)
		return persistedMsg{}
	}
}

// syncDetail re-renders the detail pane content from the snapshot.
func (m *Model) syncDetail() {
	m.detailPane.SetContent(m.renderDetailContent())
}

func (m Model) detailRows() int {
	rows := m.height - chromeRows
	if rows < minDetailRows {
		return minDetailRows
	}
	return rows
}

// changesState reports whether a successful run of the named action alters
// what the panels show.
func changesState(name string) bool {
	switch name {
	case action.InjectFlows.Name, action.InjectFlowSet2.Name,
		action.StartNetwork.Name, action.StopNetwork.Name:
		return true
	}
	return false
}

// Selection returns the selected topology.
func (m Model) Selection() string {
	return m.selection
}

// Detail returns the panel shown in the detail pane.
func (m Model) Detail() dashboard.Panel {
	return m.detail
}
