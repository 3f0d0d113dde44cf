package console

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rileyhilliard/sdnctl/internal/dashboard"
	"github.com/rileyhilliard/sdnctl/internal/errors"
	"github.com/rileyhilliard/sdnctl/internal/notify"
)

func loadedBoard() *dashboard.Board {
	b := dashboard.NewBoard()
	b.SetStatus(dashboard.Status{NetworkRunning: true, DeviceCount: 2})
	b.SetDevices([]dashboard.Device{
		{ID: "of:0000000000000001", Type: "SWITCH", Available: true},
		{ID: "of:0000000000000002", Type: "SWITCH", Available: false},
	})
	b.SetTopologies([]dashboard.Topology{{Name: "linear"}, {Name: "tree"}})
	b.SetFlows([]dashboard.Flow{
		{ID: "flow-1", DeviceID: "of:0000000000000001", Priority: 40000, State: "ADDED", Bytes: 2048, Packets: 12000},
	})
	b.SetSelection(dashboard.Selection{Topology: "tree", FlowSet: "1"})
	b.SetQoS(dashboard.QoS{BandwidthLimits: map[string]string{"gold": "50Mbps", "bronze": "10Mbps"}, OVSOutput: "queue 1: min-rate=50000000"})
	return b
}

func TestView_WaitingForData(t *testing.T) {
	m, _ := newTestModel(Options{BackendURL: "http://sdn:5000"})
	view := m.View()

	assert.Contains(t, view, "sdnctl")
	assert.Contains(t, view, "http://sdn:5000")
	assert.Contains(t, view, "waiting for data")
	assert.Contains(t, view, "loading...")
}

func TestView_LoadedPanels(t *testing.T) {
	m, _ := newTestModel(Options{Board: loadedBoard()})
	m, _ = update(t, m, panelMsg{panel: dashboard.PanelFlows})
	view := m.View()

	assert.Contains(t, view, "Running")
	assert.Contains(t, view, "of:0000000000000001")
	assert.Contains(t, view, "linear")
	assert.Contains(t, view, "▸ tree", "selected topology is marked")
	assert.Contains(t, view, "flow-1")
	assert.Contains(t, view, "2 KB")
	assert.Contains(t, view, "12,000")
	assert.Contains(t, view, "50Mbps")
	assert.Contains(t, view, "updated just now")
	assert.NotContains(t, view, "waiting for data")
}

func TestView_PanelErrorKeepsLastGoodData(t *testing.T) {
	board := loadedBoard()
	board.Fail(dashboard.PanelTopologies, errors.New(errors.ErrHTTP, "backend exploded", ""))

	m, _ := newTestModel(Options{Board: board})
	m, _ = update(t, m, panelMsg{panel: dashboard.PanelTopologies})
	view := m.View()

	assert.Contains(t, view, "backend exploded")
	assert.Contains(t, view, "linear")
}

func TestView_BusyActions(t *testing.T) {
	m, _ := newTestModel(Options{})
	trigger, _ := m.actions.Get("pingall")
	trigger.Control().Disable()

	assert.Contains(t, m.View(), "Ping all hosts...")
}

func TestView_NotificationIcon(t *testing.T) {
	m, _ := newTestModel(Options{})
	m, _ = update(t, m, notificationMsg{note: notify.Notification{
		ID: "n1", Message: "Failed to start network", Severity: notify.SeverityError, Icon: notify.IconWarning,
	}})
	assert.Contains(t, m.View(), "⚠ Failed to start network")
}

func TestRenderDetailContent(t *testing.T) {
	m, _ := newTestModel(Options{Board: loadedBoard()})
	m, _ = update(t, m, panelMsg{panel: dashboard.PanelFlows})

	assert.Contains(t, m.renderDetailContent(), "PRIORITY")
	assert.Contains(t, m.renderDetailContent(), "40000")

	m.detail = dashboard.PanelDevices
	assert.Contains(t, m.renderDetailContent(), "SWITCH")

	m.detail = dashboard.PanelQoS
	assert.Contains(t, m.renderDetailContent(), "min-rate=50000000")
}

func TestRenderDetailContent_Empty(t *testing.T) {
	m, _ := newTestModel(Options{})
	assert.Contains(t, m.renderDetailContent(), "no flow rules")

	m.detail = dashboard.PanelDevices
	assert.Contains(t, m.renderDetailContent(), "no devices")

	m.detail = dashboard.PanelQoS
	assert.Contains(t, m.renderDetailContent(), "no queue information")
}

func TestHelpOverlay_ShowsHistory(t *testing.T) {
	now := time.Now()
	m, _ := newTestModel(Options{
		History: func() []notify.Notification {
			return []notify.Notification{
				{ID: "a", Message: "Network started", Severity: notify.SeveritySuccess, Icon: notify.IconCheck, CreatedAt: now.Add(-5 * time.Minute)},
				{ID: "b", Message: "Ping test failed", Severity: notify.SeverityError, Icon: notify.IconWarning, CreatedAt: now},
			}
		},
	})
	m.now = now
	m.showHelp = true
	view := m.View()

	assert.Contains(t, view, "Recent Notifications")
	assert.Contains(t, view, "Network started")
	assert.Contains(t, view, "5 minutes ago")
	assert.Contains(t, view, "Ping test failed")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "long…", truncate("longer text", 5))
	assert.Equal(t, "…", truncate("abc", 1))
	assert.Equal(t, "", truncate("abc", 0))
}
