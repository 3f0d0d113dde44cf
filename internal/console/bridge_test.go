package console

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sdnctl/internal/connectivity"
	"github.com/rileyhilliard/sdnctl/internal/dashboard"
	"github.com/rileyhilliard/sdnctl/internal/notify"
)

func TestBridge_DeliversEvents(t *testing.T) {
	b := NewBridge(context.Background(), 8)

	b.Show(notify.Notification{ID: "n1", Message: "hello"})
	b.Clear("n1")
	b.SetConnectivity(connectivity.State{Reachable: false})
	b.PanelChanged(dashboard.PanelFlows)

	cmd := listen(b.Events())
	require.NotNil(t, cmd)

	assert.Equal(t, notificationMsg{note: notify.Notification{ID: "n1", Message: "hello"}}, cmd())
	assert.Equal(t, clearNotificationMsg{id: "n1"}, cmd())
	assert.Equal(t, connectivityMsg{state: connectivity.State{Reachable: false}}, cmd())
	assert.Equal(t, panelMsg{panel: dashboard.PanelFlows}, cmd())
}

func TestBridge_DefaultBuffer(t *testing.T) {
	b := NewBridge(context.Background(), 0)
	assert.Equal(t, DefaultEventBuffer, cap(b.events))
}

func TestBridge_SendGivesUpAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := NewBridge(ctx, 1)
	b.PanelChanged(dashboard.PanelStatus)

	done := make(chan struct{})
	go func() {
		b.PanelChanged(dashboard.PanelDevices)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("send blocked after context was cancelled")
	}
}

func TestBridge_ImplementsSinkAndIndicator(t *testing.T) {
	var _ notify.Sink = (*Bridge)(nil)
	var _ connectivity.Indicator = (*Bridge)(nil)
}

func TestListen(t *testing.T) {
	assert.Nil(t, listen(nil))

	events := make(chan tea.Msg, 1)
	close(events)
	cmd := listen(events)
	require.NotNil(t, cmd)
	assert.Nil(t, cmd(), "a closed channel yields no message")
}
