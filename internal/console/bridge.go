package console

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/sdnctl/internal/connectivity"
	"github.com/rileyhilliard/sdnctl/internal/dashboard"
	"github.com/rileyhilliard/sdnctl/internal/notify"
)

// DefaultEventBuffer is the bridge's queue length.
const DefaultEventBuffer = 64

// Messages delivered from background components.
type (
	notificationMsg      struct{ note notify.Notification }
	clearNotificationMsg struct{ id string }
	connectivityMsg      struct{ state connectivity.State }
	panelMsg             struct{ panel dashboard.Panel }
)

// Bridge forwards notifier, connectivity and board events into the Bubble
// Tea loop. It implements notify.Sink and connectivity.Indicator.
//
// Sends block while the queue is full and give up once ctx is done, so a
// quitting program never strands a background goroutine.
type Bridge struct {
	events chan tea.Msg
	done   <-chan struct{}
}

// NewBridge creates a bridge that stops delivering when ctx is done.
func NewBridge(ctx context.Context, buffer int) *Bridge {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	return &Bridge{
		events: make(chan tea.Msg, buffer),
		done:   ctx.Done(),
	}
}

// Events returns the channel the model listens on.
func (b *Bridge) Events() <-chan tea.Msg {
	return b.events
}

// Show implements notify.Sink.
func (b *Bridge) Show(n notify.Notification) {
	b.send(notificationMsg{note: n})
}

// Clear implements notify.Sink.
func (b *Bridge) Clear(id string) {
	b.send(clearNotificationMsg{id: id})
}

// SetConnectivity implements connectivity.Indicator.
func (b *Bridge) SetConnectivity(s connectivity.State) {
	b.send(connectivityMsg{state: s})
}

// PanelChanged is registered with dashboard.Board.OnChange.
func (b *Bridge) PanelChanged(p dashboard.Panel) {
	b.send(panelMsg{panel: p})
}

func (b *Bridge) send(msg tea.Msg) {
	select {
	case b.events <- msg:
	case <-b.done:
	}
}

// listen returns a command that waits for the next bridge event.
func listen(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}
