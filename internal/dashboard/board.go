// Package dashboard holds the console's view of backend state.
//
// The Board is a snapshot of every panel. Refresh operations write to it
// independently; a failed refresh keeps the panel's last good data and
// records the error next to it.
package dashboard

import (
	"sync"
	"time"
)

// PanelState is the freshness of one panel.
type PanelState struct {
	Loaded    bool
	UpdatedAt time.Time
	Err       error
}

// Snapshot is a copy of the board at one point in time.
type Snapshot struct {
	Status     Status
	Devices    []Device
	Topologies []Topology
	Flows      []Flow
	Selection  Selection
	QoS        QoS
	Panels     map[Panel]PanelState
}

// Panel returns the state of p.
func (s Snapshot) Panel(p Panel) PanelState {
	return s.Panels[p]
}

// LastUpdated returns the most recent successful refresh of any panel.
func (s Snapshot) LastUpdated() time.Time {
	var latest time.Time
	for _, st := range s.Panels {
		if st.UpdatedAt.After(latest) {
			latest = st.UpdatedAt
		}
	}
	return latest
}

// AvailableDevices counts devices reported as available.
func (s Snapshot) AvailableDevices() int {
	n := 0
	for _, d := range s.Devices {
		if d.Available {
			n++
		}
	}
	return n
}

// ChangeFunc is called after a panel changes, outside the board lock.
type ChangeFunc func(Panel)

// Board is safe for concurrent use.
type Board struct {
	mu       sync.RWMutex
	snap     Snapshot
	onChange ChangeFunc
	now      func() time.Time
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{
		snap: Snapshot{Panels: make(map[Panel]PanelState)},
		now:  time.Now,
	}
}

// OnChange registers fn to be called on every panel change.
func (b *Board) OnChange(fn ChangeFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = fn
}

// Snapshot returns a copy of the board.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := b.snap
	out.Devices = append([]Device(nil), b.snap.Devices...)
	out.Topologies = append([]Topology(nil), b.snap.Topologies...)
	out.Flows = append([]Flow(nil), b.snap.Flows...)
	if b.snap.QoS.BandwidthLimits != nil {
		out.QoS.BandwidthLimits = make(map[string]string, len(b.snap.QoS.BandwidthLimits))
		for k, v := range b.snap.QoS.BandwidthLimits {
			out.QoS.BandwidthLimits[k] = v
		}
	}
	out.Panels = make(map[Panel]PanelState, len(b.snap.Panels))
	for k, v := range b.snap.Panels {
		out.Panels[k] = v
	}
	return out
}

// SetStatus records a status refresh.
func (b *Board) SetStatus(st Status) {
	b.update(PanelStatus, func(s *Snapshot) { s.Status = st })
}

// SetDevices records a devices refresh.
func (b *Board) SetDevices(devices []Device) {
	b.update(PanelDevices, func(s *Snapshot) { s.Devices = devices })
}

// SetTopologies records a topologies refresh.
func (b *Board) SetTopologies(topologies []Topology) {
	b.update(PanelTopologies, func(s *Snapshot) { s.Topologies = topologies })
}

// SetFlows records a flows refresh.
func (b *Board) SetFlows(flows []Flow) {
	b.update(PanelFlows, func(s *Snapshot) { s.Flows = flows })
}

// SetSelection records a selection refresh.
func (b *Board) SetSelection(sel Selection) {
	b.update(PanelSelection, func(s *Snapshot) { s.Selection = sel })
}

// SetQoS records a QoS refresh.
func (b *Board) SetQoS(q QoS) {
	b.update(PanelQoS, func(s *Snapshot) { s.QoS = q })
}

// Fail records a failed refresh of p. The panel's data is left untouched.
func (b *Board) Fail(p Panel, err error) {
	b.mu.Lock()
	st := b.snap.Panels[p]
	st.Err = err
	b.snap.Panels[p] = st
	fn := b.onChange
	b.mu.Unlock()

	if fn != nil {
		fn(p)
	}
}

func (b *Board) update(p Panel, apply func(*Snapshot)) {
	b.mu.Lock()
	apply(&b.snap)
	b.snap.Panels[p] = PanelState{Loaded: true, UpdatedAt: b.now()}
	fn := b.onChange
	b.mu.Unlock()

	if fn != nil {
		fn(p)
	}
}
