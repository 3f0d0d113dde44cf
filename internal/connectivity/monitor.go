// Package connectivity tracks whether the SDN backend is reachable.
//
// A Monitor probes the backend's health endpoint with a HEAD request on a
// fixed interval and reflects the outcome in an Indicator. At most one probe
// is in flight at a time: a tick that fires while a probe is still
// outstanding is skipped. Probe failures never leave the monitor; they only
// flip the indicator to unreachable.
package connectivity

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/sdnctl/internal/logger"
	"github.com/rileyhilliard/sdnctl/internal/remote"
)

// Defaults for the probe loop.
const (
	DefaultInterval = 30 * time.Second
	DefaultEndpoint = "/api/status"
)

// State is the last known reachability of the backend.
type State struct {
	Reachable     bool
	LastCheckedAt time.Time
	// LastError describes the most recent failed probe.
	LastError string
}

// IndicatorView is the visible form of a State.
type IndicatorView struct {
	Class string
	Label string
	Title string
}

// View returns the indicator contents for s.
func (s State) View() IndicatorView {
	if s.Reachable {
		return IndicatorView{Class: "online", Label: "Connected", Title: "Backend reachable"}
	}
	return IndicatorView{Class: "offline", Label: "Disconnected", Title: "Backend unreachable"}
}

// Indicator receives the state after every completed probe.
type Indicator interface {
	SetConnectivity(State)
}

// IndicatorFunc adapts a function to Indicator.
type IndicatorFunc func(State)

func (f IndicatorFunc) SetConnectivity(s State) { f(s) }

// Monitor owns the process-wide connectivity state.
type Monitor struct {
	caller    remote.Caller
	endpoint  string
	interval  time.Duration
	indicator Indicator
	log       logger.Logger
	now       func() time.Time

	inFlight atomic.Bool

	mu    sync.RWMutex
	state State
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithInterval sets the probe interval.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithEndpoint sets the health endpoint probed with HEAD.
func WithEndpoint(endpoint string) Option {
	return func(m *Monitor) {
		if endpoint != "" {
			m.endpoint = endpoint
		}
	}
}

// WithIndicator sets the indicator updated after each probe.
func WithIndicator(ind Indicator) Option {
	return func(m *Monitor) {
		m.indicator = ind
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Monitor) {
		if l != nil {
			m.log = l
		}
	}
}

// New creates a Monitor. The backend is assumed reachable until the first
// probe completes.
func New(caller remote.Caller, opts ...Option) *Monitor {
	m := &Monitor{
		caller:   caller,
		endpoint: DefaultEndpoint,
		interval: DefaultInterval,
		log:      logger.Noop(),
		now:      time.Now,
		state:    State{Reachable: true},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current connectivity state.
func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Interval returns the probe interval.
func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// Run paints the initial state, probes immediately, then probes every
// interval until ctx is done. Each probe runs on its own goroutine so a slow
// probe does not delay the ticker; the in-flight guard drops overlapping ticks.
func (m *Monitor) Run(ctx context.Context) {
	m.publish(m.State())

	go m.Tick(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go m.Tick(ctx)
		}
	}
}

// Tick runs one probe. It returns false without probing if a previous probe
// is still outstanding.
func (m *Monitor) Tick(ctx context.Context) bool {
	if !m.inFlight.CompareAndSwap(false, true) {
		m.log.Debug("probe still in flight, skipping tick")
		return false
	}
	defer m.inFlight.Store(false)

	defer func() {
		if r := recover(); r != nil {
			m.log.Error("connectivity probe panicked: %v", r)
		}
	}()

	res := m.caller.Call(ctx, m.endpoint, remote.Options{Method: http.MethodHead})
	if ctx.Err() != nil {
		// Shutting down: the outcome says nothing about the backend.
		m.log.Debug("connectivity probe abandoned: %v", ctx.Err())
		return true
	}

	next := State{Reachable: res.OK, LastCheckedAt: m.now()}
	if res.Err != nil {
		next.LastError = res.Err.Error()
	}

	m.mu.Lock()
	prev := m.state
	m.state = next
	m.mu.Unlock()

	if prev.Reachable != next.Reachable {
		if next.Reachable {
			m.log.Info("backend reachable again")
		} else {
			m.log.Warn("backend unreachable: %s", next.LastError)
		}
	}

	m.publish(next)
	return true
}

func (m *Monitor) publish(s State) {
	if m.indicator != nil {
		m.indicator.SetConnectivity(s)
	}
}
