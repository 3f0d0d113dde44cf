// Package action runs one-shot operator actions against the backend.
//
// Each action is bound to a Control. While the action runs its control is
// disabled, and it is re-enabled exactly once when the run ends, whatever
// the outcome. The result is reported through a Notifier using the message
// the backend returned, or a per-action fallback when it returned none.
package action

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/sdnctl/internal/logger"
	"github.com/rileyhilliard/sdnctl/internal/notify"
	"github.com/rileyhilliard/sdnctl/internal/remote"
)

// StatusSuccess is the response status the backend uses for a successful action.
const StatusSuccess = "success"

// Definition describes a backend action.
type Definition struct {
	Name     string
	Label    string
	Method   string
	Endpoint string
	// Fallback is shown when the action fails and the backend sent no message.
	Fallback string
	// Confirm marks actions that should be confirmed before running.
	Confirm bool
}

var (
	InjectFlows = Definition{
		Name:     "inject_flows",
		Label:    "Inject flow rules",
		Method:   http.MethodPost,
		Endpoint: "/api/inject_flows",
		Fallback: "Failed to inject flow rules",
	}
	InjectFlowSet2 = Definition{
		Name:     "inject_flows_2",
		Label:    "Inject flow rule set 2",
		Method:   http.MethodPost,
		Endpoint: "/api/inject_flows_2",
		Fallback: "Failed to inject flow rule set 2",
	}
	StartNetwork = Definition{
		Name:     "start",
		Label:    "Start network",
		Method:   http.MethodPost,
		Endpoint: "/api/start",
		Fallback: "Failed to start network",
	}
	StopNetwork = Definition{
		Name:     "stop",
		Label:    "Stop network",
		Method:   http.MethodPost,
		Endpoint: "/api/stop",
		Fallback: "Failed to stop network",
		Confirm:  true,
	}
	PingAll = Definition{
		Name:     "pingall",
		Label:    "Ping all hosts",
		Method:   http.MethodGet,
		Endpoint: "/api/pingall",
		Fallback: "Ping test failed",
	}
	Iperf = Definition{
		Name:     "iperf",
		Label:    "iPerf test",
		Method:   http.MethodGet,
		Endpoint: "/api/iperf",
		Fallback: "iPerf test failed",
	}
)

// All returns every known action in display order.
func All() []Definition {
	return []Definition{InjectFlows, InjectFlowSet2, StartNetwork, StopNetwork, PingAll, Iperf}
}

// Lookup finds an action by name.
func Lookup(name string) (Definition, bool) {
	for _, def := range All() {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}

// Response is the JSON shape the backend returns from action endpoints.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Output  string `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Control is the thing that triggers an action: a key binding, a button.
type Control interface {
	// Disable marks the control busy. It returns false if it already was.
	Disable() bool
	Enable()
	Enabled() bool
}

// Switch is the default Control.
type Switch struct {
	disabled atomic.Bool
}

// Disable implements Control.
func (s *Switch) Disable() bool {
	return s.disabled.CompareAndSwap(false, true)
}

// Enable implements Control.
func (s *Switch) Enable() {
	s.disabled.Store(false)
}

// Enabled implements Control.
func (s *Switch) Enabled() bool {
	return !s.disabled.Load()
}

// Notifier receives action outcomes.
type Notifier interface {
	Notify(req notify.Request)
}

// Outcome is what a single run produced.
type Outcome struct {
	Action  string
	Success bool
	Message string
	// Skipped is set when the control was already disabled and nothing ran.
	Skipped bool
	Output  string
	Err     error
}

// Severity returns the notification severity for the outcome.
func (o Outcome) Severity() notify.Severity {
	if o.Success {
		return notify.SeveritySuccess
	}
	return notify.SeverityError
}

// Trigger binds a Definition to a caller, a control and a notifier.
type Trigger struct {
	def      Definition
	caller   remote.Caller
	control  Control
	notifier Notifier
	duration time.Duration
	log      logger.Logger
}

// Option configures a Trigger.
type Option func(*Trigger)

// WithControl replaces the trigger's default Switch.
func WithControl(c Control) Option {
	return func(t *Trigger) {
		if c != nil {
			t.control = c
		}
	}
}

// WithDuration sets how long outcome notifications stay visible.
func WithDuration(d time.Duration) Option {
	return func(t *Trigger) {
		if d >= 0 {
			t.duration = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(t *Trigger) {
		if l != nil {
			t.log = l
		}
	}
}

// NewTrigger creates a Trigger. A nil notifier is allowed; outcomes are then
// only returned.
func NewTrigger(def Definition, caller remote.Caller, notifier Notifier, opts ...Option) *Trigger {
	t := &Trigger{
		def:      def,
		caller:   caller,
		control:  &Switch{},
		notifier: notifier,
		duration: notify.DefaultDuration,
		log:      logger.Noop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Definition returns the action the trigger runs.
func (t *Trigger) Definition() Definition {
	return t.def
}

// Control returns the trigger's control.
func (t *Trigger) Control() Control {
	return t.control
}

// Run performs the action. If the control is already disabled the run is
// skipped. Otherwise the control stays disabled until Run returns.
func (t *Trigger) Run(ctx context.Context) (out Outcome) {
	out.Action = t.def.Name
	if !t.control.Disable() {
		out.Skipped = true
		return out
	}
	defer t.control.Enable()

	defer func() {
		if r := recover(); r != nil {
			t.log.Error("action %s panicked: %v", t.def.Name, r)
			out = Outcome{Action: t.def.Name, Message: t.fallback(), Err: fmt.Errorf("panic: %v", r)}
			t.report(out)
		}
	}()

	out = t.execute(ctx)
	t.report(out)
	return out
}

func (t *Trigger) execute(ctx context.Context) Outcome {
	out := Outcome{Action: t.def.Name}

	res := t.caller.Call(ctx, t.def.Endpoint, remote.Options{Method: t.def.Method})

	var resp Response
	decodeErr := res.Decode(&resp)
	if decodeErr == nil {
		out.Output = resp.Output
	}

	if !res.OK {
		out.Err = res.Error()
		out.Message = t.fallback()
		if decodeErr == nil && resp.Message != "" {
			out.Message = resp.Message
		}
		t.log.Warn("action %s failed: %v", t.def.Name, out.Err)
		return out
	}

	if decodeErr != nil {
		out.Err = decodeErr
		out.Message = t.fallback()
		t.log.Warn("action %s returned an unreadable response: %v", t.def.Name, decodeErr)
		return out
	}

	if resp.Status != StatusSuccess {
		out.Message = resp.Message
		if out.Message == "" {
			out.Message = t.fallback()
		}
		out.Err = fmt.Errorf("%s: backend status %q", t.def.Name, resp.Status)
		t.log.Warn("action %s rejected: %s", t.def.Name, out.Message)
		return out
	}

	out.Success = true
	out.Message = resp.Message
	if out.Message == "" {
		out.Message = t.def.Label + " completed"
	}
	t.log.Info("action %s succeeded: %s", t.def.Name, out.Message)
	return out
}

func (t *Trigger) fallback() string {
	if t.def.Fallback != "" {
		return t.def.Fallback
	}
	return t.def.Label + " failed"
}

func (t *Trigger) report(out Outcome) {
	if t.notifier == nil {
		return
	}
	t.notifier.Notify(notify.Request{
		Message:  out.Message,
		Severity: out.Severity(),
		Duration: t.duration,
	})
}
