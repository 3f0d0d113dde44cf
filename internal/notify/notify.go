// Package notify renders transient status messages for the operator.
//
// A Notifier owns a single display slot: each Notify call replaces whatever
// is currently shown. Messages with a positive duration dismiss themselves;
// the dismissal timer belongs to the message that armed it, so a newer
// message is never removed by an older message's timer.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultDuration is how long helper-created notifications stay visible.
const DefaultDuration = 5 * time.Second

// DefaultHistorySize is how many past notifications are retained.
const DefaultHistorySize = 50

// Severity is the level of a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Icon identifies the glyph shown next to a message.
type Icon string

const (
	IconCheck   Icon = "check"
	IconWarning Icon = "warning-triangle"
	IconInfo    Icon = "info-circle"
)

// Icon returns the icon for s. Unknown severities use the info icon.
func (s Severity) Icon() Icon {
	switch s {
	case SeveritySuccess:
		return IconCheck
	case SeverityError, SeverityWarning:
		return IconWarning
	default:
		return IconInfo
	}
}

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// Request asks the Notifier to show a message. A zero Duration keeps the
// message until it is replaced or dismissed.
type Request struct {
	Message  string
	Severity Severity
	Duration time.Duration
}

// Notification is a rendered request.
type Notification struct {
	ID        string        `json:"id"`
	Message   string        `json:"message"`
	Severity  Severity      `json:"severity"`
	Icon      Icon          `json:"icon"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// Sink is the mount point a Notifier renders into. Implementations must not
// call back into the Notifier.
type Sink interface {
	Show(n Notification)
	Clear(id string)
}

// Notifier manages the single visible notification.
type Notifier struct {
	mu          sync.Mutex
	sink        Sink
	current     *Notification
	timer       *time.Timer
	generation  uint64
	history     []Notification
	historySize int
	duration    time.Duration
	now         func() time.Time
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithDefaultDuration sets the duration used by Infof and friends.
func WithDefaultDuration(d time.Duration) Option {
	return func(n *Notifier) {
		if d >= 0 {
			n.duration = d
		}
	}
}

// WithHistorySize sets how many past notifications are kept.
func WithHistorySize(size int) Option {
	return func(n *Notifier) {
		if size > 0 {
			n.historySize = size
		}
	}
}

// New creates a Notifier rendering into sink. A nil sink is allowed: Notify
// is then a no-op until SetSink attaches one.
func New(sink Sink, opts ...Option) *Notifier {
	n := &Notifier{
		sink:        sink,
		historySize: DefaultHistorySize,
		duration:    DefaultDuration,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SetSink attaches (or detaches, with nil) the rendering target.
func (n *Notifier) SetSink(sink Sink) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sink = sink
}

// Notify replaces the visible notification with req. Without a sink the
// request is dropped.
func (n *Notifier) Notify(req Request) {
	if n == nil {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.sink == nil {
		return
	}

	sev := req.Severity
	if !sev.Valid() {
		sev = SeverityInfo
	}

	note := Notification{
		ID:        uuid.NewString(),
		Message:   req.Message,
		Severity:  sev,
		Icon:      sev.Icon(),
		Duration:  req.Duration,
		CreatedAt: n.now(),
	}

	n.stopTimerLocked()
	n.generation++
	n.clearLocked()
	n.current = &note
	n.record(note)
	n.sink.Show(note)

	if req.Duration > 0 {
		gen := n.generation
		n.timer = time.AfterFunc(req.Duration, func() { n.expire(gen) })
	}
}

// expire dismisses the current notification only if it is still the one
// that armed the timer.
func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if gen != n.generation {
		return
	}
	n.clearLocked()
}

// Dismiss removes the visible notification, if any.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.stopTimerLocked()
	n.generation++
	n.clearLocked()
}

func (n *Notifier) clearLocked() {
	if n.current == nil {
		return
	}
	id := n.current.ID
	n.current = nil
	n.timer = nil
	if n.sink != nil {
		n.sink.Clear(id)
	}
}

func (n *Notifier) stopTimerLocked() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *Notifier) record(note Notification) {
	n.history = append(n.history, note)
	if len(n.history) > n.historySize {
		n.history = n.history[len(n.history)-n.historySize:]
	}
}

// Current returns the visible notification.
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

// History returns past notifications, oldest first.
func (n *Notifier) History() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Notification, len(n.history))
	copy(out, n.history)
	return out
}

// Restore seeds the history, e.g. from a previous session.
func (n *Notifier) Restore(history []Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.history = n.history[:0]
	for _, note := range history {
		n.record(note)
	}
}

// Infof shows an info notification for the default duration.
func (n *Notifier) Infof(format string, args ...any) {
	n.notifyf(SeverityInfo, format, args...)
}

// Successf shows a success notification for the default duration.
func (n *Notifier) Successf(format string, args ...any) {
	n.notifyf(SeveritySuccess, format, args...)
}

// Warnf shows a warning notification for the default duration.
func (n *Notifier) Warnf(format string, args ...any) {
	n.notifyf(SeverityWarning, format, args...)
}

// Errorf shows an error notification for the default duration.
func (n *Notifier) Errorf(format string, args ...any) {
	n.notifyf(SeverityError, format, args...)
}

func (n *Notifier) notifyf(sev Severity, format string, args ...any) {
	if n == nil {
		return
	}
	n.Notify(Request{
		Message:  fmt.Sprintf(format, args...),
		Severity: sev,
		Duration: n.duration,
	})
}
