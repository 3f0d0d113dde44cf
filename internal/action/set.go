package action

import (
	"context"

	"github.com/rileyhilliard/sdnctl/internal/remote"
)

// Set holds one Trigger per known action.
type Set struct {
	triggers map[string]*Trigger
	order    []string
}

// NewSet builds triggers for every action in All, sharing caller, notifier
// and options.
func NewSet(caller remote.Caller, notifier Notifier, opts ...Option) *Set {
	s := &Set{triggers: make(map[string]*Trigger)}
	for _, def := range All() {
		s.triggers[def.Name] = NewTrigger(def, caller, notifier, opts...)
		s.order = append(s.order, def.Name)
	}
	return s
}

// Get returns the trigger for name.
func (s *Set) Get(name string) (*Trigger, bool) {
	t, ok := s.triggers[name]
	return t, ok
}

// Names returns the action names in display order.
func (s *Set) Names() []string {
	return append([]string(nil), s.order...)
}

// Run runs the named action. Unknown names produce a failed outcome.
func (s *Set) Run(ctx context.Context, name string) Outcome {
	t, ok := s.triggers[name]
	if !ok {
		return Outcome{Action: name, Message: "Unknown action: " + name, Err: errUnknown(name)}
	}
	return t.Run(ctx)
}

// Busy reports whether the named action is currently running.
func (s *Set) Busy(name string) bool {
	t, ok := s.triggers[name]
	return ok && !t.Control().Enabled()
}

type errUnknown string

func (e errUnknown) Error() string {
	return "unknown action " + string(e)
}
