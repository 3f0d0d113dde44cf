package notify

import "sync"

// memorySink is an in-memory mount point: Show appends, Clear removes by ID.
// The Notifier is responsible for keeping at most one entry in it.
type memorySink struct {
	mu      sync.Mutex
	visible []Notification
	shown   int
	cleared int
}

func (s *memorySink) Show(n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = append(s.visible, n)
	s.shown++
}

func (s *memorySink) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.visible {
		if n.ID == id {
			s.visible = append(s.visible[:i], s.visible[i+1:]...)
			s.cleared++
			return
		}
	}
}

// Visible returns the notifications currently rendered.
func (s *memorySink) Visible() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, len(s.visible))
	copy(out, s.visible)
	return out
}

// Counts returns how many times Show and Clear took effect.
func (s *memorySink) Counts() (shown, cleared int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shown, s.cleared
}
