package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// SpinnerState represents the current state of a spinner.
type SpinnerState int

const (
	SpinnerPending SpinnerState = iota
	SpinnerRunning
	SpinnerSuccess
	SpinnerFailed
)

// Spinner shows a one-shot backend action on a single terminal line and
// replaces it with the outcome when the action ends. Writers that are not a
// terminal only get the outcome line.
type Spinner struct {
	mu      sync.Mutex
	w       io.Writer
	label   string
	anim    spinner.Spinner
	animate bool
	state   SpinnerState
	frame   int
	started time.Time
	drawn   int
	stop    chan struct{}
	done    chan struct{}
}

// NewSpinner creates a spinner writing to w.
func NewSpinner(w io.Writer, label string) *Spinner {
	return &Spinner{
		w:       w,
		label:   label,
		anim:    spinner.MiniDot,
		animate: isTerminal(w),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Start begins timing and, on a terminal, the animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == SpinnerRunning {
		return
	}
	s.state = SpinnerRunning
	s.started = time.Now()
	if !s.animate {
		return
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.draw()
	go s.loop(s.stop, s.done)
}

// Success ends the spinner with a check mark. detail, usually the backend's
// message, follows the label.
func (s *Spinner) Success(detail string) {
	s.finish(SpinnerSuccess, detail)
}

// Fail ends the spinner with a cross.
func (s *Spinner) Fail(detail string) {
	s.finish(SpinnerFailed, detail)
}

// State returns the current spinner state.
func (s *Spinner) State() SpinnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Spinner) loop(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.anim.FPS)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.frame = (s.frame + 1) % len(s.anim.Frames)
			s.draw()
			s.mu.Unlock()
		}
	}
}

// draw repaints the running line. Callers hold mu.
func (s *Spinner) draw() {
	color := GradientColors[(s.frame/2)%len(GradientColors)]
	line := lipgloss.NewStyle().Foreground(color).Render(s.anim.Frames[s.frame]) + " " + s.label + "..."
	s.clear()
	fmt.Fprint(s.w, line)
	s.drawn = lipgloss.Width(line)
}

// clear blanks the running line. Callers hold mu.
func (s *Spinner) clear() {
	if s.drawn == 0 {
		return
	}
	fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.drawn)+"\r")
	s.drawn = 0
}

func (s *Spinner) finish(state SpinnerState, detail string) {
	s.mu.Lock()
	if s.state != SpinnerRunning && s.state != SpinnerPending {
		s.mu.Unlock()
		return
	}
	if s.started.IsZero() {
		s.started = time.Now()
	}
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state
	s.clear()

	symbol, color := SymbolSuccess, ColorSuccess
	if state == SpinnerFailed {
		symbol, color = SymbolFail, ColorError
	}
	label := s.label
	if detail != "" {
		label += ": " + detail
	}
	fmt.Fprintf(s.w, "%s %s %s\n",
		lipgloss.NewStyle().Foreground(color).Render(symbol),
		label,
		lipgloss.NewStyle().Foreground(ColorMuted).Render(elapsed(time.Since(s.started))),
	)
}

// elapsed formats action time as "0.04s" or "1.2s".
func elapsed(d time.Duration) string {
	if secs := d.Seconds(); secs < 0.1 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
