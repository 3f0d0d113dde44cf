package ui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestSpinner_Success(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	var buf bytes.Buffer
	s := NewSpinner(&buf, "Inject flow rules")
	assert.Equal(t, SpinnerPending, s.State())

	s.Start()
	assert.Equal(t, SpinnerRunning, s.State())
	s.Success("Flow rules injected successfully")

	assert.Equal(t, SpinnerSuccess, s.State())
	assert.True(t, strings.HasPrefix(buf.String(), SymbolSuccess+" Inject flow rules: Flow rules injected successfully "))
	assert.True(t, strings.HasSuffix(buf.String(), "s\n"))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "no animation on a non-terminal writer")
}

func TestSpinner_Fail(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	var buf bytes.Buffer
	s := NewSpinner(&buf, "Stop network")
	s.Start()
	s.Fail("Network is not running")

	assert.Equal(t, SpinnerFailed, s.State())
	assert.Contains(t, buf.String(), SymbolFail+" Stop network: Network is not running")
}

func TestSpinner_FinishOnce(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Ping all hosts")
	s.Success("")
	s.Fail("late")

	assert.Equal(t, SpinnerSuccess, s.State())
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.NotContains(t, buf.String(), "late")
}

func TestSpinner_Animates(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "Run iperf")
	s.animate = true

	s.Start()
	s.Start()
	time.Sleep(3 * s.anim.FPS)
	s.Success("done")

	out := buf.String()
	assert.Contains(t, out, "Run iperf...")
	assert.Contains(t, out, "\r")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestIconSymbol(t *testing.T) {
	assert.Equal(t, SymbolSuccess, IconSymbol("check"))
	assert.Equal(t, SymbolWarning, IconSymbol("warning-triangle"))
	assert.Equal(t, SymbolInfo, IconSymbol("info-circle"))
	assert.Equal(t, SymbolInfo, IconSymbol("unknown"))
}

func TestSeverityColor(t *testing.T) {
	assert.Equal(t, ColorSuccess, SeverityColor("success"))
	assert.Equal(t, ColorError, SeverityColor("error"))
	assert.Equal(t, ColorWarning, SeverityColor("warning"))
	assert.Equal(t, ColorInfo, SeverityColor("info"))
	assert.Equal(t, ColorInfo, SeverityColor("bogus"))
}

func TestRenderProgressBar(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	assert.Equal(t, "", RenderProgressBar(50, 0))
	assert.Equal(t, "█████░░░░░  50%", RenderProgressBar(50, 10))
	assert.Equal(t, "██▌░░░░░░░  25%", RenderProgressBar(25, 10))
	assert.Equal(t, "██████████ 100%", RenderProgressBar(150, 10))
	assert.Equal(t, "░░░░░░░░░░   0%", RenderProgressBar(-5, 10))
}

func TestRenderKeyValues(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := RenderKeyValues([]KeyValue{
		{Key: "Network", Value: "Running"},
		{Key: "Devices", Value: "6"},
		{Key: "Backend URL", Value: "http://localhost:5000"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "  Network      Running", lines[0])
	assert.Equal(t, "  Backend URL  http://localhost:5000", lines[2])
}

func TestRenderSimpleTable(t *testing.T) {
	assert.Equal(t, "", RenderSimpleTable([]TableColumn{{Title: "ID", Width: 4}}, nil))

	out := RenderSimpleTable(
		[]TableColumn{{Title: "ID", Width: 6}, {Title: "STATE", Width: 8}},
		[][]string{{"42", "ADDED"}},
	)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "ADDED")
}

func TestDisableColors(t *testing.T) {
	DisableColors()
	out := lipgloss.NewStyle().Foreground(ColorError).Render("plain")
	assert.Equal(t, "plain", out)
}
