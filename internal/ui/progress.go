package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// partialBlocks hold eighth-width fills, so a narrow card still shows
// small changes in the ratio.
var partialBlocks = []string{"▏", "▎", "▍", "▌", "▋", "▊", "▉"}

// RenderProgressBar renders percent (clamped to 0-100) as a bar of width
// cells followed by the percentage, e.g. "██▌░░░░░░░  25%". The filled part
// is colored green, yellow or red as the ratio drops.
func RenderProgressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	percent = math.Max(0, math.Min(100, percent))

	eighths := int(percent / 100 * float64(width*8))
	full, rem := eighths/8, eighths%8

	var fill strings.Builder
	fill.WriteString(strings.Repeat("█", full))
	used := full
	if rem > 0 {
		fill.WriteString(partialBlocks[rem-1])
		used++
	}

	filled := lipgloss.NewStyle().Foreground(thresholdColor(percent)).Render(fill.String())
	empty := lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat("░", width-used))
	return filled + empty + fmt.Sprintf(" %3.0f%%", percent)
}
