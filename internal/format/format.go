// Package format converts backend metrics and timestamps into the short,
// human-readable strings shown on the dashboard. Everything here is pure.
package format

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

// Bytes renders n using 1024-based units, with up to two decimals and
// trailing zeros dropped ("1.5 KB", "2 MB").
func Bytes(n int64) string {
	if n == 0 {
		return "0 B"
	}

	neg := n < 0
	v := math.Abs(float64(n))

	i := int(math.Floor(math.Log(v) / math.Log(1024)))
	if i < 0 {
		i = 0
	}
	if i >= len(byteUnits) {
		i = len(byteUnits) - 1
	}

	scaled := math.Round(v/math.Pow(1024, float64(i))*100) / 100
	s := humanize.FtoaWithDigits(scaled, 2) + " " + byteUnits[i]
	if neg {
		return "-" + s
	}
	return s
}

// Bandwidth renders a rate given in Mbps, switching to Gbps at 1000.
func Bandwidth(mbps float64) string {
	if mbps >= 1000 {
		return fmt.Sprintf("%.1f Gbps", mbps/1000)
	}
	return fmt.Sprintf("%.1f Mbps", mbps)
}

// Latency renders a duration given in milliseconds. Sub-millisecond values
// are shown in microseconds.
func Latency(ms float64) string {
	if ms < 1 {
		return fmt.Sprintf("%.0f μs", ms*1000)
	}
	return fmt.Sprintf("%.1f ms", ms)
}

// TimestampLayout is the layout used by Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp renders t in local time.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(TimestampLayout)
}

// RelativeTime describes how long before now t happened, at minute
// granularity: "Just now", "5 minutes ago", "1 hour ago", "3 days ago".
func RelativeTime(now, t time.Time) string {
	diff := now.Sub(t)

	mins := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / (24 * time.Hour))

	switch {
	case mins < 1:
		return "Just now"
	case mins < 60:
		return fmt.Sprintf("%d %s ago", mins, plural(mins, "minute"))
	case hours < 24:
		return fmt.Sprintf("%d %s ago", hours, plural(hours, "hour"))
	default:
		return fmt.Sprintf("%d %s ago", days, plural(days, "day"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

// Count renders an integer with thousands separators.
func Count(n int64) string {
	return humanize.Comma(n)
}

// Percent returns value as a percentage of max, clamped to [0, 100].
// A non-positive max yields 0.
func Percent(value, max float64) float64 {
	if max <= 0 {
		return 0
	}
	p := value / max * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// NetworkStatusView is the display form of the emulated network's run state.
type NetworkStatusView struct {
	Text    string
	Icon    string
	Healthy bool
}

// NetworkStatus maps the backend's running flag to its display form.
func NetworkStatus(running bool) NetworkStatusView {
	if running {
		return NetworkStatusView{Text: "Running", Icon: "✓", Healthy: true}
	}
	return NetworkStatusView{Text: "Stopped", Icon: "✗", Healthy: false}
}
