package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/alusim/internal/metrics"
)

// MetricsPanelHeight is the rendered height of the metrics panel
// including its border.
const MetricsPanelHeight = 7

// MetricsModel renders session counters and process health: total
// ticks, completed operations, a smoothed tick rate, heap usage and
// goroutine count.
type MetricsModel struct {
	snap         metrics.MemorySnapshot
	numGoroutine int
	peakRSS      uint64

	sessionTicks uint64
	opsDone      uint64
	rate         float64
	lastTicks    uint64
	lastUpdate   time.Time

	width  int
	height int
}

// NewMetricsModel returns an empty metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{}
}

// UpdateMemStats records a process memory sample.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.snap = msg.Snapshot
	m.numGoroutine = msg.NumGoroutine
}

// UpdatePeakRSS records the process high-water resident set size.
func (m *MetricsModel) UpdatePeakRSS(rss uint64) {
	m.peakRSS = rss
}

// UpdateTicks records the machine tick total and completed operation
// count. The tick rate is smoothed exponentially, weighting history
// at 0.7, and samples closer than 50ms are folded into the next one
// so bursts do not spike the display.
func (m *MetricsModel) UpdateTicks(total, ops uint64) {
	now := time.Now()
	m.sessionTicks = total
	m.opsDone = ops

	if m.lastUpdate.IsZero() || total < m.lastTicks {
		m.lastUpdate = now
		m.lastTicks = total
		return
	}
	dt := now.Sub(m.lastUpdate).Seconds()
	if dt <= 0.05 {
		return
	}
	instant := float64(total-m.lastTicks) / dt
	if m.rate == 0 {
		m.rate = instant
	} else {
		m.rate = m.rate*0.7 + instant*0.3
	}
	m.lastTicks = total
	m.lastUpdate = now
}

// Rate returns the smoothed tick rate in ticks per second.
func (m MetricsModel) Rate() float64 { return m.rate }

// Reset clears the session counters but keeps the memory sample.
func (m *MetricsModel) Reset() {
	m.sessionTicks = 0
	m.opsDone = 0
	m.rate = 0
	m.lastTicks = 0
	m.lastUpdate = time.Time{}
}

// SetSize sets the panel dimensions in terminal cells.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	inner := max(m.width-4, 20)
	colWidth := inner / 2

	heap := fmt.Sprintf("Heap: %s / %s | Peak RSS: %s | GC: %d (%.1fms)",
		formatBytes(m.snap.HeapAlloc), formatBytes(m.snap.HeapSys),
		formatBytes(m.peakRSS),
		m.snap.NumGC, float64(m.snap.PauseTotalNs)/1e6)

	rows := []string{
		truncLine(heap, inner),
		formatMetricCol("Ticks:", formatCount(m.sessionTicks), colWidth) +
			formatMetricCol("Ops:", formatCount(m.opsDone), colWidth),
		formatMetricCol("Rate:", fmt.Sprintf("%.0f t/s", m.rate), colWidth) +
			formatMetricCol("Goroutines:", fmt.Sprintf("%d", m.numGoroutine), colWidth),
	}
	return panelStyle.Width(m.width - 2).Height(m.height - 2).Render(strings.Join(rows, "\n"))
}

// formatMetricCol renders one label/value pair padded to colWidth so
// two columns line up.
func formatMetricCol(label, value string, colWidth int) string {
	cell := metricLabelStyle.Render(label) + " " + metricValueStyle.Render(value)
	if pad := colWidth - lipgloss.Width(cell); pad > 0 {
		return cell + strings.Repeat(" ", pad)
	}
	return cell
}

// formatBytes renders a byte count with a binary unit suffix, capping
// at gigabytes.
func formatBytes(b uint64) string {
	if b < 1<<10 {
		return fmt.Sprintf("%dB", b)
	}
	units := []string{"KB", "MB", "GB"}
	val, i := float64(b)/(1<<10), 0
	for val >= 1<<10 && i < len(units)-1 {
		val /= 1 << 10
		i++
	}
	return fmt.Sprintf("%.1f%s", val, units[i])
}

// formatCount renders an integer with thousand separators.
func formatCount(n uint64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
