package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/alusim/internal/format"
)

// sparklineMargin is the horizontal space reserved for the panel
// border and the sparkline label column.
const sparklineMargin = 17

// ChartModel renders run progress: an overall progress bar with ETA,
// a braille history of recent progress samples, and CPU/MEM
// sparklines fed by the system monitor.
type ChartModel struct {
	averageProgress float64
	eta             time.Duration
	history         *RingBuffer
	cpuHistory      *RingBuffer
	memHistory      *RingBuffer
	width           int
	height          int
}

// NewChartModel returns an empty chart panel.
func NewChartModel() ChartModel {
	return ChartModel{
		history:    NewRingBuffer(1),
		cpuHistory: NewRingBuffer(1),
		memHistory: NewRingBuffer(1),
	}
}

// SetSize sets the panel dimensions and resizes the sample histories
// to the drawable width.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
	n := w - sparklineMargin
	if n < 1 {
		n = 1
	}
	c.cpuHistory.Resize(n)
	c.memHistory.Resize(n)
	braille := 2 * (w - 6)
	if braille < 1 {
		braille = 1
	}
	c.history.Resize(braille)
}

// AddDataPoint records one progress sample. Values are percentages in
// the 0..100 range.
func (c *ChartModel) AddDataPoint(value, averageProgress float64, eta time.Duration) {
	c.history.Push(value)
	c.averageProgress = averageProgress
	c.eta = eta
}

// UpdateSysStats records a system CPU and memory sample.
func (c *ChartModel) UpdateSysStats(cpuPercent, memPercent float64) {
	c.cpuHistory.Push(cpuPercent)
	c.memHistory.Push(memPercent)
}

// Reset clears the progress state and sample histories.
func (c *ChartModel) Reset() {
	c.averageProgress = 0
	c.eta = 0
	c.history.Reset()
	c.cpuHistory.Reset()
	c.memHistory.Reset()
}

// renderProgressBar renders the bar with its percentage, or an empty
// string when the panel is too narrow for a readable bar.
func (c ChartModel) renderProgressBar() string {
	inner := c.width - 4
	pct := fmt.Sprintf(" %.1f%%", c.averageProgress)
	barW := inner - len(pct)
	if barW < 5 {
		return ""
	}
	filled := int(c.averageProgress / 100 * float64(barW))
	if filled < 0 {
		filled = 0
	}
	if filled > barW {
		filled = barW
	}
	return chartBarStyle.Render(strings.Repeat("█", filled)) +
		chartEmptyStyle.Render(strings.Repeat("░", barW-filled)) +
		chartEtaStyle.Render(pct)
}

// View renders the chart panel. Sparklines need vertical room and are
// dropped on short panels.
func (c ChartModel) View() string {
	var b strings.Builder
	b.WriteString(chartTitleStyle.Render("Progress"))
	b.WriteString("\n")
	if bar := c.renderProgressBar(); bar != "" {
		b.WriteString(bar)
		b.WriteString("\n")
	}
	b.WriteString(chartEtaStyle.Render("ETA: " + format.FormatETA(c.eta)))

	if c.height >= 10 {
		b.WriteString("\n")
		b.WriteString(sparklineLabelStyle.Render("CPU "))
		b.WriteString(cpuSparklineStyle.Render(RenderSparkline(c.cpuHistory.Slice())))
		b.WriteString("\n")
		b.WriteString(sparklineLabelStyle.Render("MEM "))
		b.WriteString(memSparklineStyle.Render(RenderSparkline(c.memHistory.Slice())))

		rows := c.height - 9
		if rows > 3 {
			rows = 3
		}
		if rows >= 2 && c.history.Len() > 1 {
			b.WriteString("\n")
			b.WriteString(chartBarStyle.Render(
				RenderBrailleChart(c.history.Slice(), c.width-6, rows)))
		}
	}
	return panelStyle.Width(c.width - 2).Height(c.height - 2).Render(b.String())
}
