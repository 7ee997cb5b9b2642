package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeaderModel renders the top bar: title, version, bus width and
// elapsed session time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	busWidth  int
	width     int
}

// NewHeaderModel returns a header for a machine of the given bus width.
func NewHeaderModel(version string, busWidth int) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		busWidth:  busWidth,
	}
}

// SetDone freezes the elapsed clock.
func (h *HeaderModel) SetDone() {
	if h.endTime.IsZero() {
		h.endTime = time.Now()
	}
}

// Reset restarts the elapsed clock.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetWidth sets the render width in terminal cells.
func (h *HeaderModel) SetWidth(w int) { h.width = w }

// View renders the header line.
func (h HeaderModel) View() string {
	end := h.endTime
	if end.IsZero() {
		end = time.Now()
	}
	elapsed := end.Sub(h.startTime).Truncate(100 * time.Millisecond)

	title := headerTitleStyle.Render("ALU Simulator")
	if h.version != "" {
		title += " " + headerVersionStyle.Render(h.version)
	}
	left := title + headerVersionStyle.Render(fmt.Sprintf(" | W=%d", h.busWidth))
	right := headerElapsedStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed))

	gap := h.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	line := left + spaces(gap) + right
	return headerStyle.Width(h.width).Render(line)
}

func spaces(n int) string {
	if n < 1 {
		return " "
	}
	return strings.Repeat(" ", n)
}
