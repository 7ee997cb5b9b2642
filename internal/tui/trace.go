package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// maxTraceLines bounds the scrollback so long free runs do not grow
// without limit.
const maxTraceLines = 400

// TraceModel renders the scrolling tick trace. Lines are stored as
// plain text and styled at render time from their prefix: "!" marks
// errors, "✓" marks completed operations, "·" marks dim commentary.
type TraceModel struct {
	lines  []string
	offset int
	width  int
	height int
}

// NewTraceModel returns an empty trace panel.
func NewTraceModel() TraceModel {
	return TraceModel{lines: make([]string, 0, 64)}
}

// Add appends a line. When the panel is scrolled back, the viewport
// stays anchored on the lines it was showing.
func (m *TraceModel) Add(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > maxTraceLines {
		drop := len(m.lines) - maxTraceLines
		m.lines = m.lines[drop:]
		m.offset -= drop
		if m.offset < 0 {
			m.offset = 0
		}
	} else if m.offset > 0 {
		m.offset++
	}
	m.clampOffset()
}

// Update handles scroll keys.
func (m *TraceModel) Update(msg tea.KeyMsg, keys KeyMap) {
	page := m.visibleLines() - 1
	if page < 1 {
		page = 1
	}
	switch {
	case key.Matches(msg, keys.Up):
		m.offset++
	case key.Matches(msg, keys.Down):
		m.offset--
	case key.Matches(msg, keys.PageUp):
		m.offset += page
	case key.Matches(msg, keys.PageDown):
		m.offset -= page
	}
	m.clampOffset()
}

// SetSize sets the panel dimensions in terminal cells.
func (m *TraceModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.clampOffset()
}

// Reset clears the scrollback.
func (m *TraceModel) Reset() {
	m.lines = m.lines[:0]
	m.offset = 0
}

// View renders the trace at its configured height.
func (m TraceModel) View() string {
	return m.renderToHeight(m.height)
}

// renderToHeight renders the trace panel at exactly h cells so it can
// be joined against a column of the same height.
func (m TraceModel) renderToHeight(h int) string {
	inner := m.width - 4
	if inner < 10 {
		inner = 10
	}
	visible := h - 3
	if visible < 1 {
		visible = 1
	}

	title := traceTitleStyle.Render("Trace")
	if m.offset > 0 {
		title += traceDimStyle.Render(" (scrolled)")
	}

	var b strings.Builder
	b.WriteString(title)
	end := len(m.lines) - m.offset
	start := end - visible
	if start < 0 {
		start = 0
	}
	for _, line := range m.lines[start:end] {
		b.WriteString("\n")
		b.WriteString(styleTraceLine(truncLine(line, inner)))
	}
	return panelStyle.Width(m.width - 2).Height(h - 2).Render(b.String())
}

func (m TraceModel) visibleLines() int {
	return m.height - 3
}

func (m *TraceModel) clampOffset() {
	max := len(m.lines) - m.visibleLines()
	if max < 0 {
		max = 0
	}
	if m.offset > max {
		m.offset = max
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func styleTraceLine(line string) string {
	switch {
	case strings.HasPrefix(line, "!"):
		return traceErrorStyle.Render(line)
	case strings.HasPrefix(line, "✓"):
		return traceOkStyle.Render(line)
	case strings.HasPrefix(line, "·"):
		return traceDimStyle.Render(line)
	default:
		return traceTextStyle.Render(line)
	}
}
