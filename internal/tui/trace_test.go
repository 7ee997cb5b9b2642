package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTraceModel_AddAndRender(t *testing.T) {
	m := NewTraceModel()
	m.SetSize(40, 10)
	m.Add("· panel ready")
	m.Add("   1  load   0/8")
	m.Add("✓ add done in 10 ticks")

	view := m.View()
	if !strings.Contains(view, "Trace") {
		t.Error("View() missing the panel title")
	}
	if !strings.Contains(view, "panel ready") {
		t.Error("View() missing the first line")
	}
	if !strings.Contains(view, "done in 10 ticks") {
		t.Error("View() missing the last line")
	}
}

func TestTraceModel_WindowShowsTail(t *testing.T) {
	m := NewTraceModel()
	m.SetSize(40, 8)
	for i := 0; i < 50; i++ {
		m.Add(fmt.Sprintf("line %d", i))
	}

	view := m.View()
	if !strings.Contains(view, "line 49") {
		t.Error("tail line missing from the follow view")
	}
	if strings.Contains(view, "line 0 ") {
		t.Error("head line should have scrolled out")
	}
}

func TestTraceModel_Scroll(t *testing.T) {
	m := NewTraceModel()
	m.SetSize(40, 8)
	keys := DefaultKeyMap()
	for i := 0; i < 50; i++ {
		m.Add(fmt.Sprintf("line %d", i))
	}

	up := tea.KeyMsg{Type: tea.KeyUp}
	for i := 0; i < 10; i++ {
		m.Update(up, keys)
	}
	if m.offset != 10 {
		t.Errorf("offset = %d, want 10", m.offset)
	}
	view := m.View()
	if strings.Contains(view, "line 49") {
		t.Error("scrolled view still shows the tail")
	}
	if !strings.Contains(view, "(scrolled)") {
		t.Error("scrolled view missing its marker")
	}

	down := tea.KeyMsg{Type: tea.KeyDown}
	for i := 0; i < 100; i++ {
		m.Update(down, keys)
	}
	if m.offset != 0 {
		t.Errorf("offset = %d, want 0 after scrolling back down", m.offset)
	}
}

func TestTraceModel_ScrollClamps(t *testing.T) {
	m := NewTraceModel()
	m.SetSize(40, 8)
	keys := DefaultKeyMap()
	m.Add("only line")

	m.Update(tea.KeyMsg{Type: tea.KeyPgUp}, keys)
	if m.offset != 0 {
		t.Errorf("offset = %d, want 0 with nothing to scroll", m.offset)
	}
}

func TestTraceModel_ScrollbackAnchored(t *testing.T) {
	m := NewTraceModel()
	m.SetSize(40, 8)
	keys := DefaultKeyMap()
	for i := 0; i < 20; i++ {
		m.Add(fmt.Sprintf("line %d", i))
	}

	m.Update(tea.KeyMsg{Type: tea.KeyUp}, keys)
	before := m.offset
	m.Add("line 20")
	if m.offset != before+1 {
		t.Errorf("offset = %d, want %d so the viewport stays put", m.offset, before+1)
	}
}

func TestTraceModel_CapsScrollback(t *testing.T) {
	m := NewTraceModel()
	m.SetSize(40, 8)
	for i := 0; i < maxTraceLines+50; i++ {
		m.Add(fmt.Sprintf("line %d", i))
	}

	if len(m.lines) != maxTraceLines {
		t.Errorf("scrollback holds %d lines, want %d", len(m.lines), maxTraceLines)
	}
	if m.lines[0] != "line 50" {
		t.Errorf("oldest kept line = %q, want line 50", m.lines[0])
	}
}

func TestTraceModel_Reset(t *testing.T) {
	m := NewTraceModel()
	m.Add("line")
	m.Reset()
	if len(m.lines) != 0 || m.offset != 0 {
		t.Error("Reset left state behind")
	}
}

func TestTraceModel_RenderToHeight(t *testing.T) {
	m := NewTraceModel()
	m.SetSize(40, 8)
	m.Add("one line")

	out := m.renderToHeight(12)
	if got := strings.Count(out, "\n") + 1; got != 12 {
		t.Errorf("rendered %d lines, want 12", got)
	}
}
