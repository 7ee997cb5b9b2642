package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/alusim/internal/seq"
)

// LanesPanelHeight is the rendered height of the lane panel including
// its border. The body holds a title, the input bus line, a column
// header and one row per controller.
const LanesPanelHeight = 9

// LanesModel renders the controller lanes: one row per sequential
// unit with its phase, step counter, partial registers and latches.
type LanesModel struct {
	views   []seq.ControllerView
	active  string
	inputs  string
	width   int
	height  int
	busHex  int
}

// NewLanesModel returns a lane panel for the given bus width.
func NewLanesModel(busWidth int) LanesModel {
	return LanesModel{busHex: (busWidth + 3) / 4}
}

// SetViews replaces the controller snapshots. The active name marks
// the lane currently driven by the panel opcode.
func (m *LanesModel) SetViews(views []seq.ControllerView, active string) {
	m.views = views
	m.active = active
}

// SetInputs sets the input bus line rendered above the lanes.
func (m *LanesModel) SetInputs(line string) { m.inputs = line }

// SetSize sets the panel dimensions in terminal cells.
func (m *LanesModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// View renders the lane table.
func (m LanesModel) View() string {
	inner := m.width - 4
	if inner < 20 {
		inner = 20
	}

	// Fixed columns: marker(2) unit(5) phase(5) steps(7) flag(2)
	// done(2) plus separators. The rest splits between the two buses.
	hexW := m.busHex
	maxHex := (inner - 29) / 2
	if maxHex < 4 {
		maxHex = 4
	}
	if hexW > maxHex {
		hexW = maxHex
	}

	var b strings.Builder
	b.WriteString(laneTitleStyle.Render("Controllers"))
	b.WriteString("\n")
	b.WriteString(traceDimStyle.Render(truncLine(m.inputs, inner)))
	b.WriteString("\n")
	b.WriteString(laneHeaderStyle.Render(fmt.Sprintf(
		"  %-5s %-5s %-7s %-*s %-*s %s %s",
		"UNIT", "PHASE", "STEP", hexW+2, "HIGH", hexW+2, "LOW", "F", "D")))
	for _, v := range m.views {
		b.WriteString("\n")
		b.WriteString(m.renderLane(v, hexW))
	}
	return panelStyle.Width(m.width - 2).Height(m.height - 2).Render(b.String())
}

func (m LanesModel) renderLane(v seq.ControllerView, hexW int) string {
	marker := "  "
	if v.Name == m.active {
		marker = laneActiveStyle.Render("► ")
	}
	phase := phaseStyle(v.Phase).Render(fmt.Sprintf("%-5s", v.Phase))
	steps := fmt.Sprintf("%3d/%-3d", v.Count, v.Steps)
	high := "0x" + truncHex(v.High.Hex(), hexW)
	low := "0x" + truncHex(v.Low.Hex(), hexW)
	flag := "·"
	if v.Flag {
		flag = laneFlagStyle.Render("F")
	}
	done := "·"
	if v.Done {
		done = laneDoneStyle.Render("D")
	}
	// 28 fixed cells plus the two bus columns; hexW is capped so the
	// row always fits the panel.
	return fmt.Sprintf("%s%-5s %s %-7s %-*s %-*s %s %s",
		marker, v.Name, phase, steps, hexW+2, high, hexW+2, low, flag, done)
}

func phaseStyle(p seq.Phase) lipgloss.Style {
	switch p {
	case seq.PhaseLoad:
		return laneLoadStyle
	case seq.PhaseStep:
		return laneStepStyle
	case seq.PhaseDone:
		return laneDoneStyle
	default:
		return laneIdleStyle
	}
}

// truncHex shortens a hex literal to max digits, replacing the middle
// with ".." so both ends stay visible.
func truncHex(s string, max int) string {
	if len(s) <= max || max < 4 {
		return s
	}
	head := (max - 2) / 2
	tail := max - 2 - head
	return s[:head] + ".." + s[len(s)-tail:]
}

// truncLine clips a plain line to width cells. Callers style the
// result afterwards; clipping styled text would cut escape sequences.
func truncLine(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width < 1 {
		return ""
	}
	return string(runes[:width])
}
