package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Panel status labels shown in the footer chip.
const (
	StatusIdle    = "IDLE"
	StatusStep    = "STEP"
	StatusRun     = "RUN"
	StatusDone    = "DONE"
	StatusCompare = "COMPARE"
	StatusError   = "ERROR"
)

// FooterModel renders the bottom bar: key hints on the left and the
// panel status chip on the right.
type FooterModel struct {
	width  int
	status string
}

// NewFooterModel returns a footer in the idle state.
func NewFooterModel() FooterModel {
	return FooterModel{status: StatusIdle}
}

// SetWidth sets the render width in terminal cells.
func (f *FooterModel) SetWidth(w int) { f.width = w }

// SetStatus sets the status chip label.
func (f *FooterModel) SetStatus(status string) { f.status = status }

// Status returns the current chip label.
func (f FooterModel) Status() string { return f.status }

// View renders the footer line.
func (f FooterModel) View() string {
	hints := f.renderHints()
	chip := f.renderStatus()

	gap := f.width - lipgloss.Width(hints) - lipgloss.Width(chip) - 2
	return footerStyle.Width(f.width).Render(hints + spaces(gap) + chip)
}

func (f FooterModel) renderHints() string {
	pairs := [][2]string{
		{"space", "step"},
		{"s", "run"},
		{"r", "reset"},
		{"tab", "op"},
		{"+/-", "a"},
		{"</>", "b"},
		{"x", "compare"},
		{"q", "quit"},
	}
	out := ""
	for i, p := range pairs {
		if i > 0 {
			out += footerDescStyle.Render(" · ")
		}
		out += footerKeyStyle.Render(p[0]) + footerDescStyle.Render(" "+p[1])
	}
	return out
}

func (f FooterModel) renderStatus() string {
	switch f.status {
	case StatusRun, StatusStep:
		return statusRunStyle.Render(f.status)
	case StatusDone:
		return statusDoneStyle.Render(f.status)
	case StatusCompare:
		return statusCompareStyle.Render(f.status)
	case StatusError:
		return statusErrorStyle.Render(f.status)
	default:
		return statusIdleStyle.Render(f.status)
	}
}
