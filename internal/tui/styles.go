package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/alusim/internal/ui"
)

// Panel styles are package level so every sub-model shares one set.
// initTUIStyles rebuilds them from the active theme; Run calls it
// before the program starts so a late theme change is picked up.
var (
	panelStyle lipgloss.Style

	headerStyle        lipgloss.Style
	headerTitleStyle   lipgloss.Style
	headerVersionStyle lipgloss.Style
	headerElapsedStyle lipgloss.Style

	laneTitleStyle  lipgloss.Style
	laneHeaderStyle lipgloss.Style
	laneActiveStyle lipgloss.Style
	laneIdleStyle   lipgloss.Style
	laneLoadStyle   lipgloss.Style
	laneStepStyle   lipgloss.Style
	laneDoneStyle   lipgloss.Style
	laneFlagStyle   lipgloss.Style

	traceTitleStyle lipgloss.Style
	traceTextStyle  lipgloss.Style
	traceOkStyle    lipgloss.Style
	traceErrorStyle lipgloss.Style
	traceDimStyle   lipgloss.Style

	metricLabelStyle lipgloss.Style
	metricValueStyle lipgloss.Style

	chartTitleStyle lipgloss.Style
	chartBarStyle   lipgloss.Style
	chartEmptyStyle lipgloss.Style
	chartEtaStyle   lipgloss.Style

	cpuSparklineStyle   lipgloss.Style
	memSparklineStyle   lipgloss.Style
	sparklineLabelStyle lipgloss.Style

	footerStyle     lipgloss.Style
	footerKeyStyle  lipgloss.Style
	footerDescStyle lipgloss.Style

	statusIdleStyle    lipgloss.Style
	statusRunStyle     lipgloss.Style
	statusDoneStyle    lipgloss.Style
	statusCompareStyle lipgloss.Style
	statusErrorStyle   lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles derives every panel style from the current theme.
func initTUIStyles() {
	theme := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Accent).
		Padding(0, 1)
	headerTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Accent)
	headerVersionStyle = lipgloss.NewStyle().
		Foreground(theme.Dim)
	headerElapsedStyle = lipgloss.NewStyle().
		Foreground(theme.Text)

	laneTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Accent)
	laneHeaderStyle = lipgloss.NewStyle().
		Foreground(theme.Dim)
	laneActiveStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Accent)
	laneIdleStyle = lipgloss.NewStyle().
		Foreground(theme.Dim)
	laneLoadStyle = lipgloss.NewStyle().
		Foreground(theme.Info)
	laneStepStyle = lipgloss.NewStyle().
		Foreground(theme.Warning)
	laneDoneStyle = lipgloss.NewStyle().
		Foreground(theme.Success)
	laneFlagStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Warning)

	traceTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Accent)
	traceTextStyle = lipgloss.NewStyle().
		Foreground(theme.Text)
	traceOkStyle = lipgloss.NewStyle().
		Foreground(theme.Success)
	traceErrorStyle = lipgloss.NewStyle().
		Foreground(theme.Error)
	traceDimStyle = lipgloss.NewStyle().
		Foreground(theme.Dim)

	metricLabelStyle = lipgloss.NewStyle().
		Foreground(theme.Dim)
	metricValueStyle = lipgloss.NewStyle().
		Foreground(theme.Text)

	chartTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Accent)
	chartBarStyle = lipgloss.NewStyle().
		Foreground(theme.Success)
	chartEmptyStyle = lipgloss.NewStyle().
		Foreground(theme.Dim)
	chartEtaStyle = lipgloss.NewStyle().
		Foreground(theme.Text)

	cpuSparklineStyle = lipgloss.NewStyle().
		Foreground(theme.Info)
	memSparklineStyle = lipgloss.NewStyle().
		Foreground(theme.Warning)
	sparklineLabelStyle = lipgloss.NewStyle().
		Foreground(theme.Dim)

	footerStyle = lipgloss.NewStyle().
		Foreground(theme.Dim).
		Padding(0, 1)
	footerKeyStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Text)
	footerDescStyle = lipgloss.NewStyle().
		Foreground(theme.Dim)

	statusIdleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Dim)
	statusRunStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Success)
	statusDoneStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Info)
	statusCompareStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Warning)
	statusErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Error)
}
