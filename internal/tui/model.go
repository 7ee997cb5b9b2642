// Package tui implements the interactive front panel: a bubbletea
// dashboard that steps a sequential ALU machine tick by tick, shows
// the controller lanes, a tick trace, session metrics and progress,
// and can run a background engine comparison without leaving the
// panel.
//
// The panel drives the low 64 bits of each operand; wider buses work,
// with the nudge keys acting on the low word.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/alusim/internal/bitvec"
	"github.com/agbru/alusim/internal/comb"
	"github.com/agbru/alusim/internal/config"
	"github.com/agbru/alusim/internal/engine"
	apperrors "github.com/agbru/alusim/internal/errors"
	"github.com/agbru/alusim/internal/format"
	"github.com/agbru/alusim/internal/metrics"
	"github.com/agbru/alusim/internal/orchestration"
	"github.com/agbru/alusim/internal/seq"
	"github.com/agbru/alusim/internal/sysmon"
)

// Layout constants in terminal cells.
const (
	headerHeight  = 1
	footerHeight  = 1
	minBodyHeight = 4

	// TracePanelWidthPercent is the share of the terminal width given
	// to the trace panel; the metrics and chart column takes the rest.
	TracePanelWidthPercent = 60
)

// tickInterval paces the panel clock. Free runs advance one machine
// tick per interval, slow enough to watch the phases move.
const tickInterval = 200 * time.Millisecond

// panelGeometry computes section dimensions from the terminal size.
type panelGeometry struct {
	width  int
	height int
}

func (g panelGeometry) bodyHeight() int {
	return max(g.height-headerHeight-LanesPanelHeight-footerHeight, minBodyHeight)
}

func (g panelGeometry) traceWidth() int {
	return g.width * TracePanelWidthPercent / 100
}

func (g panelGeometry) rightWidth() int {
	return g.width - g.traceWidth()
}

func (g panelGeometry) metricsHeight() int {
	return min(MetricsPanelHeight, g.bodyHeight()/2)
}

func (g panelGeometry) chartHeight() int {
	return g.bodyHeight() - g.metricsHeight()
}

// RunState holds the machine-interaction state of a panel session.
type RunState struct {
	machine   *seq.Machine
	op        comb.Opcode
	a, b      uint64
	shiftDir  comb.Direction
	shiftFill bool

	runActive bool
	freeRun   bool
	runStart  uint64
	runBegan  time.Time
	opsDone   uint64
	comparing bool
	exitCode  int
}

// Model is the root bubbletea model composing the panel sections.
type Model struct {
	header  HeaderModel
	lanes   LanesModel
	trace   TraceModel
	metrics MetricsModel
	chart   ChartModel
	footer  FooterModel

	keymap KeyMap

	RunState
	panelGeometry

	parentCtx context.Context
	registry  *engine.Registry
	config    config.AppConfig
	panel     *panelHandle
}

// NewModel builds the panel from a validated configuration. The
// machine is created fresh at the configured width; the opcode and
// operands seed from the same request the CLI would run.
func NewModel(parentCtx context.Context, registry *engine.Registry, cfg config.AppConfig, version string) (Model, error) {
	machine, err := seq.New(cfg.Width)
	if err != nil {
		return Model{}, err
	}
	req, err := cfg.ToRequest()
	if err != nil {
		return Model{}, err
	}

	m := Model{
		header:    NewHeaderModel(version, cfg.Width),
		lanes:     NewLanesModel(cfg.Width),
		trace:     NewTraceModel(),
		metrics:   NewMetricsModel(),
		chart:     NewChartModel(),
		footer:    NewFooterModel(),
		keymap:    DefaultKeyMap(),
		parentCtx: parentCtx,
		registry:  registry,
		config:    cfg,
		panel:     &panelHandle{},
	}
	m.machine = machine
	m.op = req.Opcode
	m.a = req.A.Uint64()
	if req.Opcode.IsShift() {
		spec := comb.DecodeShiftSpec(req.B, comb.ModeLogical)
		m.b = uint64(spec.Amount)
		m.shiftDir = spec.Dir
		m.shiftFill = spec.Fill
	} else {
		m.b = req.B.Uint64()
	}

	m.trace.Add(fmt.Sprintf("· %d-bit machine ready, %d engines registered",
		cfg.Width, len(registry.List())))
	m.lanes.SetViews(machine.Views(), m.op.String())
	m.lanes.SetInputs(m.busLine())
	return m, nil
}

// Init starts the panel clock and the context watchdog.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), sampleMemStatsCmd(), watchContextCmd(m.parentCtx))
}

// Update is the bubbletea event loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case TickMsg:
		if m.freeRun && m.runActive && !m.comparing {
			m.stepOnce()
		}
		m.metrics.UpdateTicks(m.machine.Ticks(), m.opsDone)
		return m, tea.Batch(tickCmd(), sampleMemStatsCmd(), sampleSysStatsCmd())

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.chart.UpdateSysStats(msg.CPUPercent, msg.MemPercent)
		m.metrics.UpdatePeakRSS(msg.PeakRSS)
		return m, nil

	case ProgressMsg:
		m.chart.AddDataPoint(msg.Value*100, msg.AverageProgress*100, msg.ETA)
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case ComparisonResultsMsg:
		for _, r := range msg.Results {
			if r.Err != nil {
				m.trace.Add(fmt.Sprintf("! %-13s %v", r.Name, r.Err))
				continue
			}
			m.trace.Add(fmt.Sprintf("  %-13s %5d ticks  %-9s low=0x%s",
				r.Name, r.Result.Ticks,
				format.FormatExecutionDuration(r.Duration),
				truncHex(r.Result.Low.Hex(), 12)))
		}
		return m, nil

	case FinalResultMsg:
		res := msg.Result.Result
		m.trace.Add(fmt.Sprintf("✓ engines agree  low=0x%s high=0x%s flag=%t",
			truncHex(res.Low.Hex(), 12), truncHex(res.High.Hex(), 12), res.Flag))
		return m, nil

	case ErrorMsg:
		m.trace.Add(fmt.Sprintf("! %v", msg.Err))
		return m, nil

	case CompareDoneMsg:
		m.comparing = false
		if msg.ExitCode != apperrors.ExitSuccess {
			m.exitCode = msg.ExitCode
			m.footer.SetStatus(StatusError)
		} else {
			m.footer.SetStatus(StatusDone)
		}
		return m, nil

	case ContextCancelledMsg:
		m.exitCode = apperrors.ExitErrorCanceled
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Step):
		if m.comparing {
			return m, nil
		}
		m.freeRun = false
		m.stepOnce()
		if m.runActive {
			m.footer.SetStatus(StatusStep)
		}
		return m, nil

	case key.Matches(msg, m.keymap.Run):
		if m.comparing {
			return m, nil
		}
		if !m.runActive {
			m.startRun()
		}
		if m.runActive {
			m.freeRun = !m.freeRun
			if m.freeRun {
				m.footer.SetStatus(StatusRun)
			} else {
				m.footer.SetStatus(StatusStep)
			}
		}
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		m.resetMachine()
		return m, nil

	case key.Matches(msg, m.keymap.CycleOp):
		if m.runActive || m.comparing {
			return m, nil
		}
		m.op = nextOpcode(m.op)
		m.trace.Add(fmt.Sprintf("· opcode %s", m.op))
		m.lanes.SetViews(m.machine.Views(), m.op.String())
		m.lanes.SetInputs(m.busLine())
		return m, nil

	case key.Matches(msg, m.keymap.IncA):
		m.a = (m.a + 1) & m.operandMask()
		m.lanes.SetInputs(m.busLine())
		return m, nil

	case key.Matches(msg, m.keymap.DecA):
		m.a = (m.a - 1) & m.operandMask()
		m.lanes.SetInputs(m.busLine())
		return m, nil

	case key.Matches(msg, m.keymap.IncB):
		m.nudgeB(1)
		m.lanes.SetInputs(m.busLine())
		return m, nil

	case key.Matches(msg, m.keymap.DecB):
		m.nudgeB(-1)
		m.lanes.SetInputs(m.busLine())
		return m, nil

	case key.Matches(msg, m.keymap.Compare):
		if m.comparing {
			return m, nil
		}
		m.comparing = true
		m.footer.SetStatus(StatusCompare)
		engines := m.registry.GetAll()
		req := engine.Request{
			Opcode: m.op,
			Width:  m.machine.Width(),
			A:      bitvec.FromUint64(m.machine.Width(), m.a),
			B:      m.machineInputs(false).B,
		}
		m.trace.Add(fmt.Sprintf("· comparing %d engines on %s", len(engines), m.op))
		return m, startComparisonCmd(m.panel, m.parentCtx, m.config.Timeout, engines, req)

	case key.Matches(msg, m.keymap.Up),
		key.Matches(msg, m.keymap.Down),
		key.Matches(msg, m.keymap.PageUp),
		key.Matches(msg, m.keymap.PageDown):
		m.trace.Update(msg, m.keymap)
		return m, nil
	}
	return m, nil
}

// startRun latches the panel operands into the machine with a start
// pulse. Single-cycle opcodes complete on that same tick.
func (m *Model) startRun() {
	m.runActive = true
	m.runStart = m.machine.Ticks()
	m.runBegan = time.Now()
	m.trace.Add(fmt.Sprintf("· start %s  %s", m.op, m.operandSummary()))
	out := m.machine.Tick(m.machineInputs(true))
	m.afterTick(out)
}

// stepOnce advances the machine one tick, starting a run if none is
// active.
func (m *Model) stepOnce() {
	if !m.runActive {
		m.startRun()
		return
	}
	out := m.machine.Tick(m.machineInputs(false))
	m.afterTick(out)
}

// afterTick records the tick in the trace, refreshes the lane views
// and closes out the run when the done latch rises.
func (m *Model) afterTick(out seq.Outputs) {
	tick := m.runTicks()
	expected := uint64(engine.ExpectedTicks(m.op, m.machine.Width()))

	if out.Done {
		m.finishRun(out, tick)
	} else {
		m.traceStep(tick)
		pct := float64(tick) / float64(expected) * 100
		if pct > 100 {
			pct = 100
		}
		m.chart.AddDataPoint(pct, pct, m.runETA(tick, expected))
		if tick > expected {
			m.trace.Add("! done latch missing past the expected tick count")
			m.runActive = false
			m.freeRun = false
			m.footer.SetStatus(StatusError)
		}
	}
	m.lanes.SetViews(m.machine.Views(), m.op.String())
	m.lanes.SetInputs(m.busLine())
	m.metrics.UpdateTicks(m.machine.Ticks(), m.opsDone)
}

func (m *Model) traceStep(tick uint64) {
	for _, v := range m.machine.Views() {
		if v.Name != m.op.String() {
			continue
		}
		m.trace.Add(fmt.Sprintf("%4d  %-5s %3d/%-3d  H=0x%s L=0x%s",
			tick, v.Phase, v.Count, v.Steps,
			truncHex(v.High.Hex(), 8), truncHex(v.Low.Hex(), 8)))
		return
	}
	m.trace.Add(fmt.Sprintf("%4d  step", tick))
}

func (m *Model) finishRun(out seq.Outputs, ticks uint64) {
	m.runActive = false
	m.freeRun = false
	m.opsDone++
	m.trace.Add(fmt.Sprintf("✓ %s done in %d ticks  low=0x%s high=0x%s flag=%t",
		m.op, ticks,
		truncHex(out.Low.Hex(), 12), truncHex(out.High.Hex(), 12), out.Flag))
	m.footer.SetStatus(StatusDone)
	m.chart.AddDataPoint(100, 100, 0)
	metrics.ObserveOperation(m.op.String(), ticks)
}

// resetMachine pulses the reset line and clears the run state. The
// trace scrollback and session counters survive a reset.
func (m *Model) resetMachine() {
	in := m.machine.IdleInputs()
	in.Reset = true
	m.machine.Tick(in)
	m.runActive = false
	m.freeRun = false
	m.trace.Add("· reset")
	m.lanes.SetViews(m.machine.Views(), m.op.String())
	m.lanes.SetInputs(m.busLine())
	m.footer.SetStatus(StatusIdle)
}

// machineInputs assembles the input bus. Shift opcodes pack the panel
// amount into the control word; everything else drives b directly.
func (m *Model) machineInputs(start bool) seq.Inputs {
	w := m.machine.Width()
	b := bitvec.FromUint64(w, m.b)
	if m.op.IsShift() {
		mode := comb.ModeLogical
		if m.op == comb.OpShiftArithmetic {
			mode = comb.ModeArithmetic
		}
		b = comb.PackShiftSpec(w, comb.ShiftSpec{
			Dir:    m.shiftDir,
			Amount: int(m.b),
			Fill:   m.shiftFill,
			Mode:   mode,
		})
	}
	return seq.Inputs{
		Start:  start,
		Opcode: m.op,
		A:      bitvec.FromUint64(w, m.a),
		B:      b,
	}
}

func (m *Model) nudgeB(delta int) {
	if m.op.IsShift() {
		// Shift amounts clamp to the bus width instead of wrapping.
		next := int64(m.b) + int64(delta)
		if next < 0 {
			next = 0
		}
		if next > int64(m.machine.Width()) {
			next = int64(m.machine.Width())
		}
		m.b = uint64(next)
		return
	}
	m.b = (m.b + uint64(delta)) & m.operandMask()
}

func (m Model) operandMask() uint64 {
	w := m.machine.Width()
	if w >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(w) - 1
}

func (m Model) operandSummary() string {
	d := m.hexDigits()
	if m.op.IsShift() {
		return fmt.Sprintf("a=0x%0*x  k=%d", d, m.a, m.b)
	}
	return fmt.Sprintf("a=0x%0*x  b=0x%0*x", d, m.a, d, m.b)
}

func (m Model) busLine() string {
	d := m.hexDigits()
	if m.op.IsShift() {
		dir := "left"
		if m.shiftDir == comb.DirRight {
			dir = "right"
		}
		return fmt.Sprintf("bus  op=%-4s a=0x%0*x  k=%d %s fill=%t",
			m.op, d, m.a, m.b, dir, m.shiftFill)
	}
	return fmt.Sprintf("bus  op=%-4s a=0x%0*x  b=0x%0*x", m.op, d, m.a, d, m.b)
}

func (m Model) hexDigits() int {
	d := (m.machine.Width() + 3) / 4
	if d > 16 {
		d = 16
	}
	return d
}

func (m Model) runTicks() uint64 {
	return m.machine.Ticks() - m.runStart
}

// runETA estimates time to the done latch from the free-run pace; a
// manual session has no pace to extrapolate.
func (m Model) runETA(tick, expected uint64) time.Duration {
	if !m.freeRun || tick == 0 || tick >= expected {
		return 0
	}
	perTick := time.Since(m.runBegan) / time.Duration(tick)
	return perTick * time.Duration(expected-tick)
}

func nextOpcode(op comb.Opcode) comb.Opcode {
	ops := comb.Opcodes()
	for i, o := range ops {
		if o == op {
			return ops[(i+1)%len(ops)]
		}
	}
	return ops[0]
}

// layoutPanels pushes the terminal dimensions down into the sections.
func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.lanes.SetSize(m.width, LanesPanelHeight)
	m.trace.SetSize(m.traceWidth(), m.bodyHeight())
	m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
	m.chart.SetSize(m.rightWidth(), m.chartHeight())
}

// View composes the panel sections.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "waiting for terminal size..."
	}
	rightCol := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.chart.View())
	trace := m.trace.renderToHeight(lipgloss.Height(rightCol))
	body := lipgloss.JoinHorizontal(lipgloss.Top, trace, rightCol)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.lanes.View(),
		body,
		m.footer.View(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		return MemStatsMsg{
			Snapshot:     metrics.ReadSnapshot(),
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		stats := sysmon.Sample()
		return SysStatsMsg{
			CPUPercent: stats.CPUPercent,
			MemPercent: stats.MemPercent,
			PeakRSS:    stats.PeakRSS,
		}
	}
}

func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}

// startComparisonCmd runs every engine against the panel request in
// the background and feeds the outcome through the bridge.
func startComparisonCmd(panel *panelHandle, parent context.Context, timeout time.Duration, engines []engine.Engine, req engine.Request) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		feed := &panelResultFeed{panel: panel}
		results := orchestration.ExecuteOperations(ctx, engines, req, &panelProgressFeed{panel: panel}, io.Discard)
		code := orchestration.AnalyzeComparisonResults(results,
			orchestration.PresentationOptions{}, feed, feed, io.Discard)
		return CompareDoneMsg{ExitCode: code}
	}
}

// Run starts the front panel and blocks until it exits, returning the
// process exit code.
func Run(ctx context.Context, registry *engine.Registry, cfg config.AppConfig, version string) int {
	initTUIStyles()
	model, err := NewModel(ctx, registry, cfg, version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "front panel: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	model.panel.attach(p)
	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "front panel: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	if final, ok := finalModel.(Model); ok {
		return final.exitCode
	}
	return apperrors.ExitSuccess
}
