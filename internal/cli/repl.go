// Package cli implements the terminal surfaces of the simulator: result
// presentation, progress display, shell completion, tick tracing and the
// interactive session.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/agbru/alusim/internal/bitvec"
	"github.com/agbru/alusim/internal/comb"
	"github.com/agbru/alusim/internal/engine"
	"github.com/agbru/alusim/internal/orchestration"
	"github.com/agbru/alusim/internal/seq"
	"github.com/agbru/alusim/internal/ui"
)

// REPLConfig holds configuration for the interactive session.
type REPLConfig struct {
	// Width is the operand width in bits for every operation.
	Width int
	// DefaultEngine is the engine used for calculations.
	DefaultEngine string
	// Timeout is the maximum duration for each operation.
	Timeout time.Duration
	// ShiftDir is the initial shift direction ("left" or "right").
	ShiftDir string
	// ShiftFill is the fill bit for logical shifts.
	ShiftFill bool
	// HexOutput displays bus values in hexadecimal format.
	HexOutput bool
	// Trace prints per-tick controller state during operations.
	Trace bool
}

// REPL represents an interactive ALU session.
type REPL struct {
	config        REPLConfig
	registry      *engine.Registry
	currentEngine string
	width         int
	in            io.Reader
	out           io.Writer
}

// NewREPL creates a session over the given engine registry. Zero-value
// config fields fall back to the registry default, 8-bit operands and
// left shifts.
func NewREPL(registry *engine.Registry, config REPLConfig) *REPL {
	currentEngine := config.DefaultEngine
	if currentEngine == "" || currentEngine == "all" {
		currentEngine = registry.Default().Name()
	}
	if config.Width == 0 {
		config.Width = 8
	}
	if config.ShiftDir == "" {
		config.ShiftDir = "left"
	}

	return &REPL{
		config:        config,
		registry:      registry,
		currentEngine: currentEngine,
		width:         config.Width,
		in:            os.Stdin,
		out:           os.Stdout,
	}
}

// SetInput redirects the prompt input stream. Tests feed command
// scripts through this.
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput redirects session output.
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// paint wraps s in a color and a reset so values stay readable
// mid-sentence on colored terminals.
func paint(color func() string, s string) string {
	return color() + s + ui.ColorReset()
}

// paintPad pads s to width runes before coloring, since ANSI sequences
// would throw off fmt's %-*s width counting.
func paintPad(color func() string, s string, width int) string {
	if n := width - utf8.RuneCountInString(s); n > 0 {
		s += strings.Repeat(" ", n)
	}
	return paint(color, s)
}

// errorf prints one red diagnostic line.
func (r *REPL) errorf(format string, args ...any) {
	fmt.Fprintln(r.out, paint(ui.ColorRed, fmt.Sprintf(format, args...)))
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func bitOf(b bool) int {
	if b {
		return 1
	}
	return 0
}

// replCommand is one dispatch table entry. The same table drives command
// lookup and the help listing, so the two cannot drift apart.
type replCommand struct {
	names []string
	usage string
	blurb string
	quits bool
	run   func(*REPL, []string)
}

// replCommands is assigned in init rather than in its declaration: the
// help entry's closure calls printHelp, which itself ranges over
// replCommands, and that lexical loop is an initialization cycle when
// written as a declaration initializer.
var replCommands []replCommand

func init() {
	replCommands = []replCommand{
		{names: []string{"calc", "c", "run"}, usage: "calc <op> <a> [b]", blurb: "run one operation with the session engine", run: (*REPL).cmdCalc},
		{names: []string{"compare", "cmp"}, usage: "compare <op> <a> [b]", blurb: "run every engine and check agreement", run: (*REPL).cmdCompare},
		{names: []string{"engine", "e"}, usage: "engine <name>", blurb: "switch the session engine", run: (*REPL).cmdEngine},
		{names: []string{"width", "w"}, usage: "width <bits>", blurb: "set the operand width", run: (*REPL).cmdWidth},
		{names: []string{"dir"}, usage: "dir <left|right>", blurb: "set the shift direction", run: (*REPL).cmdDir},
		{names: []string{"fill"}, usage: "fill", blurb: "toggle the logical shift fill bit", run: func(r *REPL, _ []string) { r.cmdFill() }},
		{names: []string{"trace"}, usage: "trace", blurb: "toggle the per-tick controller trace", run: func(r *REPL, _ []string) { r.cmdTrace() }},
		{names: []string{"hex"}, usage: "hex", blurb: "toggle hexadecimal display", run: func(r *REPL, _ []string) { r.cmdHex() }},
		{names: []string{"list", "ls"}, usage: "list", blurb: "list engines and operations", run: func(r *REPL, _ []string) { r.cmdList() }},
		{names: []string{"status", "st"}, usage: "status", blurb: "show the session settings", run: func(r *REPL, _ []string) { r.cmdStatus() }},
		{names: []string{"help", "h", "?"}, usage: "help", blurb: "show this help", run: func(r *REPL, _ []string) { r.printHelp() }},
		{names: []string{"exit", "quit", "q"}, usage: "exit", blurb: "leave the session", quits: true},
	}
}

// Start runs the session loop until an exit command or EOF.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, paint(ui.ColorGreen, "alu> "))

		input, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			r.errorf("Read error: %v", err)
			continue
		}

		if line := strings.TrimSpace(input); line != "" && !r.processCommand(line) {
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s\n", paint(ui.ColorBold, "⚙ ALU Simulator"))
	fmt.Fprintf(r.out, "interactive session, %s-bit operands on the %s engine\n\n",
		paint(ui.ColorCyan, strconv.Itoa(r.width)), paint(ui.ColorCyan, r.currentEngine))
}

// printHelp lists every command from the dispatch table.
func (r *REPL) printHelp() {
	direct := "<op> <a> [b]"
	column := utf8.RuneCountInString(direct)
	for _, c := range replCommands {
		column = max(column, utf8.RuneCountInString(c.usage))
	}

	fmt.Fprintln(r.out, paint(ui.ColorBold, "Commands:"))
	fmt.Fprintf(r.out, "  %s  run an operation directly (add 13 3, shl 9 2)\n", paintPad(ui.ColorYellow, direct, column))
	for _, c := range replCommands {
		fmt.Fprintf(r.out, "  %s  %s\n", paintPad(ui.ColorYellow, c.usage, column), c.blurb)
	}
	fmt.Fprintf(r.out, "Engines: %s. Widths: %d to %d bits.\n", r.engineList(), seq.MinWidth, seq.MaxWidth)
}

// engineList returns a comma-separated list of available engines.
func (r *REPL) engineList() string {
	return strings.Join(r.registry.List(), ", ")
}

// opcodeList returns a comma-separated list of operation mnemonics.
func (r *REPL) opcodeList() string {
	ops := comb.Opcodes()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.String()
	}
	return strings.Join(names, ", ")
}

// processCommand dispatches one input line. Returns false when the
// session should end.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}
	name := strings.ToLower(parts[0])

	for i := range replCommands {
		c := &replCommands[i]
		if !slices.Contains(c.names, name) {
			continue
		}
		if c.quits {
			fmt.Fprintln(r.out, paint(ui.ColorGreen, "Goodbye!"))
			return false
		}
		c.run(r, parts[1:])
		return true
	}

	// Bare mnemonics run directly, so "add 13 3" works without calc.
	if op, err := comb.ParseOpcode(name); err == nil {
		if req, err := r.buildRequest(op, parts[1:]); err != nil {
			r.errorf("%v", err)
		} else {
			r.calculate(req)
		}
		return true
	}

	r.errorf("Unknown command: %s", name)
	fmt.Fprintf(r.out, "Type %s to see the command list.\n", paint(ui.ColorYellow, "help"))
	return true
}

func (r *REPL) cmdCalc(args []string) {
	if len(args) < 2 {
		r.errorf("Usage: calc <op> <a> [b]")
		return
	}

	op, err := comb.ParseOpcode(strings.ToLower(args[0]))
	if err != nil {
		r.errorf("%v", err)
		fmt.Fprintf(r.out, "Available operations: %s\n", r.opcodeList())
		return
	}

	req, err := r.buildRequest(op, args[1:])
	if err != nil {
		r.errorf("%v", err)
		return
	}
	r.calculate(req)
}

// buildRequest assembles an engine request from operand arguments at the
// current width. Shift operations read the second argument as the amount
// and pack the control word from the session's direction and fill bit.
func (r *REPL) buildRequest(op comb.Opcode, args []string) (engine.Request, error) {
	if len(args) == 0 {
		return engine.Request{}, fmt.Errorf("operand A is required (usage: %s <a>%s)", op, secondOperandHint(op))
	}

	a, err := bitvec.Parse(r.width, args[0])
	if err != nil {
		return engine.Request{}, fmt.Errorf("operand A: %v", err)
	}

	b := bitvec.New(r.width)
	switch {
	case op == comb.OpNot || op == comb.OpNoOp:
		// Unary, operand B stays zero
	case op.IsShift():
		if len(args) < 2 {
			return engine.Request{}, fmt.Errorf("shift amount is required (usage: %s <a> <amount>)", op)
		}
		amount, err := strconv.Atoi(args[1])
		if err != nil || amount < 0 {
			return engine.Request{}, fmt.Errorf("shift amount %q must be a non-negative integer", args[1])
		}
		spec := comb.ShiftSpec{Amount: amount, Fill: r.config.ShiftFill}
		if r.config.ShiftDir == "right" {
			spec.Dir = comb.DirRight
		}
		if op == comb.OpShiftArithmetic {
			spec.Mode = comb.ModeArithmetic
		}
		b = comb.PackShiftSpec(r.width, spec)
	default:
		if len(args) < 2 {
			return engine.Request{}, fmt.Errorf("operand B is required (usage: %s <a> <b>)", op)
		}
		if b, err = bitvec.Parse(r.width, args[1]); err != nil {
			return engine.Request{}, fmt.Errorf("operand B: %v", err)
		}
	}

	return engine.Request{Opcode: op, Width: r.width, A: a, B: b}, nil
}

// secondOperandHint returns the usage suffix for an opcode's second argument.
func secondOperandHint(op comb.Opcode) string {
	switch {
	case op == comb.OpNot || op == comb.OpNoOp:
		return ""
	case op.IsShift():
		return " <amount>"
	default:
		return " <b>"
	}
}

// calculate runs one operation with the current engine. When tracing is
// enabled the operation runs on a clocked machine instead, so every tick
// can be shown.
func (r *REPL) calculate(req engine.Request) {
	if r.config.Trace {
		fmt.Fprintf(r.out, "Tracing %s on %s-bit operands tick by tick...\n",
			paint(ui.ColorMagenta, req.Opcode.String()),
			paint(ui.ColorMagenta, strconv.Itoa(req.Width)))
		r.traceRun(req)
		return
	}

	eng, err := r.registry.Get(r.currentEngine)
	if err != nil {
		r.errorf("Engine not found: %s", r.currentEngine)
		return
	}

	fmt.Fprintf(r.out, "Running %s on %s-bit operands with %s...\n",
		paint(ui.ColorMagenta, req.Opcode.String()),
		paint(ui.ColorMagenta, strconv.Itoa(req.Width)),
		paint(ui.ColorCyan, eng.Name()))

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	// One-engine progress feed, same plumbing the comparison path uses.
	progressChan := make(chan orchestration.ProgressUpdate, 10)
	var wg sync.WaitGroup
	wg.Add(1)
	go DisplayProgress(&wg, progressChan, 1, r.out)

	start := time.Now()
	result, err := eng.Execute(ctx, req, func(v float64) {
		select {
		case progressChan <- orchestration.ProgressUpdate{Value: v}:
		default:
		}
	})
	duration := time.Since(start)
	close(progressChan)
	wg.Wait()

	if err != nil {
		r.errorf("Error: %v", err)
		return
	}
	r.displayResult(result, duration)
}

// traceRun drives a fresh machine tick by tick, printing each controller
// state transition until the done line rises.
func (r *REPL) traceRun(req engine.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	result, elapsed, err := TraceTicks(ctx, req, r.out)
	if err != nil {
		r.errorf("Error: %v", err)
		return
	}
	r.displayResult(result, elapsed)
}

// displayResult prints the output bus of a completed operation.
func (r *REPL) displayResult(result engine.Result, duration time.Duration) {
	fmt.Fprintf(r.out, "\n%s\n", paint(ui.ColorBold, "Result:"))
	fmt.Fprintf(r.out, "  Time:  %s\n", paint(ui.ColorGreen, FormatExecutionDuration(duration)))
	fmt.Fprintf(r.out, "  Ticks: %s\n", paint(ui.ColorCyan, strconv.FormatUint(result.Ticks, 10)))
	fmt.Fprintf(r.out, "  low  = %s\n", paint(ui.ColorGreen, r.busText(result.Low)))
	fmt.Fprintf(r.out, "  high = %s\n", paint(ui.ColorGreen, r.busText(result.High)))
	fmt.Fprintf(r.out, "  flag (%s) = %s\n", flagLabel(result.Opcode),
		paint(ui.ColorCyan, strconv.Itoa(conditionBit(&result))))
	fmt.Fprintln(r.out)
}

// busText renders one bus in the session's display base.
func (r *REPL) busText(v bitvec.Vector) string {
	if r.config.HexOutput {
		return "0x" + v.Hex()
	}
	return formatBus(v, false)
}

func (r *REPL) cmdCompare(args []string) {
	if len(args) < 2 {
		r.errorf("Usage: compare <op> <a> [b]")
		return
	}

	op, err := comb.ParseOpcode(strings.ToLower(args[0]))
	if err != nil {
		r.errorf("%v", err)
		return
	}

	req, err := r.buildRequest(op, args[1:])
	if err != nil {
		r.errorf("%v", err)
		return
	}

	rule := paint(ui.ColorCyan, strings.Repeat("─", 46))
	fmt.Fprintf(r.out, "\n%s\n%s\n",
		paint(ui.ColorBold, fmt.Sprintf("Comparison for %s over %d bits:", op, req.Width)), rule)

	var reference *engine.Result
	for _, eng := range r.registry.GetAll() {
		result, duration, err := r.timedRun(eng, req)
		name := paintPad(ui.ColorYellow, eng.Name(), 15)
		if err != nil {
			fmt.Fprintf(r.out, "  %s: %s\n", name, paint(ui.ColorRed, fmt.Sprintf("Error - %v", err)))
			continue
		}

		if reference == nil {
			reference = &result
		}
		verdict := paint(ui.ColorGreen, "✓")
		if !result.Matches(*reference) {
			verdict = paint(ui.ColorRed, "✗ DISAGREES")
		}
		fmt.Fprintf(r.out, "  %s: %s %5d ticks %s\n", name,
			paint(ui.ColorCyan, fmt.Sprintf("%12s", FormatExecutionDuration(duration))),
			result.Ticks, verdict)
	}
	fmt.Fprintln(r.out, rule)

	if reference != nil {
		r.displayResult(*reference, 0)
	}
}

// timedRun executes one engine under the session timeout.
func (r *REPL) timedRun(eng engine.Engine, req engine.Request) (engine.Result, time.Duration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	start := time.Now()
	result, err := eng.Execute(ctx, req, nil)
	return result, time.Since(start), err
}

func (r *REPL) cmdEngine(args []string) {
	if len(args) == 0 {
		r.errorf("Usage: engine <name>")
		fmt.Fprintf(r.out, "Available engines: %s\n", r.engineList())
		return
	}

	name := strings.ToLower(args[0])
	eng, err := r.registry.Get(name)
	if err != nil {
		r.errorf("Unknown engine: %s", name)
		fmt.Fprintf(r.out, "Available engines: %s\n", r.engineList())
		return
	}

	r.currentEngine = eng.Name()
	fmt.Fprintf(r.out, "Engine changed to: %s\n", paint(ui.ColorGreen, eng.Name()))
}

func (r *REPL) cmdWidth(args []string) {
	if len(args) == 0 {
		r.errorf("Usage: width <bits>")
		return
	}

	width, err := strconv.Atoi(args[0])
	if err != nil || width < seq.MinWidth || width > seq.MaxWidth {
		r.errorf("Invalid width: %s (must be %d-%d)", args[0], seq.MinWidth, seq.MaxWidth)
		return
	}

	r.width = width
	fmt.Fprintf(r.out, "Operand width changed to: %s\n", paint(ui.ColorGreen, fmt.Sprintf("%d bits", width)))
	if width > seq.WarnWidth {
		fmt.Fprintln(r.out, paint(ui.ColorYellow,
			fmt.Sprintf("Note: widths above %d tick slowly on the sequential engine.", seq.WarnWidth)))
	}
}

func (r *REPL) cmdDir(args []string) {
	if len(args) == 0 {
		r.errorf("Usage: dir <left|right>")
		return
	}

	switch strings.ToLower(args[0]) {
	case "l", "left":
		r.config.ShiftDir = "left"
	case "r", "right":
		r.config.ShiftDir = "right"
	default:
		r.errorf("Invalid direction: %s (must be left or right)", args[0])
		return
	}
	fmt.Fprintf(r.out, "Shift direction: %s\n", paint(ui.ColorGreen, r.config.ShiftDir))
}

func (r *REPL) cmdFill() {
	r.config.ShiftFill = !r.config.ShiftFill
	fmt.Fprintf(r.out, "Shift fill bit: %s\n", paint(ui.ColorGreen, strconv.Itoa(bitOf(r.config.ShiftFill))))
}

func (r *REPL) cmdTrace() {
	r.config.Trace = !r.config.Trace
	fmt.Fprintf(r.out, "Tick trace: %s\n", paint(ui.ColorGreen, onOff(r.config.Trace)))
}

func (r *REPL) cmdHex() {
	r.config.HexOutput = !r.config.HexOutput
	fmt.Fprintf(r.out, "Hexadecimal display: %s\n", paint(ui.ColorGreen, onOff(r.config.HexOutput)))
}

func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%s\n", paint(ui.ColorBold, "Available engines:"))
	for _, eng := range r.registry.GetAll() {
		marker := "  "
		if eng.Name() == r.currentEngine {
			marker = paint(ui.ColorGreen, "► ")
		}
		fmt.Fprintf(r.out, "%s%s - %s\n", marker, paintPad(ui.ColorYellow, eng.Name(), 14), eng.Describe())
	}

	fmt.Fprintf(r.out, "\n%s\n", paint(ui.ColorBold, "Available operations:"))
	for _, op := range comb.Opcodes() {
		kind := "single-cycle"
		if op.IsMultiCycle() {
			kind = "multi-cycle"
		}
		fmt.Fprintf(r.out, "  %s - %s, flag reports %s\n", paintPad(ui.ColorYellow, op.String(), 5), kind, flagLabel(op))
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdStatus() {
	rows := []struct {
		label string
		value string
	}{
		{"Engine", r.currentEngine},
		{"Width", fmt.Sprintf("%d bits", r.width)},
		{"Timeout", r.config.Timeout.String()},
		{"Shift direction", r.config.ShiftDir},
		{"Shift fill bit", strconv.Itoa(bitOf(r.config.ShiftFill))},
		{"Tick trace", yesNo(r.config.Trace)},
		{"Hexadecimal", yesNo(r.config.HexOutput)},
	}

	fmt.Fprintf(r.out, "\n%s\n", paint(ui.ColorBold, "Current configuration:"))
	for _, row := range rows {
		fmt.Fprintf(r.out, "  %-16s %s\n", row.label+":", paint(ui.ColorCyan, row.value))
	}
	fmt.Fprintln(r.out)
}
