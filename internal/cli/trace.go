package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agbru/alusim/internal/comb"
	"github.com/agbru/alusim/internal/engine"
	"github.com/agbru/alusim/internal/seq"
	"github.com/agbru/alusim/internal/ui"
)

// TraceTicks drives a fresh sequential machine through the request and
// prints one row of controller state per tick until the done line rises.
// It returns the settled result and the wall time spent ticking. Both the
// REPL's "trace on" mode and the -trace flag render through here.
func TraceTicks(ctx context.Context, req engine.Request, out io.Writer) (engine.Result, time.Duration, error) {
	if err := req.Validate(); err != nil {
		return engine.Result{}, 0, err
	}
	m, err := seq.New(req.Width)
	if err != nil {
		return engine.Result{}, 0, err
	}

	fmt.Fprintf(out, "\n%sTick trace:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "  %s%4s  %-5s  %5s  %-*s  %-*s  %s%s\n",
		ui.ColorYellow(), "tick", "phase", "count", hexColumnWidth(req.Width), "high", hexColumnWidth(req.Width), "low", "flag", ui.ColorReset())

	total := engine.ExpectedTicks(req.Opcode, req.Width)
	in := seq.Inputs{Start: true, Opcode: req.Opcode, A: req.A, B: req.B}
	start := time.Now()
	for tick := 1; ; tick++ {
		if ctx.Err() != nil {
			return engine.Result{}, time.Since(start), ctx.Err()
		}
		o := m.Tick(in)
		in.Start = false
		printTraceRow(out, tick, req.Opcode, m, o)
		if o.Done {
			result := engine.Result{
				Opcode: req.Opcode,
				Width:  req.Width,
				High:   o.High,
				Low:    o.Low,
				Flag:   o.Flag,
				Ticks:  m.Ticks(),
			}
			return result, time.Since(start), nil
		}
		if tick > total {
			return engine.Result{}, time.Since(start), fmt.Errorf("controller not done after %d ticks", tick)
		}
	}
}

// hexColumnWidth returns the printed width of a hex bus column, "0x" included.
func hexColumnWidth(width int) int {
	return 2 + (width+3)/4
}

// printTraceRow prints one tick of controller state. Multi-cycle opcodes
// show the active controller's phase and step counter; single-cycle
// opcodes settle in the same tick and show only the output bus.
func printTraceRow(out io.Writer, tick int, op comb.Opcode, m *seq.Machine, o seq.Outputs) {
	flagBit := 0
	if o.Flag {
		flagBit = 1
	}
	if op.IsMultiCycle() {
		for _, v := range m.Views() {
			if v.Name != op.String() {
				continue
			}
			fmt.Fprintf(out, "  %4d  %-5s  %2d/%-2d  0x%s  0x%s  %d\n",
				tick, v.Phase, v.Count, v.Steps, v.High.Hex(), v.Low.Hex(), flagBit)
			return
		}
	}
	fmt.Fprintf(out, "  %4d  %-5s  %5s  0x%s  0x%s  %d\n",
		tick, "done", "-", o.High.Hex(), o.Low.Hex(), flagBit)
}
