package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/agbru/alusim/internal/bitvec"
	"github.com/agbru/alusim/internal/comb"
	"github.com/agbru/alusim/internal/engine"
	"github.com/agbru/alusim/internal/format"
	"github.com/agbru/alusim/internal/metrics"
	"github.com/agbru/alusim/internal/ui"
)

// flagLabel names the condition bit for an opcode, matching the dispatch
// convention of the result bus.
func flagLabel(op comb.Opcode) string {
	switch op {
	case comb.OpAdd:
		return "carry"
	case comb.OpSub:
		return "borrow"
	case comb.OpMul, comb.OpShiftLogical, comb.OpShiftArithmetic:
		return "overflow"
	case comb.OpDiv:
		return "zero divisor"
	case comb.OpLessThan, comb.OpGreaterThan, comb.OpEqual:
		return "comparison"
	case comb.OpAnd, comb.OpOr, comb.OpXor, comb.OpNot:
		return "zero"
	default:
		return "none"
	}
}

// formatBus renders one bus word as grouped binary with hex and decimal
// companions, truncating wide words unless verbose is set.
func formatBus(v bitvec.Vector, verbose bool) string {
	bin := format.FormatBinaryString(v.String())
	dec := format.FormatNumberString(v.Big().String())
	if !verbose && len(bin) > TruncationLimit {
		return fmt.Sprintf("%s...%s  (0x%s...%s, %s) (truncated)",
			bin[:DisplayEdges], bin[len(bin)-DisplayEdges:],
			v.Hex()[:4], v.Hex()[len(v.Hex())-4:], dec)
	}
	return fmt.Sprintf("%s  (0x%s, %s)", bin, v.Hex(), dec)
}

// DisplayResult writes the result buses of a completed operation to out.
// Verbose disables truncation of wide bus values; details appends the
// tick and throughput analysis.
func DisplayResult(res *engine.Result, duration time.Duration, verbose, details bool, out io.Writer) {
	if res == nil {
		return
	}

	fmt.Fprintf(out, "\nOperation %s%s%s over %s%d%s bits completed in %s%d%s ticks (%s%s%s).\n",
		ui.ColorMagenta(), res.Opcode, ui.ColorReset(),
		ui.ColorCyan(), res.Width, ui.ColorReset(),
		ui.ColorCyan(), res.Ticks, ui.ColorReset(),
		ui.ColorGreen(), FormatExecutionDuration(duration), ui.ColorReset())

	flagBit := "0"
	if res.Flag {
		flagBit = "1"
	}
	fmt.Fprintf(out, "  low  = %s%s%s\n", ui.ColorGreen(), formatBus(res.Low, verbose), ui.ColorReset())
	fmt.Fprintf(out, "  high = %s%s%s\n", ui.ColorGreen(), formatBus(res.High, verbose), ui.ColorReset())
	fmt.Fprintf(out, "  flag = %s%s%s (%s)\n", ui.ColorYellow(), flagBit, ui.ColorReset(), flagLabel(res.Opcode))

	if !verbose && len(res.Low.String()) > TruncationLimit {
		fmt.Fprintf(out, "\n%sTip: use -v to display the full bus values.%s\n", ui.ColorCyan(), ui.ColorReset())
	}

	if details {
		DisplayDetails(res, duration, out)
	}
}

// DisplayDetails writes the run analysis block: tick counts against the
// nominal latency of the opcode, and simulation throughput.
func DisplayDetails(res *engine.Result, duration time.Duration, out io.Writer) {
	expected := uint64(engine.ExpectedTicks(res.Opcode, res.Width))
	ind := metrics.ComputeIndicators(res.Ticks, expected, duration)

	fmt.Fprintf(out, "\n%sRun analysis:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "  Execution time:    %s\n", FormatExecutionDuration(duration))
	fmt.Fprintf(out, "  Clock ticks:       %s\n", format.FormatNumberString(fmt.Sprintf("%d", ind.Ticks)))
	fmt.Fprintf(out, "  Nominal ticks:     %s\n", format.FormatNumberString(fmt.Sprintf("%d", ind.ExpectedTicks)))
	if ind.TicksPerSecond > 0 {
		fmt.Fprintf(out, "  Ticks per second:  %s\n", format.FormatNumberString(fmt.Sprintf("%.0f", ind.TicksPerSecond)))
	}
	fmt.Fprintf(out, "  Result bit width:  %d\n", res.Width)
}

// DisplayMemoryStats shows the run's memory footprint.
func DisplayMemoryStats(snap metrics.MemorySnapshot, out io.Writer) {
	pause := "0ms"
	if snap.PauseTotalNs > 0 {
		pause = fmt.Sprintf("%.2fms", float64(snap.PauseTotalNs)/1e6)
	}
	fmt.Fprintf(out, "\nMemory usage:\n")
	fmt.Fprintf(out, "  Live heap:       %s\n", format.FormatBytes(snap.HeapAlloc))
	fmt.Fprintf(out, "  Allocated total: %s\n", format.FormatBytes(snap.TotalAlloc))
	fmt.Fprintf(out, "  GC runs:         %d\n", snap.NumGC)
	fmt.Fprintf(out, "  GC pause:        %s\n", pause)
}
