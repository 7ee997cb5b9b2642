package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/alusim/internal/config"
	"github.com/agbru/alusim/internal/engine"
	"github.com/agbru/alusim/internal/ui"
)

// PrintExecutionConfig announces the run parameters: operation, operand
// width, timeout and, for bank runs, the lane and worker counts.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "─── Execution Configuration ───\n")
	fmt.Fprintf(out, "Running %s%s%s on %s%d%s-bit operands with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), cfg.Op, ui.ColorReset(),
		ui.ColorCyan(), cfg.Width, ui.ColorReset(),
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Host: %s%d%s logical processors, %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	if cfg.Sets > 1 {
		fmt.Fprintf(out, "Batch mode: %s%d%s lanes, %s%d%s workers.\n",
			ui.ColorCyan(), cfg.Sets, ui.ColorReset(), ui.ColorCyan(), cfg.Workers, ui.ColorReset())
	}
}

// PrintExecutionMode announces whether one engine runs alone or all of
// them race.
func PrintExecutionMode(engines []engine.Engine, out io.Writer) {
	var modeDesc string
	if len(engines) > 1 {
		modeDesc = "Parallel comparison of all engines"
	} else {
		modeDesc = fmt.Sprintf("Single run with the %s%s%s engine",
			ui.ColorGreen(), engines[0].Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n─── Starting Execution ───\n")
}
