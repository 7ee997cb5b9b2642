// Display functions write formatted output to an io.Writer, Format
// functions return strings without doing I/O, and Write functions put
// results on the filesystem. New output helpers should keep that split.

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agbru/alusim/internal/engine"
	"github.com/agbru/alusim/internal/format"
	"github.com/agbru/alusim/internal/ui"
)

// OutputConfig selects how a finished run is presented.
type OutputConfig struct {
	OutputFile string // save path, empty for terminal output only
	Quiet      bool   // single machine-readable line
	Verbose    bool   // full bus values without truncation
	Details    bool   // tick and throughput analysis
}

// conditionBit renders the result flag as 0 or 1.
func conditionBit(res *engine.Result) int {
	if res.Flag {
		return 1
	}
	return 0
}

// WriteResultToFile saves a result with enough context to reproduce it:
// engine, opcode, width and tick count, then both bus words and the
// condition bit. A nil result or empty path writes nothing.
func WriteResultToFile(res *engine.Result, duration time.Duration, engineName string, config OutputConfig) error {
	if config.OutputFile == "" || res == nil {
		return nil
	}

	if dir := filepath.Dir(config.OutputFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# ALU Operation Result\n")
	fmt.Fprintf(&b, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "# Engine: %s\n", engineName)
	fmt.Fprintf(&b, "# Duration: %s\n", duration)
	fmt.Fprintf(&b, "# Opcode: %s\n", res.Opcode)
	fmt.Fprintf(&b, "# Width: %d\n", res.Width)
	fmt.Fprintf(&b, "# Ticks: %d\n", res.Ticks)
	fmt.Fprintf(&b, "\n")
	fmt.Fprintf(&b, "low  = 0x%s  (%s)\n", res.Low.Hex(), format.FormatBinaryString(res.Low.String()))
	fmt.Fprintf(&b, "high = 0x%s  (%s)\n", res.High.Hex(), format.FormatBinaryString(res.High.String()))
	fmt.Fprintf(&b, "flag = %d (%s)\n", conditionBit(res), flagLabel(res.Opcode))

	if err := os.WriteFile(config.OutputFile, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// FormatQuietResult renders "low high flag" in decimal on one line,
// suitable for scripting. A nil result yields the empty string.
func FormatQuietResult(res *engine.Result) string {
	if res == nil {
		return ""
	}
	return fmt.Sprintf("%s %s %d", res.Low.Big(), res.High.Big(), conditionBit(res))
}

// DisplayQuietResult prints the quiet form followed by a newline.
func DisplayQuietResult(out io.Writer, res *engine.Result) {
	fmt.Fprintln(out, FormatQuietResult(res))
}

// DisplayResultWithConfig routes a result through quiet or full display
// and saves it when an output file is configured. The save announcement
// stays off in quiet mode so scripts still read exactly one line.
func DisplayResultWithConfig(out io.Writer, res *engine.Result, duration time.Duration, engineName string, config OutputConfig) error {
	if config.Quiet {
		DisplayQuietResult(out, res)
	} else {
		DisplayResult(res, duration, config.Verbose, config.Details, out)
	}

	if config.OutputFile == "" {
		return nil
	}
	if err := WriteResultToFile(res, duration, engineName, config); err != nil {
		return err
	}
	if !config.Quiet {
		AnnounceSaved(out, config.OutputFile)
	}
	return nil
}

// AnnounceSaved prints the output-file confirmation line.
func AnnounceSaved(out io.Writer, path string) {
	fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n", ui.ColorGreen(), ui.ColorCyan(), path, ui.ColorReset())
}
