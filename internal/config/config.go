package config

import (
	"flag"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/alusim/internal/bitvec"
	"github.com/agbru/alusim/internal/comb"
	"github.com/agbru/alusim/internal/engine"
	apperrors "github.com/agbru/alusim/internal/errors"
	"github.com/agbru/alusim/internal/lanes"
	"github.com/agbru/alusim/internal/logging"
	"github.com/agbru/alusim/internal/seq"
)

// EnvPrefix is prepended to every environment variable the simulator
// reads, e.g. ALUSIM_WIDTH.
const EnvPrefix = "ALUSIM_"

// Defaults for the main knobs. EngineAll selects every registered engine
// and cross-validates their results.
const (
	DefaultWidth   = 8
	DefaultSets    = 1
	DefaultOp      = "add"
	DefaultEngine  = EngineAll
	DefaultTimeout = 30 * time.Second
	DefaultAddr    = ":8463"

	EngineAll = "all"
)

// AppConfig holds every runtime setting, populated from CLI flags with
// environment variable fallback.
type AppConfig struct {
	// Width is the operand width in bits of the simulated unit.
	Width int
	// Sets is the lane count for batch runs.
	Sets int
	// Op is the operation mnemonic (add, sub, mul, div, shl, sha, lt,
	// gt, eq, and, or, xor, not).
	Op string
	// OperandA and OperandB accept decimal, 0b, 0o and 0x literals. For
	// shift operations OperandB is the shift amount.
	OperandA string
	OperandB string
	// ShiftDir selects the shift direction, "left" or "right".
	ShiftDir string
	// ShiftFill is the bit shifted into vacated positions by logical
	// shifts.
	ShiftFill bool
	// Engine selects the implementation to run, or "all" for a
	// cross-validating comparison of every registered engine.
	Engine string
	// Timeout bounds a whole run.
	Timeout time.Duration
	// Workers caps bank fan-out goroutines; zero picks a hardware-based
	// default.
	Workers int

	Verbose bool
	Details bool
	Quiet   bool
	// Trace prints the per-tick controller state during sequential runs.
	Trace bool

	REPL  bool
	TUI   bool
	Serve bool
	Addr  string

	OutputFile string
	NoColor    bool
	Completion string
}

// ParseConfig parses command line arguments into an AppConfig, applying
// environment overrides for flags not set on the command line. progName
// appears in usage output; errWriter receives flag error messages.
func ParseConfig(progName string, args []string, errWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(progName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	cfg := AppConfig{}
	fs.IntVar(&cfg.Width, "width", DefaultWidth, "operand width in bits (2 to 1024)")
	fs.IntVar(&cfg.Width, "w", DefaultWidth, "operand width (shorthand)")
	fs.IntVar(&cfg.Sets, "sets", DefaultSets, "independent lanes for batch runs (1 to 1000)")
	fs.StringVar(&cfg.Op, "op", DefaultOp, "operation mnemonic (add, sub, mul, div, shl, sha, lt, gt, eq, and, or, xor, not)")
	fs.StringVar(&cfg.OperandA, "a", "0", "operand A (decimal, 0b, 0o or 0x literal)")
	fs.StringVar(&cfg.OperandB, "b", "0", "operand B, or the shift amount for shl/sha")
	fs.StringVar(&cfg.ShiftDir, "dir", "left", "shift direction (left or right)")
	fs.BoolVar(&cfg.ShiftFill, "fill", false, "fill bit for logical shifts")
	fs.StringVar(&cfg.Engine, "engine", DefaultEngine, "engine to run (sequential, combinational, native or all)")
	fs.StringVar(&cfg.Engine, "e", DefaultEngine, "engine (shorthand)")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "global timeout for the run")
	fs.IntVar(&cfg.Workers, "workers", 0, "max goroutines for batch lane fan-out (0 = auto)")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "verbose output (shorthand)")
	fs.BoolVar(&cfg.Details, "details", false, "show tick counts and runtime indicators")
	fs.BoolVar(&cfg.Details, "d", false, "show details (shorthand)")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "suppress progress display")
	fs.BoolVar(&cfg.Quiet, "q", false, "quiet (shorthand)")
	fs.BoolVar(&cfg.Trace, "trace", false, "print per-tick controller state")
	fs.BoolVar(&cfg.REPL, "repl", false, "start the interactive console")
	fs.BoolVar(&cfg.TUI, "tui", false, "start the terminal front panel")
	fs.BoolVar(&cfg.Serve, "serve", false, "start the HTTP API server")
	fs.StringVar(&cfg.Addr, "addr", DefaultAddr, "listen address for -serve")
	fs.StringVar(&cfg.OutputFile, "output", "", "append results to a file")
	fs.StringVar(&cfg.OutputFile, "o", "", "output file (shorthand)")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "disable ANSI colors")
	fs.StringVar(&cfg.Completion, "completion", "", "print a completion script (bash, zsh or fish) and exit")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	applyEnvOverrides(&cfg, fs)
	return cfg, nil
}

// Validate checks every setting against its allowed range. Hard limits
// return a configuration error; soft limits log a warning and pass.
func (c *AppConfig) Validate(logger logging.Logger) error {
	if c.Width < seq.MinWidth || c.Width > seq.MaxWidth {
		return apperrors.NewConfigError("width must be between %d and %d, got %d", seq.MinWidth, seq.MaxWidth, c.Width)
	}
	if c.Width > seq.WarnWidth {
		logger.Warn("operand width above soft limit",
			logging.Int("width", c.Width),
			logging.Int("limit", seq.WarnWidth))
	}
	if c.Sets < lanes.MinSets || c.Sets > lanes.MaxSets {
		return apperrors.NewConfigError("sets must be between %d and %d, got %d", lanes.MinSets, lanes.MaxSets, c.Sets)
	}
	if c.Sets > lanes.WarnSets {
		logger.Warn("lane count above soft limit",
			logging.Int("sets", c.Sets),
			logging.Int("limit", lanes.WarnSets))
	}
	if _, err := comb.ParseOpcode(c.Op); err != nil {
		return apperrors.NewConfigError("unknown operation %q (want one of %s)", c.Op, strings.Join(opcodeNames(), ", "))
	}
	if c.Engine != EngineAll {
		if _, err := engine.NewRegistry().Get(c.Engine); err != nil {
			return apperrors.NewConfigError("%v", err)
		}
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %v", c.Timeout)
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("workers must not be negative, got %d", c.Workers)
	}
	if _, err := c.ToRequest(); err != nil {
		return err
	}
	if c.Serve && c.Addr == "" {
		return apperrors.NewConfigError("serve mode needs a listen address")
	}
	switch c.Completion {
	case "", "bash", "zsh", "fish":
	default:
		return apperrors.NewConfigError("unsupported completion shell %q (want bash, zsh or fish)", c.Completion)
	}
	return nil
}

// ToRequest assembles the engine request described by the operand and
// operation settings. For shift operations OperandB is read as the shift
// amount and packed into the control word together with -dir and -fill.
func (c *AppConfig) ToRequest() (engine.Request, error) {
	op, err := comb.ParseOpcode(c.Op)
	if err != nil {
		return engine.Request{}, apperrors.NewConfigError("%v", err)
	}
	a, err := bitvec.Parse(c.Width, c.OperandA)
	if err != nil {
		return engine.Request{}, apperrors.NewConfigError("operand A: %v", err)
	}

	var b bitvec.Vector
	if op.IsShift() {
		spec, err := c.shiftSpec(op)
		if err != nil {
			return engine.Request{}, err
		}
		b = comb.PackShiftSpec(c.Width, spec)
	} else {
		if b, err = bitvec.Parse(c.Width, c.OperandB); err != nil {
			return engine.Request{}, apperrors.NewConfigError("operand B: %v", err)
		}
	}

	return engine.Request{Opcode: op, Width: c.Width, A: a, B: b}, nil
}

func (c *AppConfig) shiftSpec(op comb.Opcode) (comb.ShiftSpec, error) {
	amount, err := strconv.ParseInt(strings.TrimSpace(c.OperandB), 0, 32)
	if err != nil || amount < 0 {
		return comb.ShiftSpec{}, apperrors.NewConfigError("shift amount %q must be a non-negative integer", c.OperandB)
	}
	spec := comb.ShiftSpec{Amount: int(amount), Fill: c.ShiftFill}
	switch strings.ToLower(c.ShiftDir) {
	case "l", "left":
		spec.Dir = comb.DirLeft
	case "r", "right":
		spec.Dir = comb.DirRight
	default:
		return comb.ShiftSpec{}, apperrors.NewConfigError("shift direction %q must be left or right", c.ShiftDir)
	}
	if op == comb.OpShiftArithmetic {
		spec.Mode = comb.ModeArithmetic
	}
	return spec, nil
}

// EngineNames resolves the -engine setting to the list of engine names a
// run should execute, "all" meaning every registered engine.
func (c *AppConfig) EngineNames(registry *engine.Registry) []string {
	if c.Engine == EngineAll {
		return registry.List()
	}
	e, err := registry.Get(c.Engine)
	if err != nil {
		return nil
	}
	return []string{e.Name()}
}

func opcodeNames() []string {
	ops := comb.Opcodes()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.String()
	}
	return names
}
