package seq

import (
	"github.com/agbru/alusim/internal/bitvec"
	"github.com/agbru/alusim/internal/comb"
	apperrors "github.com/agbru/alusim/internal/errors"
	"github.com/agbru/alusim/internal/logging"
)

// Operand width limits for a single machine. The packed shift control word
// needs at least a direction and a fill bit, hence the floor of 2. Widths
// above WarnWidth work but tick slowly enough to deserve a warning.
const (
	MinWidth  = 2
	MaxWidth  = 1024
	WarnWidth = 256
)

// Inputs is the per-tick input bus. Start and Reset are one-tick pulses;
// the operand and opcode lines may change freely between ticks, since the
// controllers latch what they need when a run begins.
type Inputs struct {
	Reset  bool
	Start  bool
	Opcode comb.Opcode
	A, B   bitvec.Vector
}

// Outputs is the per-tick output bus. Low carries the principal result
// word (sum, difference, product low word, quotient, shift result or
// bitwise result); High the companion word (carry or borrow widened to a
// word, product high word, remainder, displaced shift bits). Flag is the
// opcode's condition bit and Done marks result validity.
type Outputs struct {
	High bitvec.Vector
	Low  bitvec.Vector
	Flag bool
	Done bool
}

// Machine is one single-lane ALU instance: the four sequential controllers
// plus the combinational dispatcher over them. It is not safe for
// concurrent use; a lane belongs to one goroutine at a time.
type Machine struct {
	width int
	add   *Control
	sub   *Control
	mul   *Control
	div   *Control
	ticks uint64
}

// Option configures a Machine at construction.
type Option func(*settings)

type settings struct {
	logger logging.Logger
}

// WithLogger routes construction diagnostics to the given logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// New constructs a machine of the given operand width. Widths outside
// [MinWidth, MaxWidth] are configuration errors; widths above WarnWidth
// are accepted with a warning.
func New(width int, opts ...Option) (*Machine, error) {
	cfg := settings{logger: logging.NopLogger{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if width < MinWidth || width > MaxWidth {
		return nil, apperrors.ValidationError{
			Field:   "width",
			Message: "must be between 2 and 1024",
		}
	}
	if width > WarnWidth {
		cfg.logger.Warn("operand width above soft limit, ticks will be slow",
			logging.Int("width", width),
			logging.Int("limit", WarnWidth))
	}
	return &Machine{
		width: width,
		add:   newControl("add", width, newAddPath(width)),
		sub:   newControl("sub", width, newSubPath(width)),
		mul:   newControl("mul", width-1, newMulPath(width)),
		div:   newControl("div", width, newDivPath(width)),
	}, nil
}

// Width reports the operand width fixed at construction.
func (m *Machine) Width() int { return m.width }

// IdleInputs returns a quiet input bus of the machine's width: no pulses,
// NoOp opcode, zero operands. Ticking with it just advances the clock.
func (m *Machine) IdleInputs() Inputs {
	return Inputs{Opcode: comb.OpNoOp, A: bitvec.New(m.width), B: bitvec.New(m.width)}
}

// Ticks reports how many clock ticks the machine has observed.
func (m *Machine) Ticks() uint64 { return m.ticks }

// Tick advances the machine by one clock and returns the dispatcher's view
// of the output bus. The shared start line reaches all four controllers,
// so a single pulse starts every one of them; each advances from its own
// previous-tick state and the dispatcher forwards whichever unit the
// opcode selects.
func (m *Machine) Tick(in Inputs) Outputs {
	m.checkOperands(in)
	m.add.Tick(in)
	m.sub.Tick(in)
	m.mul.Tick(in)
	m.div.Tick(in)
	m.ticks++
	return m.evaluate(in)
}

func (m *Machine) checkOperands(in Inputs) {
	if in.A.Width() != m.width || in.B.Width() != m.width {
		panic("seq: operand width does not match machine width")
	}
}

// evaluate is the dispatcher: purely combinational over the current inputs
// and the controllers' registered state. Single-cycle opcodes complete
// every tick with done high regardless of start; multi-cycle opcodes
// forward their controller's outputs and done.
func (m *Machine) evaluate(in Inputs) Outputs {
	if in.Opcode.IsMultiCycle() {
		c := m.controllerFor(in.Opcode)
		hi, lo, flag := c.Outputs()
		return Outputs{High: hi, Low: lo, Flag: flag, Done: c.Done()}
	}
	hi, lo, flag := comb.EvalSingleCycle(in.Opcode, in.A, in.B)
	return Outputs{High: hi, Low: lo, Flag: flag, Done: true}
}

func (m *Machine) controllerFor(op comb.Opcode) *Control {
	switch op {
	case comb.OpAdd:
		return m.add
	case comb.OpSub:
		return m.sub
	case comb.OpMul:
		return m.mul
	case comb.OpDiv:
		return m.div
	default:
		panic("seq: no controller for opcode " + op.String())
	}
}

// ControllerView is a read-only snapshot of one controller, for trace
// output and the front panel.
type ControllerView struct {
	Name  string
	Phase Phase
	Count int
	Steps int
	Done  bool
	High  bitvec.Vector
	Low   bitvec.Vector
	Flag  bool
}

// Views snapshots all four controllers in opcode order.
func (m *Machine) Views() []ControllerView {
	out := make([]ControllerView, 0, 4)
	for _, c := range []*Control{m.add, m.sub, m.mul, m.div} {
		hi, lo, flag := c.Outputs()
		out = append(out, ControllerView{
			Name:  c.Name(),
			Phase: c.Phase(),
			Count: c.Count(),
			Steps: c.Steps(),
			Done:  c.Done(),
			High:  hi.Clone(),
			Low:   lo.Clone(),
			Flag:  flag,
		})
	}
	return out
}
