package lanes

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/alusim/internal/bitvec"
	"github.com/agbru/alusim/internal/comb"
	apperrors "github.com/agbru/alusim/internal/errors"
	"github.com/agbru/alusim/internal/logging"
	"github.com/agbru/alusim/internal/seq"
)

// Lane count limits for a bank. Banks above WarnSets work but allocate a
// machine per lane, so construction logs a warning.
const (
	MinSets  = 1
	MaxSets  = 1000
	WarnSets = 500
)

// parallelCutoff is the bank size below which Tick walks the lanes on the
// calling goroutine. Each lane tick is a few hundred nanoseconds of work,
// so the fan-out only pays for itself on wide banks.
const parallelCutoff = 64

// BusInputs is the concatenated input bus for one tick. Reset, Start and
// Opcode are shared lines reaching every lane; A and B carry one W-bit
// operand per lane and must be exactly Width*Sets bits wide.
type BusInputs struct {
	Reset  bool
	Start  bool
	Opcode comb.Opcode
	A      bitvec.Vector
	B      bitvec.Vector
}

// BusOutputs is the concatenated output bus. High and Low are Width*Sets
// bits with lane i in bit range [i*W, i*W+W). Flags and Done hold one bit
// per lane. AllDone folds the done bits for callers that only wait.
type BusOutputs struct {
	High    bitvec.Vector
	Low     bitvec.Vector
	Flags   bitvec.Vector
	Done    bitvec.Vector
	AllDone bool
}

// Bank is a fixed array of independent single-lane machines behind a
// concatenated bus. Lanes never share state, so a bank tick may run them
// concurrently without changing any lane's result.
type Bank struct {
	width   int
	sets    int
	lanes   []*seq.Machine
	workers int
}

type settings struct {
	logger  logging.Logger
	workers int
}

// Option adjusts bank construction.
type Option func(*settings)

// WithLogger routes construction warnings to the given logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithWorkers caps the number of goroutines a bank tick may fan out to.
// Values below one select the runtime's processor count.
func WithWorkers(n int) Option {
	return func(s *settings) { s.workers = n }
}

// NewBank constructs a bank of sets lanes, each a machine of the given
// operand width. Lane counts outside [MinSets, MaxSets] are configuration
// errors; counts above WarnSets are accepted with a warning.
func NewBank(width, sets int, opts ...Option) (*Bank, error) {
	cfg := settings{logger: logging.NopLogger{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if sets < MinSets || sets > MaxSets {
		return nil, apperrors.ValidationError{
			Field:   "sets",
			Message: "must be between 1 and 1000",
		}
	}
	if sets > WarnSets {
		cfg.logger.Warn("lane count above soft limit, bank ticks will be heavy",
			logging.Int("sets", sets),
			logging.Int("limit", WarnSets))
	}
	b := &Bank{
		width:   width,
		sets:    sets,
		lanes:   make([]*seq.Machine, sets),
		workers: cfg.workers,
	}
	if b.workers < 1 {
		b.workers = runtime.GOMAXPROCS(0)
	}
	for i := range b.lanes {
		m, err := seq.New(width, seq.WithLogger(cfg.logger))
		if err != nil {
			return nil, err
		}
		b.lanes[i] = m
	}
	return b, nil
}

// Width reports the per-lane operand width.
func (b *Bank) Width() int { return b.width }

// Sets reports the lane count.
func (b *Bank) Sets() int { return b.sets }

// BusWidth reports the concatenated operand bus width, Width*Sets.
func (b *Bank) BusWidth() int { return b.width * b.sets }

// Lane exposes lane i's machine for inspection. Ticking it directly
// desynchronizes the lane from the bank clock.
func (b *Bank) Lane(i int) *seq.Machine { return b.lanes[i] }

// IdleInputs returns a quiet bus of the bank's dimensions.
func (b *Bank) IdleInputs() BusInputs {
	return BusInputs{Opcode: comb.OpNoOp, A: bitvec.New(b.BusWidth()), B: bitvec.New(b.BusWidth())}
}

// Tick advances every lane by one clock and reassembles the concatenated
// output bus. Banks at or above the parallel cutoff split the lanes into
// per-worker chunks under an errgroup; per-lane results land in disjoint
// slots, so the join imposes the same outputs as a serial walk.
func (b *Bank) Tick(in BusInputs) (BusOutputs, error) {
	if err := b.checkBus(in); err != nil {
		return BusOutputs{}, err
	}

	high := make([]bitvec.Vector, b.sets)
	low := make([]bitvec.Vector, b.sets)
	flag := make([]bool, b.sets)
	done := make([]bool, b.sets)

	tickLane := func(i int) {
		out := b.lanes[i].Tick(seq.Inputs{
			Reset:  in.Reset,
			Start:  in.Start,
			Opcode: in.Opcode,
			A:      in.A.Lane(i, b.width),
			B:      in.B.Lane(i, b.width),
		})
		high[i], low[i] = out.High, out.Low
		flag[i], done[i] = out.Flag, out.Done
	}

	if b.sets < parallelCutoff || b.workers == 1 {
		for i := range b.lanes {
			tickLane(i)
		}
	} else {
		var g errgroup.Group
		chunk := (b.sets + b.workers - 1) / b.workers
		for start := 0; start < b.sets; start += chunk {
			start := start // fresh variable per iteration for the closure below (pre-1.22 loop semantics)
			end := min(start+chunk, b.sets)
			g.Go(func() error {
				for i := start; i < end; i++ {
					tickLane(i)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return BusOutputs{}, err
		}
	}

	out := BusOutputs{
		High:    bitvec.Concat(high...),
		Low:     bitvec.Concat(low...),
		Flags:   packBits(flag),
		Done:    packBits(done),
		AllDone: true,
	}
	for _, d := range done {
		if !d {
			out.AllDone = false
			break
		}
	}
	return out, nil
}

func (b *Bank) checkBus(in BusInputs) error {
	if in.A.Width() != b.BusWidth() || in.B.Width() != b.BusWidth() {
		return apperrors.ValidationError{
			Field:   "bus",
			Message: fmt.Sprintf("operand buses must be %d bits, got %d and %d", b.BusWidth(), in.A.Width(), in.B.Width()),
		}
	}
	return nil
}

// PackLanes validates that every lane operand has the given width and
// concatenates them into a bus, lane 0 in the low bits.
func PackLanes(width int, operands ...bitvec.Vector) (bitvec.Vector, error) {
	for i, v := range operands {
		if v.Width() != width {
			return bitvec.Vector{}, apperrors.ValidationError{
				Field:   "lane",
				Message: fmt.Sprintf("lane %d is %d bits, want %d", i, v.Width(), width),
			}
		}
	}
	return bitvec.Concat(operands...), nil
}

func packBits(bits []bool) bitvec.Vector {
	v := bitvec.New(len(bits))
	for i, bit := range bits {
		if bit {
			v.SetBit(i, true)
		}
	}
	return v
}
