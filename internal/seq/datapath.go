package seq

import (
	"github.com/agbru/alusim/internal/bitvec"
	"github.com/agbru/alusim/internal/comb"
)

// datapath is the operation-specific half of a controller: which registers
// to latch when a start pulse arrives and what a single Step tick computes.
// Implementations own their registers outright; nothing is shared between
// the four controllers.
type datapath interface {
	// load latches the operand buses and clears the work registers.
	load(a, b bitvec.Vector)
	// step advances one tick. i counts Step ticks from zero.
	step(i int)
	// outputs reads the current result registers. Validity is signaled by
	// the controller's done output, but the registers always carry the
	// partials, which the front panel displays mid-flight.
	outputs() (hi, lo bitvec.Vector, flag bool)
	// zero resets the work registers to power-on values.
	zero()
}

func flagWord(width int, flag bool) bitvec.Vector {
	w := bitvec.New(width)
	if flag {
		w.SetBit(0, true)
	}
	return w
}

// addPath ripples one sum bit per tick, threading the carry through a
// private register.
type addPath struct {
	width int
	a, b  bitvec.Vector
	sum   bitvec.Vector
	carry bool
}

func newAddPath(width int) *addPath {
	p := &addPath{width: width}
	p.zero()
	return p
}

func (p *addPath) zero() {
	p.a, p.b = bitvec.New(p.width), bitvec.New(p.width)
	p.sum = bitvec.New(p.width)
	p.carry = false
}

func (p *addPath) load(a, b bitvec.Vector) {
	p.a, p.b = a.Clone(), b.Clone()
	p.sum = bitvec.New(p.width)
	p.carry = false
}

func (p *addPath) step(i int) {
	s, carry := comb.AddBit(p.a.Bit(i), p.b.Bit(i), p.carry)
	p.sum.SetBit(i, s)
	p.carry = carry
}

func (p *addPath) outputs() (bitvec.Vector, bitvec.Vector, bool) {
	return flagWord(p.width, p.carry), p.sum, p.carry
}

// subPath mirrors addPath with the borrow chain.
type subPath struct {
	width  int
	a, b   bitvec.Vector
	diff   bitvec.Vector
	borrow bool
}

func newSubPath(width int) *subPath {
	p := &subPath{width: width}
	p.zero()
	return p
}

func (p *subPath) zero() {
	p.a, p.b = bitvec.New(p.width), bitvec.New(p.width)
	p.diff = bitvec.New(p.width)
	p.borrow = false
}

func (p *subPath) load(a, b bitvec.Vector) {
	p.a, p.b = a.Clone(), b.Clone()
	p.diff = bitvec.New(p.width)
	p.borrow = false
}

func (p *subPath) step(i int) {
	d, borrow := comb.SubBit(p.a.Bit(i), p.b.Bit(i), p.borrow)
	p.diff.SetBit(i, d)
	p.borrow = borrow
}

func (p *subPath) outputs() (bitvec.Vector, bitvec.Vector, bool) {
	return flagWord(p.width, p.borrow), p.diff, p.borrow
}

// mulPath runs one full shift-and-add iteration per tick. The recurrence's
// init happens at load, so the Step ticks cover i = 1..W-1.
type mulPath struct {
	width  int
	a, b   bitvec.Vector
	lo, hi bitvec.Vector
}

func newMulPath(width int) *mulPath {
	p := &mulPath{width: width}
	p.zero()
	return p
}

func (p *mulPath) zero() {
	p.a, p.b = bitvec.New(p.width), bitvec.New(p.width)
	p.lo, p.hi = bitvec.New(p.width), bitvec.New(p.width)
}

func (p *mulPath) load(a, b bitvec.Vector) {
	p.a, p.b = a.Clone(), b.Clone()
	p.lo, p.hi = comb.MulInit(p.a, p.b)
}

func (p *mulPath) step(i int) {
	p.lo, p.hi = comb.MulStep(p.a, p.b, i+1, p.lo, p.hi)
}

func (p *mulPath) outputs() (bitvec.Vector, bitvec.Vector, bool) {
	return p.hi, p.lo, !p.hi.IsZero()
}

// divPath runs one full restoring round per tick against the latched
// divisor.
type divPath struct {
	width int
	b     bitvec.Vector
	st    comb.DivState
}

func newDivPath(width int) *divPath {
	p := &divPath{width: width}
	p.zero()
	return p
}

func (p *divPath) zero() {
	p.b = bitvec.New(p.width)
	p.st = comb.DivState{Rem: bitvec.New(p.width), Quot: bitvec.New(p.width)}
}

func (p *divPath) load(a, b bitvec.Vector) {
	p.b = b.Clone()
	p.st = comb.DivInit(a, b)
}

func (p *divPath) step(int) {
	p.st = comb.DivStep(p.b, p.st)
}

func (p *divPath) outputs() (bitvec.Vector, bitvec.Vector, bool) {
	return p.st.Rem, p.st.Quot, p.st.Flags.ZeroDivisor
}
