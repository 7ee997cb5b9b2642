package comb

import "github.com/agbru/alusim/internal/bitvec"

// MulInit primes the running partial product for the shift-and-add
// recurrence: (lo, hi) = (b[0] ? a : 0, 0).
func MulInit(a, b bitvec.Vector) (lo, hi bitvec.Vector) {
	checkWidths(a, b)
	if b.Bit(0) {
		lo = a.Clone()
	} else {
		lo = bitvec.New(a.Width())
	}
	return lo, bitvec.New(a.Width())
}

// MulStep folds step i of the recurrence into the partial product: when
// b[i] is set, a<<i is added into lo and the shift spill plus the carry
// out of the low addition into hi. When b[i] is clear the partials pass
// through unchanged.
func MulStep(a, b bitvec.Vector, i int, lo, hi bitvec.Vector) (bitvec.Vector, bitvec.Vector) {
	if !b.Bit(i) {
		return lo, hi
	}
	shifted, spill := Shift(a, ShiftSpec{Dir: DirLeft, Amount: i})
	newLo, carry := Add(lo, shifted)
	newHi, _ := Add(hi, spill)
	if carry {
		newHi, _ = Add(newHi, bitvec.FromUint64(hi.Width(), 1))
	}
	return newLo, newHi
}

// Multiply returns the exact 2W-bit product of two W-bit operands split
// into words:
//
//	a * b == hi*2^W + lo
//
// The full range of the double-width result is always representable, so
// there is no overflow condition.
func Multiply(a, b bitvec.Vector) (lo, hi bitvec.Vector) {
	lo, hi = MulInit(a, b)
	for i := 1; i < a.Width(); i++ {
		lo, hi = MulStep(a, b, i, lo, hi)
	}
	return lo, hi
}
