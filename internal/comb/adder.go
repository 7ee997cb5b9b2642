package comb

import (
	"fmt"

	"github.com/agbru/alusim/internal/bitvec"
)

func checkWidths(a, b bitvec.Vector) {
	if a.Width() != b.Width() {
		panic(fmt.Sprintf("comb: operand widths %d and %d differ", a.Width(), b.Width()))
	}
}

// AddBit is a single full-adder stage.
func AddBit(a, b, carryIn bool) (sum, carryOut bool) {
	halfSum := a != b
	sum = halfSum != carryIn
	carryOut = (a && b) || (halfSum && carryIn)
	return sum, carryOut
}

// SubBit is a single full-subtractor stage computing a - b - borrowIn.
func SubBit(a, b, borrowIn bool) (diff, borrowOut bool) {
	halfDiff := a != b
	diff = halfDiff != borrowIn
	borrowOut = (!a && b) || (!halfDiff && borrowIn)
	return diff, borrowOut
}

// Add sums two equal-width vectors through a ripple-carry chain running
// from bit 0 to the top bit. Returns the modular sum and the final carry.
func Add(a, b bitvec.Vector) (bitvec.Vector, bool) {
	checkWidths(a, b)
	sum := bitvec.New(a.Width())
	carry := false
	for i := 0; i < a.Width(); i++ {
		var s bool
		s, carry = AddBit(a.Bit(i), b.Bit(i), carry)
		sum.SetBit(i, s)
	}
	return sum, carry
}

// Sub computes a - b through a ripple-borrow chain. The final borrow is
// true exactly when a < b unsigned; the difference is modulo 2^width.
func Sub(a, b bitvec.Vector) (bitvec.Vector, bool) {
	checkWidths(a, b)
	diff := bitvec.New(a.Width())
	borrow := false
	for i := 0; i < a.Width(); i++ {
		var d bool
		d, borrow = SubBit(a.Bit(i), b.Bit(i), borrow)
		diff.SetBit(i, d)
	}
	return diff, borrow
}
