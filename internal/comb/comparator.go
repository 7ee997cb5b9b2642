package comb

import "github.com/agbru/alusim/internal/bitvec"

// Less reports a < b unsigned, read directly off the subtractor borrow.
func Less(a, b bitvec.Vector) bool {
	_, borrow := Sub(a, b)
	return borrow
}

// Greater reports a > b unsigned.
func Greater(a, b bitvec.Vector) bool {
	return Less(b, a)
}

// Equal reports a == b as the NOR of both strict orders.
func Equal(a, b bitvec.Vector) bool {
	return !Less(a, b) && !Greater(a, b)
}
