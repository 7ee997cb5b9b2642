// Package comb implements the combinational datapath cores: ripple-carry
// addition and subtraction, comparison, barrel shifting, shift-and-add
// multiplication and restoring division. Everything here is a pure function
// of fixed-width operands; clocked sequencing lives in package seq.
//
// Operand widths must agree. A width mismatch is a programming error and
// panics; user-supplied widths are validated before vectors reach this
// package.
package comb
