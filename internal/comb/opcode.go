package comb

import (
	"fmt"

	"github.com/agbru/alusim/internal/bitvec"
)

// Opcode selects the ALU operation. The wire encoding is a 4-bit field
// with 13 defined codes; every other nibble value decodes to OpNoOp.
type Opcode uint8

const (
	OpAdd             Opcode = iota // 0000
	OpSub                           // 0001
	OpMul                           // 0010
	OpDiv                           // 0011
	OpShiftLogical                  // 0100
	OpShiftArithmetic               // 0101
	OpLessThan                      // 0110
	OpGreaterThan                   // 0111
	OpEqual                         // 1000
	OpAnd                           // 1001
	OpOr                            // 1010
	OpXor                           // 1011
	OpNot                           // 1100
	OpNoOp                          // any undefined nibble
)

const definedOpcodes = 13

var opcodeNames = [...]string{
	OpAdd:             "add",
	OpSub:             "sub",
	OpMul:             "mul",
	OpDiv:             "div",
	OpShiftLogical:    "shl",
	OpShiftArithmetic: "sha",
	OpLessThan:        "lt",
	OpGreaterThan:     "gt",
	OpEqual:           "eq",
	OpAnd:             "and",
	OpOr:              "or",
	OpXor:             "xor",
	OpNot:             "not",
	OpNoOp:            "noop",
}

// OpcodeFromNibble decodes a 4-bit wire value. Undefined codes fold into
// OpNoOp rather than erroring.
func OpcodeFromNibble(n uint8) Opcode {
	n &= 0xF
	if n < definedOpcodes {
		return Opcode(n)
	}
	return OpNoOp
}

// ParseOpcode resolves a mnemonic as printed by String.
func ParseOpcode(s string) (Opcode, error) {
	for op, name := range opcodeNames {
		if name == s {
			return Opcode(op), nil
		}
	}
	return OpNoOp, fmt.Errorf("unknown opcode %q", s)
}

// Opcodes lists the defined codes in wire order.
func Opcodes() []Opcode {
	out := make([]Opcode, definedOpcodes)
	for i := range out {
		out[i] = Opcode(i)
	}
	return out
}

func (o Opcode) String() string {
	if int(o) < len(opcodeNames) {
		return opcodeNames[o]
	}
	return "noop"
}

// Nibble returns the 4-bit wire encoding. OpNoOp is represented by 1111,
// one of the undefined codes it stands for.
func (o Opcode) Nibble() uint8 {
	if o < definedOpcodes {
		return uint8(o)
	}
	return 0xF
}

// IsMultiCycle reports whether the opcode runs through a sequential
// controller instead of completing combinationally.
func (o Opcode) IsMultiCycle() bool {
	return o <= OpDiv
}

// IsShift reports whether operand b carries the packed shift control word.
func (o Opcode) IsShift() bool {
	return o == OpShiftLogical || o == OpShiftArithmetic
}

// EvalSingleCycle computes the combinational opcodes. Shift opcodes read
// operand b as the packed control word and return (overflow, result).
// Compare opcodes report only the flag, with both result words zeroed.
// Bitwise opcodes put their result in lo and flag its zeroness. NoOp
// produces zero outputs with the flag low. Multi-cycle opcodes panic; they
// go through their controllers.
func EvalSingleCycle(op Opcode, a, b bitvec.Vector) (hi, lo bitvec.Vector, flag bool) {
	w := a.Width()
	switch op {
	case OpShiftLogical, OpShiftArithmetic:
		mode := ModeLogical
		if op == OpShiftArithmetic {
			mode = ModeArithmetic
		}
		result, overflow := Shift(a, DecodeShiftSpec(b, mode))
		return overflow, result, !overflow.IsZero()
	case OpLessThan:
		return bitvec.New(w), bitvec.New(w), Less(a, b)
	case OpGreaterThan:
		return bitvec.New(w), bitvec.New(w), Greater(a, b)
	case OpEqual:
		return bitvec.New(w), bitvec.New(w), Equal(a, b)
	case OpAnd:
		lo = a.And(b)
	case OpOr:
		lo = a.Or(b)
	case OpXor:
		lo = a.Xor(b)
	case OpNot:
		lo = a.Not()
	case OpNoOp:
		return bitvec.New(w), bitvec.New(w), false
	default:
		panic(fmt.Sprintf("comb: opcode %s is multi-cycle", op))
	}
	return bitvec.New(w), lo, lo.IsZero()
}
