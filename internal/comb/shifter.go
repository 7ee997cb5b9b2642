package comb

import (
	"fmt"

	"github.com/agbru/alusim/internal/bitvec"
)

// Direction selects which end of the vector a shift moves toward.
type Direction uint8

const (
	// DirLeft shifts toward the most significant bit.
	DirLeft Direction = iota
	// DirRight shifts toward bit zero.
	DirRight
)

// Mode distinguishes logical from sign-aware shifting.
type Mode uint8

const (
	ModeLogical Mode = iota
	ModeArithmetic
)

// ShiftSpec describes one barrel-shifter operation as independent fields.
// The legacy packed control word is handled by PackShiftSpec and
// DecodeShiftSpec; everything else works with this struct.
type ShiftSpec struct {
	Dir    Direction
	Amount int
	Fill   bool // shifted-in bit for logical shifts
	Mode   Mode
}

// Shift moves in by spec.Amount positions and returns the result together
// with the displaced bits. The overflow word holds those bits right
// aligned, so for a left shift by k
//
//	value(in) << k == value(overflow)*2^W + value(result)
//
// and for a right shift by k, overflow == value(in) mod 2^k.
//
// Logical shifts fill vacated positions with spec.Fill; an arithmetic right
// shift sign-extends from the input's top bit, and an arithmetic left shift
// behaves as a logical left shift with zero fill. Amount 0 is a no-op with
// zero overflow; amounts of the width or more displace every bit (result is
// all fill, overflow is the whole input). Negative amounts panic.
func Shift(in bitvec.Vector, spec ShiftSpec) (result, overflow bitvec.Vector) {
	w := in.Width()
	k := spec.Amount
	if k < 0 {
		panic(fmt.Sprintf("comb: negative shift amount %d", k))
	}
	if k > w {
		k = w
	}

	fill := spec.Fill
	if spec.Mode == ModeArithmetic {
		if spec.Dir == DirRight {
			fill = in.MSB()
		} else {
			fill = false
		}
	}

	result = bitvec.New(w)
	overflow = bitvec.New(w)
	switch spec.Dir {
	case DirLeft:
		for j := k; j < w; j++ {
			result.SetBit(j, in.Bit(j-k))
		}
		for j := 0; j < k; j++ {
			result.SetBit(j, fill)
		}
		for j := 0; j < k; j++ {
			overflow.SetBit(j, in.Bit(w-k+j))
		}
	case DirRight:
		for j := 0; j < w-k; j++ {
			result.SetBit(j, in.Bit(j+k))
		}
		for j := w - k; j < w; j++ {
			result.SetBit(j, fill)
		}
		for j := 0; j < k; j++ {
			overflow.SetBit(j, in.Bit(j))
		}
	default:
		panic(fmt.Sprintf("comb: unknown shift direction %d", spec.Dir))
	}
	return result, overflow
}

// PackShiftSpec encodes spec into the legacy W-bit control word: bit 0 is
// the direction (1 = right), bits [W-2:1] the amount, bit W-1 the fill.
// Amounts wider than the field are truncated to it. The word width must be
// at least 2.
func PackShiftSpec(width int, spec ShiftSpec) bitvec.Vector {
	if width < 2 {
		panic(fmt.Sprintf("comb: shift control word needs width >= 2, got %d", width))
	}
	word := bitvec.New(width)
	if spec.Dir == DirRight {
		word.SetBit(0, true)
	}
	for j := 0; j < width-2; j++ {
		if spec.Amount>>uint(j)&1 == 1 {
			word.SetBit(1+j, true)
		}
	}
	if spec.Fill {
		word.SetBit(width-1, true)
	}
	return word
}

// DecodeShiftSpec reads the legacy control word back into its fields. The
// mode is carried by the opcode, not the word, so the caller supplies it.
// Decoded amounts are clamped to the word width; Shift saturates there
// anyway.
func DecodeShiftSpec(word bitvec.Vector, mode Mode) ShiftSpec {
	w := word.Width()
	if w < 2 {
		panic(fmt.Sprintf("comb: shift control word needs width >= 2, got %d", w))
	}
	spec := ShiftSpec{Mode: mode}
	if word.Bit(0) {
		spec.Dir = DirRight
	}
	for j := 0; j < w-2; j++ {
		if !word.Bit(1 + j) {
			continue
		}
		if j < 31 {
			spec.Amount |= 1 << uint(j)
		} else {
			spec.Amount = w
		}
	}
	if spec.Amount > w {
		spec.Amount = w
	}
	if word.Bit(w - 1) {
		spec.Fill = true
	}
	return spec
}
