// Package bitvec provides the fixed-width unsigned bit vector used as the
// operand and result type throughout the datapath. A Vector's width is set
// at construction and never changes; every operation that combines two
// vectors requires equal widths. Values are stored little-endian in 64-bit
// words with all bits above the width held at zero, so word-level
// comparisons and copies are always safe.
package bitvec

import (
	"fmt"
	"math/big"
	"strings"
)

// MinWidth is the narrowest representable vector. Domain-level width limits
// (a machine's operand range, a bank's bus) belong to the components that
// own them; storage itself only refuses degenerate or absurd widths.
const MinWidth = 1

// maxStorageWidth is a sanity bound, wide enough for the largest
// concatenated lane bus.
const maxStorageWidth = 1 << 21

const wordBits = 64

// Vector is an unsigned bit vector of fixed width. The zero value is not
// usable; construct with New, FromUint64, FromBig or Parse.
type Vector struct {
	width int
	words []uint64
}

func wordCount(width int) int {
	return (width + wordBits - 1) / wordBits
}

func checkWidth(width int) {
	if width < MinWidth || width > maxStorageWidth {
		panic(fmt.Sprintf("bitvec: width %d outside [%d, %d]", width, MinWidth, maxStorageWidth))
	}
}

// New returns an all-zero vector of the given width. Invalid widths are
// programming errors and panic; callers that accept widths from users
// validate before constructing.
func New(width int) Vector {
	checkWidth(width)
	return Vector{width: width, words: make([]uint64, wordCount(width))}
}

// FromUint64 returns a vector of the given width holding v mod 2^width.
func FromUint64(width int, v uint64) Vector {
	out := New(width)
	out.words[0] = v
	out.canonicalize()
	return out
}

// FromBig returns a vector of the given width holding x mod 2^width.
// Negative x is reduced the way two's complement truncation would,
// so FromBig(4, -1) is 0b1111.
func FromBig(width int, x *big.Int) Vector {
	out := New(width)
	t := new(big.Int).Set(x)
	if t.Sign() < 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(width))
		t.Mod(t, mod) // Euclidean, result in [0, 2^width)
	}
	low := new(big.Int)
	mask := new(big.Int).SetUint64(^uint64(0))
	for i := range out.words {
		if t.Sign() == 0 {
			break
		}
		out.words[i] = low.And(t, mask).Uint64()
		t.Rsh(t, wordBits)
	}
	out.canonicalize()
	return out
}

// Parse interprets s as an unsigned integer literal (decimal, or prefixed
// 0b/0o/0x) and returns it truncated to the given width.
func Parse(width int, s string) (Vector, error) {
	checkWidth(width)
	t, ok := new(big.Int).SetString(strings.TrimSpace(s), 0)
	if !ok {
		return Vector{}, fmt.Errorf("bitvec: cannot parse %q as an unsigned integer", s)
	}
	if t.Sign() < 0 {
		return Vector{}, fmt.Errorf("bitvec: negative value %q", s)
	}
	return FromBig(width, t), nil
}

// MustParse is Parse for literals known to be well formed; it panics on
// malformed input and is intended for tests and constants.
func MustParse(width int, s string) Vector {
	v, err := Parse(width, s)
	if err != nil {
		panic(err)
	}
	return v
}

// Fill returns a vector of the given width with every bit set to bit.
func Fill(width int, bit bool) Vector {
	out := New(width)
	if bit {
		for i := range out.words {
			out.words[i] = ^uint64(0)
		}
		out.canonicalize()
	}
	return out
}

// canonicalize clears the storage bits above the width.
func (v *Vector) canonicalize() {
	if rem := v.width % wordBits; rem != 0 {
		v.words[len(v.words)-1] &= (uint64(1) << rem) - 1
	}
}

// Width reports the fixed width in bits.
func (v Vector) Width() int { return v.width }

// Bit reports bit i, with bit 0 the least significant.
func (v Vector) Bit(i int) bool {
	if i < 0 || i >= v.width {
		panic(fmt.Sprintf("bitvec: bit %d out of range for width %d", i, v.width))
	}
	return v.words[i/wordBits]>>(uint(i)%wordBits)&1 == 1
}

// SetBit sets bit i in place.
func (v Vector) SetBit(i int, bit bool) {
	if i < 0 || i >= v.width {
		panic(fmt.Sprintf("bitvec: bit %d out of range for width %d", i, v.width))
	}
	mask := uint64(1) << (uint(i) % wordBits)
	if bit {
		v.words[i/wordBits] |= mask
	} else {
		v.words[i/wordBits] &^= mask
	}
}

// MSB reports the most significant bit, the sign bit of arithmetic shifts.
func (v Vector) MSB() bool { return v.Bit(v.width - 1) }

// IsZero reports whether every bit is clear.
func (v Vector) IsZero() bool {
	for _, w := range v.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether o has the same width and the same bits.
func (v Vector) Equal(o Vector) bool {
	if v.width != o.width {
		return false
	}
	for i, w := range v.words {
		if w != o.words[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy sharing no storage with v.
func (v Vector) Clone() Vector {
	out := Vector{width: v.width, words: make([]uint64, len(v.words))}
	copy(out.words, v.words)
	return out
}

// Uint64 returns the low 64 bits of the value.
func (v Vector) Uint64() uint64 {
	if len(v.words) == 0 {
		return 0
	}
	return v.words[0]
}

// Big returns the value as a fresh big.Int.
func (v Vector) Big() *big.Int {
	out := new(big.Int)
	for i := len(v.words) - 1; i >= 0; i-- {
		out.Lsh(out, wordBits)
		out.Or(out, new(big.Int).SetUint64(v.words[i]))
	}
	return out
}

// String renders the vector in binary, most significant bit first,
// zero-padded to the full width.
func (v Vector) String() string {
	var b strings.Builder
	b.Grow(v.width)
	for i := v.width - 1; i >= 0; i-- {
		if v.Bit(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Hex renders the vector in lowercase hexadecimal, zero-padded to
// ceil(width/4) digits.
func (v Vector) Hex() string {
	return fmt.Sprintf("%0*x", (v.width+3)/4, v.Big())
}

func mustMatch(a, b Vector) {
	if a.width != b.width {
		panic(fmt.Sprintf("bitvec: width mismatch %d vs %d", a.width, b.width))
	}
}

// And returns the bitwise conjunction of v and o. Widths must match.
func (v Vector) And(o Vector) Vector {
	mustMatch(v, o)
	out := v.Clone()
	for i := range out.words {
		out.words[i] &= o.words[i]
	}
	return out
}

// Or returns the bitwise disjunction of v and o. Widths must match.
func (v Vector) Or(o Vector) Vector {
	mustMatch(v, o)
	out := v.Clone()
	for i := range out.words {
		out.words[i] |= o.words[i]
	}
	return out
}

// Xor returns the bitwise exclusive or of v and o. Widths must match.
func (v Vector) Xor(o Vector) Vector {
	mustMatch(v, o)
	out := v.Clone()
	for i := range out.words {
		out.words[i] ^= o.words[i]
	}
	return out
}

// Not returns the bitwise complement of v.
func (v Vector) Not() Vector {
	out := v.Clone()
	for i := range out.words {
		out.words[i] = ^out.words[i]
	}
	out.canonicalize()
	return out
}
