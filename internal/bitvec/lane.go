package bitvec

import "fmt"

// Concat packs lanes into one bus vector with lane 0 at the least
// significant end, so lane i occupies bits [i*w, i*w+w) of the result.
// All lanes must share one width.
func Concat(lanes ...Vector) Vector {
	if len(lanes) == 0 {
		panic("bitvec: Concat of no lanes")
	}
	w := lanes[0].width
	for _, l := range lanes {
		if l.width != w {
			panic(fmt.Sprintf("bitvec: Concat lane width %d, want %d", l.width, w))
		}
	}
	bus := New(w * len(lanes))
	for i, l := range lanes {
		copyBits(bus, i*w, l)
	}
	return bus
}

// Lane extracts lane i of the given width from a bus vector.
func (v Vector) Lane(i, laneWidth int) Vector {
	if laneWidth < MinWidth {
		panic(fmt.Sprintf("bitvec: lane width %d", laneWidth))
	}
	low := i * laneWidth
	if i < 0 || low+laneWidth > v.width {
		panic(fmt.Sprintf("bitvec: lane %d of width %d out of range for bus width %d", i, laneWidth, v.width))
	}
	out := New(laneWidth)
	if low%wordBits == 0 && laneWidth%wordBits == 0 {
		copy(out.words, v.words[low/wordBits:(low+laneWidth)/wordBits])
		return out
	}
	for b := 0; b < laneWidth; b++ {
		if v.Bit(low + b) {
			out.SetBit(b, true)
		}
	}
	return out
}

// copyBits writes src into dst starting at dst bit dstOff. dst must be
// large enough; src keeps its own width.
func copyBits(dst Vector, dstOff int, src Vector) {
	if dstOff%wordBits == 0 && src.width%wordBits == 0 {
		copy(dst.words[dstOff/wordBits:], src.words)
		return
	}
	for b := 0; b < src.width; b++ {
		if src.Bit(b) {
			dst.SetBit(dstOff+b, true)
		}
	}
}
