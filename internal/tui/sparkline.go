package tui

import "strings"

// sparklineChars are the eighth-block glyphs used to plot one sample
// per column, from empty to full.
var sparklineChars = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RingBuffer is a fixed-capacity sample history. Pushing past the
// capacity overwrites the oldest sample, so the buffer always holds
// the most recent window.
type RingBuffer struct {
	data  []float64
	head  int
	count int
}

// NewRingBuffer returns a buffer holding up to capacity samples.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer{data: make([]float64, capacity)}
}

// Push appends a sample, evicting the oldest when full.
func (r *RingBuffer) Push(v float64) {
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
}

// Len returns the number of samples currently held.
func (r *RingBuffer) Len() int { return r.count }

// Cap returns the buffer capacity.
func (r *RingBuffer) Cap() int { return len(r.data) }

// Last returns the most recent sample, or 0 when empty.
func (r *RingBuffer) Last() float64 {
	if r.count == 0 {
		return 0
	}
	return r.data[(r.head-1+len(r.data))%len(r.data)]
}

// Slice returns the samples in chronological order, oldest first.
func (r *RingBuffer) Slice() []float64 {
	out := make([]float64, r.count)
	if r.count == 0 {
		return out
	}
	start := (r.head - r.count + len(r.data)) % len(r.data)
	n := copy(out, r.data[start:])
	if n < r.count {
		copy(out[n:], r.data[:r.head])
	}
	return out
}

// Resize changes the capacity, keeping the most recent samples that
// still fit.
func (r *RingBuffer) Resize(capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	if capacity == len(r.data) {
		return
	}
	old := r.Slice()
	if len(old) > capacity {
		old = old[len(old)-capacity:]
	}
	r.data = make([]float64, capacity)
	r.head = 0
	r.count = 0
	for _, v := range old {
		r.Push(v)
	}
}

// Reset empties the buffer without changing its capacity.
func (r *RingBuffer) Reset() {
	r.head = 0
	r.count = 0
}

// RenderSparkline plots values in the 0..100 range as one block glyph
// per sample. Out-of-range values are clamped.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(values) * 3)
	for _, v := range values {
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		idx := int(v / 100 * 7)
		b.WriteRune(sparklineChars[idx])
	}
	return b.String()
}

// brailleDots maps (column, row) within a braille cell to the dot bit
// for that position. Columns are left/right, rows top to bottom.
var brailleDots = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// RenderBrailleChart plots values in the 0..100 range as a dot chart
// using braille cells, rows lines tall and at most width cells wide.
// The newest samples are right-aligned. Each cell packs two samples
// horizontally and four levels vertically.
func RenderBrailleChart(values []float64, width, rows int) string {
	if width < 1 || rows < 1 || len(values) == 0 {
		return ""
	}
	maxSamples := width * 2
	if len(values) > maxSamples {
		values = values[len(values)-maxSamples:]
	}
	cells := (len(values) + 1) / 2
	levels := rows * 4

	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = make([]rune, cells)
		for j := range grid[i] {
			grid[i][j] = 0x2800
		}
	}
	for i, v := range values {
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		level := int(v / 100 * float64(levels-1))
		row := rows - 1 - level/4
		dot := 3 - level%4
		grid[row][i/2] |= brailleDots[i%2][dot]
	}

	pad := strings.Repeat(" ", width-cells)
	lines := make([]string, rows)
	for i, rowRunes := range grid {
		lines[i] = pad + string(rowRunes)
	}
	return strings.Join(lines, "\n")
}
