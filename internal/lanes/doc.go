// Package lanes replicates a single-lane machine across a concatenated
// bus. A bank of SETS independent lanes shares the clock, reset, start
// and opcode lines; lane i reads and writes bit range [i*W, i*W+W) of
// every operand and result bus.
package lanes
