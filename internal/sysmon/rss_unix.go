//go:build linux || darwin

package sysmon

import "golang.org/x/sys/unix"

// peakRSS reads the high-water resident set size via getrusage.
// ru_maxrss is kilobytes on Linux and bytes on macOS.
func peakRSS() uint64 {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	return uint64(ru.Maxrss) * maxRSSUnit
}
