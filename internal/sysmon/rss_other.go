//go:build !linux && !darwin

package sysmon

// peakRSS is unavailable on this platform.
func peakRSS() uint64 { return 0 }
