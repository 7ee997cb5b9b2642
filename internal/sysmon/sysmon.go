// Package sysmon samples system-wide CPU and memory usage plus the
// process high-water RSS for the TUI metrics panel.
package sysmon

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
	PeakRSS    uint64  // peak resident set size of this process, bytes
}

// Sample collects one snapshot. Each probe degrades to zero on error
// so a failed gopsutil call never takes the panel down.
func Sample() Stats {
	return Stats{
		CPUPercent: cpuPercent(),
		MemPercent: memPercent(),
		PeakRSS:    peakRSS(),
	}
}

// cpuPercent reports total CPU utilization since the previous call
// (gopsutil keeps the reference times when interval is zero).
func cpuPercent() float64 {
	pcts, err := cpu.Percent(0, false)
	if err != nil || len(pcts) == 0 {
		return 0
	}
	return pcts[0]
}

func memPercent() float64 {
	vm, err := mem.VirtualMemory()
	if err != nil || vm == nil {
		return 0
	}
	return vm.UsedPercent
}
