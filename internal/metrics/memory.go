// Package metrics collects runtime and simulation measurements: Go heap
// snapshots, Prometheus counters for simulated ticks and operations, and
// the post-run indicators shown by the CLI details mode.
package metrics

import "runtime"

// MemorySnapshot is a point-in-time reading of the Go heap.
type MemorySnapshot struct {
	HeapAlloc    uint64 // live heap bytes
	HeapSys      uint64 // heap bytes held from the OS
	Sys          uint64 // total bytes held from the OS
	TotalAlloc   uint64 // cumulative allocated bytes
	NumGC        uint32 // completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	HeapObjects  uint64 // live heap objects
}

// ReadSnapshot captures the current runtime memory statistics.
func ReadSnapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		TotalAlloc:   m.TotalAlloc,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		HeapObjects:  m.HeapObjects,
	}
}

// Delta reports the allocation activity between two snapshots. The live
// gauges keep their newer values; only the cumulative counters, which
// never go backwards, are subtracted.
func (s MemorySnapshot) Delta(prev MemorySnapshot) MemorySnapshot {
	return MemorySnapshot{
		HeapAlloc:    s.HeapAlloc,
		HeapSys:      s.HeapSys,
		Sys:          s.Sys,
		TotalAlloc:   s.TotalAlloc - prev.TotalAlloc,
		NumGC:        s.NumGC - prev.NumGC,
		PauseTotalNs: s.PauseTotalNs - prev.PauseTotalNs,
		HeapObjects:  s.HeapObjects,
	}
}
