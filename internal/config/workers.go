package config

import "runtime"

// Worker resolution chain (highest priority first):
//  1. CLI flag (-workers)
//  2. Environment variable (ALUSIM_WORKERS)
//  3. Hardware estimation (this file)

// ApplyAdaptiveWorkers fills in the lane fan-out worker count when the
// configuration left it at its zero default, preserving any explicit
// setting from flags or the environment.
func ApplyAdaptiveWorkers(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = EstimateWorkers(cfg.Sets)
	}
	return cfg
}

// EstimateWorkers picks a fan-out width for ticking sets lanes. A lane
// tick is short, so past a point more goroutines just add scheduling
// overhead.
func EstimateWorkers(sets int) int {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU == 1 || sets <= 1:
		return 1
	case sets < numCPU:
		return sets
	case numCPU >= 32:
		return 16
	default:
		return numCPU
	}
}
