package config

import "runtime"

// Concurrency resolution chain (highest priority first):
//   1. CLI flag (--jobs)
//   2. Environment variable (POLYCALC_JOBS)
//   3. Adaptive hardware estimation (this file)

// ApplyAdaptiveJobs fills Jobs from the hardware when it was left at zero,
// preserving any user-specified value.
func ApplyAdaptiveJobs(cfg AppConfig) AppConfig {
	if cfg.Jobs == 0 {
		cfg.Jobs = EstimateOptimalJobs()
	}
	return cfg
}

// EstimateOptimalJobs returns a concurrency limit for independent cases.
// Each case is CPU bound and allocation heavy, so one per core is used,
// leaving a core free on larger machines for the runtime and GC.
func EstimateOptimalJobs() int {
	numCPU := runtime.NumCPU()
	switch {
	case numCPU <= 2:
		return numCPU
	case numCPU <= 8:
		return numCPU - 1
	default:
		return numCPU - 2
	}
}
