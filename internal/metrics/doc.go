// Package metrics collects run statistics: Prometheus counters and
// histograms for the computed cases, and runtime memory snapshots for the
// details summary.
package metrics
