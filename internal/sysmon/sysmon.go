// Package sysmon samples system-wide resource usage for the run summary.
package sysmon

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent  float64 // 0.0 .. 100.0, since the previous sample
	MemPercent  float64 // 0.0 .. 100.0
	MemTotal    uint64  // bytes of physical memory
	LogicalCPUs int
}

// Sample collects a single system-wide snapshot. CPU usage uses interval 0,
// that is the delta since the previous call. Fields that cannot be read
// are left at zero.
func Sample() Stats {
	var s Stats
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	if n, err := cpu.Counts(true); err == nil {
		s.LogicalCPUs = n
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
		s.MemTotal = vmem.Total
	}
	return s
}

// String renders the snapshot on one line.
func (s Stats) String() string {
	return fmt.Sprintf("%d logical CPUs, CPU %.1f%%, memory %.1f%% of %.1f GiB",
		s.LogicalCPUs, s.CPUPercent, s.MemPercent, float64(s.MemTotal)/(1<<30))
}
