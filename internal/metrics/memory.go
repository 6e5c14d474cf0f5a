package metrics

import (
	"runtime"
	"time"
)

// MemorySnapshot holds a point-in-time reading of the Go runtime.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in live heap objects
	HeapSys      uint64 // heap bytes obtained from the OS
	Sys          uint64 // total bytes obtained from the OS
	NumGC        uint32 // completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause
	HeapObjects  uint64 // live heap objects
}

// MemoryDelta is the difference between two snapshots taken around a run.
type MemoryDelta struct {
	HeapGrowth int64         // change of HeapAlloc, may be negative
	GCCycles   uint32        // GC cycles completed in between
	GCPause    time.Duration // GC pause accumulated in between
	PeakSys    uint64        // Sys at the later snapshot
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads the current statistics. It briefly stops the world, so
// it is taken once before and once after a batch, never per case.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		HeapObjects:  m.HeapObjects,
	}
}

// Since returns the change from before to s.
func (s MemorySnapshot) Since(before MemorySnapshot) MemoryDelta {
	return MemoryDelta{
		HeapGrowth: int64(s.HeapAlloc) - int64(before.HeapAlloc),
		GCCycles:   s.NumGC - before.NumGC,
		GCPause:    time.Duration(s.PauseTotalNs - before.PauseTotalNs),
		PeakSys:    s.Sys,
	}
}
