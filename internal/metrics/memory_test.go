package metrics

import (
	"runtime"
	"testing"
	"time"
)

func TestMemoryCollector_Snapshot(t *testing.T) {
	t.Parallel()

	snap := NewMemoryCollector().Snapshot()
	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
}

func TestMemorySnapshot_Since(t *testing.T) {
	t.Parallel()

	mc := NewMemoryCollector()
	before := mc.Snapshot()
	runtime.GC()
	after := mc.Snapshot()

	d := after.Since(before)
	if d.GCCycles < 1 {
		t.Errorf("GCCycles = %d, want >= 1 after runtime.GC", d.GCCycles)
	}
	if d.PeakSys != after.Sys {
		t.Errorf("PeakSys = %d, want %d", d.PeakSys, after.Sys)
	}
}

func TestMemorySnapshot_SinceArithmetic(t *testing.T) {
	t.Parallel()

	before := MemorySnapshot{HeapAlloc: 500, NumGC: 3, PauseTotalNs: 1000, Sys: 10}
	after := MemorySnapshot{HeapAlloc: 200, NumGC: 5, PauseTotalNs: 4000, Sys: 20}
	d := after.Since(before)
	want := MemoryDelta{HeapGrowth: -300, GCCycles: 2, GCPause: 3 * time.Microsecond, PeakSys: 20}
	if d != want {
		t.Errorf("Since = %+v, want %+v", d, want)
	}
}
