package tui

import (
	"time"

	"github.com/agbru/polycalc/internal/orchestration"
)

// JobDoneMsg reports one finished case together with the batch totals.
type JobDoneMsg struct {
	Update   orchestration.ProgressUpdate
	Progress orchestration.AggregatedProgress
}

// BatchDoneMsg is sent once every case has finished or the batch was
// abandoned.
type BatchDoneMsg struct {
	Results []orchestration.JobResult
}

// TickMsg drives the periodic refresh.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory sample.
type MemStatsMsg struct {
	HeapAlloc    uint64
	NumGC        uint32
	NumGoroutine int
}

// SysStatsMsg carries a system-wide CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}
