package observability

import (
	"sync/atomic"
	"time"
)

// WorkerStats are in-process counters for the report worker, served on the
// job status endpoint next to the Prometheus series.
type WorkerStats struct {
	claimed atomic.Uint64
	done    atomic.Uint64
	retried atomic.Uint64
	failed  atomic.Uint64

	// nanoseconds
	runs     atomic.Uint64
	runTotal atomic.Int64
	runMax   atomic.Int64
}

func NewWorkerStats() *WorkerStats {
	return &WorkerStats{}
}

func (s *WorkerStats) IncClaimed() { s.claimed.Add(1) }
func (s *WorkerStats) IncDone()    { s.done.Add(1) }
func (s *WorkerStats) IncRetried() { s.retried.Add(1) }
func (s *WorkerStats) IncFailed()  { s.failed.Add(1) }

func (s *WorkerStats) ObserveRun(d time.Duration) {
	ns := d.Nanoseconds()
	s.runs.Add(1)
	s.runTotal.Add(ns)

	for {
		curr := s.runMax.Load()
		if ns <= curr || s.runMax.CompareAndSwap(curr, ns) {
			return
		}
	}
}

type WorkerStatsSnapshot struct {
	Claimed    uint64        `json:"claimed"`
	Done       uint64        `json:"done"`
	Retried    uint64        `json:"retried"`
	Failed     uint64        `json:"failed"`
	Runs       uint64        `json:"runs"`
	AverageRun time.Duration `json:"averageRunNs"`
	MaxRun     time.Duration `json:"maxRunNs"`
}

func (s *WorkerStats) Snapshot() WorkerStatsSnapshot {
	runs := s.runs.Load()

	var avg time.Duration
	if runs > 0 {
		avg = time.Duration(s.runTotal.Load() / int64(runs))
	}

	return WorkerStatsSnapshot{
		Claimed:    s.claimed.Load(),
		Done:       s.done.Load(),
		Retried:    s.retried.Load(),
		Failed:     s.failed.Load(),
		Runs:       runs,
		AverageRun: avg,
		MaxRun:     time.Duration(s.runMax.Load()),
	}
}
