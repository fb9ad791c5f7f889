// Package stats accumulates engine execution results and produces
// immutable point-in-time snapshots for reporting.
package stats

import (
	"time"

	"fuzzmon/internal/engine"
	"fuzzmon/internal/lift"
)

// Outcome classifies a single program execution.
type Outcome int

const (
	OutcomeSucceeded Outcome = iota
	OutcomeFailed
	OutcomeCrashed
	OutcomeTimedOut
)

// Snapshot is an immutable view of the accumulated statistics. Rates are
// fractions in 0..1; consumers format, they never recompute.
type Snapshot struct {
	TotalSamples       int64
	InterestingSamples int64
	ValidSamples       int64
	CrashingSamples    int64
	TimedOutSamples    int64
	UniqueCrashes      int64

	CorrectnessRate       float64
	GlobalCorrectnessRate float64
	TimeoutRate           float64
	GlobalTimeoutRate     float64
	Coverage              float64
	GlobalCoverage        float64

	AvgProgramSize       float64
	AvgCorpusProgramSize float64
	CorpusSize           int64
	GlobalAvgCorpusSize  float64

	ExecsPerSecond float64
	Overhead       float64

	ConnectedWorkers int

	ResidentMemory uint64
	CPUPercent     float64
}

// WorkerStats is the per-worker aggregate a connected worker reports.
type WorkerStats struct {
	TotalSamples    int64
	ValidSamples    int64
	TimedOutSamples int64
	CorpusSize      int64
	Coverage        float64
}

// Accumulator consumes execution results and engine events and produces
// Snapshots on demand. All methods are loop-confined: the engine's
// serialized loop is the only synchronization, there are no locks.
type Accumulator struct {
	clock     engine.Clock
	startTime time.Time

	totalSamples       int64
	interestingSamples int64
	validSamples       int64
	crashingSamples    int64
	timedOutSamples    int64
	uniqueCrashes      int64

	totalInstructions  int64
	corpusInstructions int64
	corpusSize         int64
	coverage           float64

	totalExecTime time.Duration

	workers map[string]WorkerStats

	resources *processSampler
}

// NewAccumulator creates an accumulator reading time from clock.
func NewAccumulator(clock engine.Clock) *Accumulator {
	return &Accumulator{
		clock:     clock,
		startTime: clock.Now(),
		workers:   make(map[string]WorkerStats),
		resources: newProcessSampler(),
	}
}

// Attach registers the accumulator's event handlers on the engine's bus.
// Must run during a Loop.Sync hand-off, before any event is published.
func (a *Accumulator) Attach(e *engine.Engine) {
	e.Loop.Sync(func() {
		e.Events.OnInitialized(func() {
			a.startTime = a.clock.Now()
		})
		e.Events.OnSampleAccepted(func(ev engine.SampleEvent) {
			a.interestingSamples++
			a.corpusSize++
			a.corpusInstructions += int64(ev.Program.Size())
		})
		e.Events.OnCrashFound(func(ev engine.CrashEvent) {
			if ev.IsUnique {
				a.uniqueCrashes++
			}
		})
	})
}

// RecordExecution accounts for one executed program.
func (a *Accumulator) RecordExecution(p *lift.Program, outcome Outcome, execTime time.Duration) {
	a.totalSamples++
	a.totalInstructions += int64(p.Size())
	a.totalExecTime += execTime
	switch outcome {
	case OutcomeSucceeded:
		a.validSamples++
	case OutcomeCrashed:
		a.crashingSamples++
	case OutcomeTimedOut:
		a.timedOutSamples++
	}
}

// SetCoverage records the current coverage fraction as reported by the
// engine's evaluator.
func (a *Accumulator) SetCoverage(fraction float64) {
	a.coverage = fraction
}

// UpdateWorker stores the latest aggregate received from a connected
// worker; global rates fold these in.
func (a *Accumulator) UpdateWorker(id string, w WorkerStats) {
	a.workers[id] = w
}

// DropWorker removes a disconnected worker from the global aggregates.
func (a *Accumulator) DropWorker(id string) {
	delete(a.workers, id)
}

// Snapshot captures the current statistics. Side-effect-free from the
// consumer's perspective.
func (a *Accumulator) Snapshot() Snapshot {
	s := Snapshot{
		TotalSamples:       a.totalSamples,
		InterestingSamples: a.interestingSamples,
		ValidSamples:       a.validSamples,
		CrashingSamples:    a.crashingSamples,
		TimedOutSamples:    a.timedOutSamples,
		UniqueCrashes:      a.uniqueCrashes,
		Coverage:           a.coverage,
		CorpusSize:         a.corpusSize,
		ConnectedWorkers:   len(a.workers),
	}

	s.CorrectnessRate = ratio(a.validSamples, a.totalSamples)
	s.TimeoutRate = ratio(a.timedOutSamples, a.totalSamples)

	if a.totalSamples > 0 {
		s.AvgProgramSize = float64(a.totalInstructions) / float64(a.totalSamples)
	}
	if a.corpusSize > 0 {
		s.AvgCorpusProgramSize = float64(a.corpusInstructions) / float64(a.corpusSize)
	}

	uptime := a.clock.Since(a.startTime)
	if uptime > 0 {
		s.ExecsPerSecond = float64(a.totalSamples) / uptime.Seconds()
		s.Overhead = 1.0 - a.totalExecTime.Seconds()/uptime.Seconds()
		if s.Overhead < 0 {
			s.Overhead = 0
		}
	}

	a.foldWorkers(&s)

	if a.resources != nil {
		s.ResidentMemory, s.CPUPercent = a.resources.sample()
	}

	return s
}

// foldWorkers merges worker-reported aggregates with the local counters
// to produce the fleet-wide rates.
func (a *Accumulator) foldWorkers(s *Snapshot) {
	total := a.totalSamples
	valid := a.validSamples
	timedOut := a.timedOutSamples
	corpusTotal := a.corpusSize
	coverage := a.coverage

	for _, w := range a.workers {
		total += w.TotalSamples
		valid += w.ValidSamples
		timedOut += w.TimedOutSamples
		corpusTotal += w.CorpusSize
		if w.Coverage > coverage {
			coverage = w.Coverage
		}
	}

	s.GlobalCorrectnessRate = ratio(valid, total)
	s.GlobalTimeoutRate = ratio(timedOut, total)
	s.GlobalCoverage = coverage
	if n := len(a.workers); n > 0 {
		s.GlobalAvgCorpusSize = float64(corpusTotal) / float64(n+1)
	}
}

func ratio(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
