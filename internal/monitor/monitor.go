// Package monitor renders live engine status to an operator. It
// subscribes to the engine's event bus, prints periodic statistics
// reports, and samples occasional programs for display. Everything runs
// on the engine's serialized loop; the monitor adds no goroutines of
// its own and never influences engine behavior.
package monitor

import (
	"fmt"
	"io"
	"strings"
	"time"

	"fuzzmon/internal/engine"
	"fuzzmon/internal/lift"
	"fuzzmon/internal/stats"
)

const (
	// DefaultReportInterval is how often a statistics report is printed.
	DefaultReportInterval = 60 * time.Second

	// DefaultSampleInterval is how often the sampling gates re-arm.
	DefaultSampleInterval = 300 * time.Second
)

const (
	crashBanner       = "========== Unique Crash Found =========="
	generatedBanner   = "---------- Generated Program ----------"
	interestingBanner = "---------- Interesting Program ----------"
)

// SnapshotSource produces statistics snapshots on demand.
type SnapshotSource interface {
	Snapshot() stats.Snapshot
}

// Monitor is the reporting overlay. Configure the exported fields before
// Attach; afterwards all state is loop-confined.
type Monitor struct {
	// ReportInterval and SampleInterval control the periodic report and
	// the sampling-gate re-arm cadence.
	ReportInterval time.Duration
	SampleInterval time.Duration

	// Color controls whether log lines are bracketed in ANSI escapes.
	Color bool

	out    io.Writer
	source SnapshotSource
	clock  engine.Clock

	gate            samplingGate
	startTime       time.Time
	lastInteresting time.Time
	reportTask      *engine.RecurringTask
	armTask         *engine.RecurringTask
	attached        bool
	stopped         bool
}

// NewMonitor creates a monitor writing to out and reading snapshots from
// source.
func NewMonitor(out io.Writer, source SnapshotSource, clock engine.Clock) *Monitor {
	return &Monitor{
		ReportInterval: DefaultReportInterval,
		SampleInterval: DefaultSampleInterval,
		Color:          true,
		out:            out,
		source:         source,
		clock:          clock,
	}
}

// Attach registers the monitor's event handlers on the engine. The
// registration runs as a synchronous hand-off into the engine's loop, so
// once Attach returns no event can be missed. Attaching twice is a
// programming error.
func (m *Monitor) Attach(e *engine.Engine) {
	e.Loop.Sync(func() { m.register(e) })
}

func (m *Monitor) register(e *engine.Engine) {
	if m.attached {
		panic("monitor: attached twice")
	}
	m.attached = true

	e.Events.OnLog(func(ev engine.LogEvent) { m.onLog(e, ev) })
	e.Events.OnCrashFound(m.onCrashFound)
	e.Events.OnSampleGenerated(m.onSampleGenerated)
	e.Events.OnSampleAccepted(m.onSampleAccepted)
	e.Events.OnInitialized(func() { m.onInitialized(e) })
}

// onInitialized activates the periodic reporter. The Shutdown handler is
// registered here, not in register: timers and teardown logic must not
// exist while the engine is still partially constructed.
func (m *Monitor) onInitialized(e *engine.Engine) {
	m.startTime = m.clock.Now()

	e.Events.OnShutdown(func(reason string) { m.onShutdown(e, reason) })

	m.reportTask = e.Loop.ScheduleRecurring(m.ReportInterval, func() {
		if m.stopped {
			return
		}
		m.printReport(e)
	})
	m.armTask = e.Loop.ScheduleRecurring(m.SampleInterval, func() {
		m.gate.arm()
	})
}

func (m *Monitor) onShutdown(e *engine.Engine, reason string) {
	if m.stopped {
		return
	}
	m.reportTask.Stop()
	m.armTask.Stop()

	fmt.Fprintf(m.out, "Shutting down: %s\n\n", reason)
	m.printReport(e)
	m.stopped = true
}

func (m *Monitor) printReport(e *engine.Engine) {
	snap := m.source.Snapshot()
	uptime := m.clock.Since(m.startTime)
	sinceInteresting := time.Duration(-1)
	if !m.lastInteresting.IsZero() {
		sinceInteresting = m.clock.Since(m.lastInteresting)
	}
	fmt.Fprint(m.out, Render(snap, e.State(), uptime, sinceInteresting))
	fmt.Fprintln(m.out)
}

func (m *Monitor) onLog(e *engine.Engine, ev engine.LogEvent) {
	line := fmt.Sprintf("[%s] %s", ev.Label, ev.Message)
	if ev.Origin != e.ID {
		line = fmt.Sprintf("[%s] %s", shortID(ev.Origin), line)
	}
	if m.Color {
		line = colorize(colorFor(ev.Level), line)
	}
	fmt.Fprintln(m.out, line)
}

func (m *Monitor) onCrashFound(ev engine.CrashEvent) {
	if !ev.IsUnique {
		return
	}
	fmt.Fprintln(m.out, crashBanner)
	fmt.Fprint(m.out, lift.Lift(ev.Program, true))
}

func (m *Monitor) onSampleGenerated(ev engine.SampleEvent) {
	if !m.gate.fireGenerated() {
		return
	}
	fmt.Fprintln(m.out, generatedBanner)
	fmt.Fprint(m.out, lift.Lift(ev.Program, true))
}

func (m *Monitor) onSampleAccepted(ev engine.SampleEvent) {
	// The timestamp tracks every accepted sample; the gate only controls
	// whether this one is displayed.
	m.lastInteresting = m.clock.Now()

	if !m.gate.fireInteresting() {
		return
	}
	fmt.Fprintln(m.out, interestingBanner)
	fmt.Fprint(m.out, lift.Lift(ev.Program, true))
}

// shortID returns the first hyphen-delimited segment of a worker
// identity, or the raw identity when it has no usable segment.
func shortID(origin string) string {
	segment, _, found := strings.Cut(origin, "-")
	if !found || segment == "" {
		return origin
	}
	return segment
}
