package engine

import "fuzzmon/internal/lift"

// Severity classifies log events. The order matters: higher levels are
// more severe.
type Severity int

const (
	LevelVerbose Severity = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelFatal
)

func (s Severity) String() string {
	switch s {
	case LevelVerbose:
		return "verbose"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "unknown"
}

// LogEvent is a diagnostic message emitted by this engine or relayed from
// a remote worker.
type LogEvent struct {
	Origin  string
	Level   Severity
	Label   string
	Message string
}

// CrashEvent fires when an executed program crashed the target.
type CrashEvent struct {
	Program  *lift.Program
	IsUnique bool
}

// SampleEvent fires when a sample was generated or accepted into the
// corpus. Origin identifies the instance that produced the sample.
type SampleEvent struct {
	Program *lift.Program
	Origin  string
}

// Bus is the engine's event bus. Handlers are registered by kind and
// invoked in registration order, always on the engine's loop. Immutable
// after registration completes; registration itself must happen on the
// loop (use Loop.Sync).
type Bus struct {
	log             []func(LogEvent)
	crashFound      []func(CrashEvent)
	sampleGenerated []func(SampleEvent)
	sampleAccepted  []func(SampleEvent)
	initialized     []func()
	shutdown        []func(reason string)
}

func (b *Bus) OnLog(fn func(LogEvent)) { b.log = append(b.log, fn) }

func (b *Bus) OnCrashFound(fn func(CrashEvent)) { b.crashFound = append(b.crashFound, fn) }

func (b *Bus) OnSampleGenerated(fn func(SampleEvent)) { b.sampleGenerated = append(b.sampleGenerated, fn) }

func (b *Bus) OnSampleAccepted(fn func(SampleEvent)) { b.sampleAccepted = append(b.sampleAccepted, fn) }

func (b *Bus) OnInitialized(fn func()) { b.initialized = append(b.initialized, fn) }

func (b *Bus) OnShutdown(fn func(reason string)) { b.shutdown = append(b.shutdown, fn) }

// Publish methods dispatch synchronously to every registered handler.
// Callers must already be on the loop.

func (b *Bus) PublishLog(ev LogEvent) {
	for _, fn := range b.log {
		fn(ev)
	}
}

func (b *Bus) PublishCrashFound(ev CrashEvent) {
	for _, fn := range b.crashFound {
		fn(ev)
	}
}

func (b *Bus) PublishSampleGenerated(ev SampleEvent) {
	for _, fn := range b.sampleGenerated {
		fn(ev)
	}
}

func (b *Bus) PublishSampleAccepted(ev SampleEvent) {
	for _, fn := range b.sampleAccepted {
		fn(ev)
	}
}

func (b *Bus) PublishInitialized() {
	for _, fn := range b.initialized {
		fn()
	}
}

func (b *Bus) PublishShutdown(reason string) {
	for _, fn := range b.shutdown {
		fn(reason)
	}
}
