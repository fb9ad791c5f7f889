package synth

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"fuzzmon/internal/config"
	"fuzzmon/internal/engine"
	"fuzzmon/internal/monitor"
	"fuzzmon/internal/stats"
)

func testConfig() config.EngineConfig {
	return config.EngineConfig{
		Name:               "synth",
		ExecsPerSecond:     10000,
		CorpusTarget:       5,
		CrashProbability:   0.05,
		TimeoutProbability: 0.05,
		FailureProbability: 0.1,
		AcceptProbability:  0.2,
		Seed:               1,
	}
}

func TestDriver_StepFeedsAccumulator(t *testing.T) {
	e := engine.New()
	defer e.Loop.Stop()

	acc := stats.NewAccumulator(e.Clock)
	acc.Attach(e)
	d := NewDriver(testConfig(), e, acc)

	const steps = 500
	e.Loop.Sync(func() {
		e.SetState(engine.State{Phase: engine.CorpusGeneration, EngineName: "synth"})
		for i := 0; i < steps; i++ {
			d.step()
		}
	})

	var s stats.Snapshot
	var st engine.State
	e.Loop.Sync(func() {
		s = acc.Snapshot()
		st = e.State()
	})

	if s.TotalSamples != steps {
		t.Errorf("expected %d total samples, got %d", steps, s.TotalSamples)
	}
	if s.ValidSamples == 0 || s.TimedOutSamples == 0 {
		t.Errorf("expected a mix of outcomes, got %+v", s)
	}
	if s.CorpusSize == 0 {
		t.Error("expected accepted samples to grow the corpus")
	}
	if s.Coverage <= 0 {
		t.Errorf("expected coverage to grow, got %v", s.Coverage)
	}
	// With acceptProbability 0.2 over 500 steps the corpus target of 5
	// is long since reached.
	if st.Phase != engine.Fuzzing {
		t.Errorf("expected engine fuzzing after corpus target, got phase %d", st.Phase)
	}
}

func TestDriver_DeterministicWithSeed(t *testing.T) {
	run := func() stats.Snapshot {
		e := engine.New()
		defer e.Loop.Stop()

		clock := engine.NewFakeClock(time.Unix(1700000000, 0))
		acc := stats.NewAccumulator(clock)
		acc.Attach(e)
		d := NewDriver(testConfig(), e, acc)

		e.Loop.Sync(func() {
			e.SetState(engine.State{Phase: engine.CorpusGeneration, EngineName: "synth"})
			for i := 0; i < 200; i++ {
				d.step()
			}
		})

		clock.Advance(time.Second)
		var s stats.Snapshot
		e.Loop.Sync(func() { s = acc.Snapshot() })
		return s
	}

	a, b := run(), run()
	if a.ValidSamples != b.ValidSamples || a.CorpusSize != b.CorpusSize || a.CrashingSamples != b.CrashingSamples {
		t.Errorf("same seed produced different runs: %+v vs %+v", a, b)
	}
}

func TestDriver_RunStopsOnCancel(t *testing.T) {
	e := engine.New()
	defer e.Loop.Stop()

	acc := stats.NewAccumulator(e.Clock)
	acc.Attach(e)
	d := NewDriver(testConfig(), e, acc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("driver did not stop on cancel")
	}
}

// End-to-end: driver traffic flows through the bus into both the
// accumulator and the monitor, and shutdown produces one final report.
func TestDriver_EndToEndWithMonitor(t *testing.T) {
	e := engine.New()

	acc := stats.NewAccumulator(e.Clock)
	acc.Attach(e)

	buf := &bytes.Buffer{}
	mon := monitor.NewMonitor(buf, acc, e.Clock)
	mon.ReportInterval = time.Hour
	mon.SampleInterval = time.Hour
	mon.Color = false
	mon.Attach(e)

	d := NewDriver(testConfig(), e, acc)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = d.Run(ctx)

	e.Loop.Sync(func() { e.Events.PublishShutdown("test complete") })
	e.Loop.Stop()

	got := buf.String()
	if !strings.Contains(got, "[Fuzzer] Initialized, generating initial corpus") {
		t.Errorf("expected initialization log line, got:\n%s", got)
	}
	if !strings.Contains(got, "Shutting down: test complete") {
		t.Errorf("expected shutdown banner, got:\n%s", got)
	}
	if n := strings.Count(got, "Fuzzer Statistics"); n != 1 {
		t.Errorf("expected exactly one final report, got %d:\n%s", n, got)
	}
}
