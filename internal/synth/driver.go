// Package synth drives an engine with synthetic traffic. It exists so
// the reporting overlay can be exercised end-to-end (demo binary,
// integration tests) without a real fuzzing target attached.
package synth

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"fuzzmon/internal/config"
	"fuzzmon/internal/engine"
	"fuzzmon/internal/lift"
	"fuzzmon/internal/stats"
)

var ops = []string{
	"LoadInt", "LoadString", "BinaryOp", "Compare", "GetProperty",
	"SetProperty", "CallFunction", "Construct", "BeginIf", "EndIf",
	"BeginWhile", "EndWhile", "Return",
}

// Driver generates program executions at a fixed pace and feeds their
// results to the engine bus and the accumulator.
type Driver struct {
	cfg     config.EngineConfig
	eng     *engine.Engine
	acc     *stats.Accumulator
	rng     *rand.Rand
	limiter *rate.Limiter

	coverage float64
	corpus   int
}

// NewDriver creates a driver for the given engine and accumulator.
func NewDriver(cfg config.EngineConfig, eng *engine.Engine, acc *stats.Accumulator) *Driver {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Driver{
		cfg:     cfg,
		eng:     eng,
		acc:     acc,
		rng:     rand.New(rand.NewSource(seed)),
		limiter: rate.NewLimiter(rate.Limit(cfg.ExecsPerSecond), cfg.ExecsPerSecond),
	}
}

// Run announces initialization and then executes synthetic programs
// until ctx is cancelled. Each iteration is posted onto the engine loop;
// the driver goroutine itself only paces.
func (d *Driver) Run(ctx context.Context) error {
	d.eng.Loop.Sync(func() {
		d.eng.SetState(engine.State{Phase: engine.CorpusGeneration, EngineName: d.cfg.Name})
		d.eng.Events.PublishInitialized()
		d.eng.Logf(engine.LevelInfo, "Fuzzer", "Initialized, generating initial corpus")
	})

	for {
		if err := d.limiter.Wait(ctx); err != nil {
			return ctx.Err()
		}
		if !d.eng.Loop.Post(d.step) {
			return nil
		}
	}
}

// step performs one synthetic execution. Loop-confined: the rng, the
// coverage model, and all engine mutation happen here only.
func (d *Driver) step() {
	program := d.generateProgram()
	d.eng.Events.PublishSampleGenerated(engine.SampleEvent{
		Program: program,
		Origin:  d.eng.ID,
	})

	outcome := d.rollOutcome()
	execTime := time.Duration(500+d.rng.Intn(4500)) * time.Microsecond
	d.acc.RecordExecution(program, outcome, execTime)

	switch outcome {
	case stats.OutcomeCrashed:
		d.eng.Events.PublishCrashFound(engine.CrashEvent{
			Program:  program,
			IsUnique: d.rng.Float64() < 0.5,
		})
	case stats.OutcomeSucceeded:
		if d.rng.Float64() < d.cfg.AcceptProbability {
			d.accept(program)
		}
	}
}

func (d *Driver) accept(program *lift.Program) {
	d.corpus++
	// Coverage creeps toward 100% as the corpus grows, fast at first.
	d.coverage += (1 - d.coverage) * 0.002
	d.acc.SetCoverage(d.coverage)

	d.eng.Events.PublishSampleAccepted(engine.SampleEvent{
		Program: program,
		Origin:  d.eng.ID,
	})

	if d.corpus == d.cfg.CorpusTarget {
		d.eng.SetState(engine.State{Phase: engine.Fuzzing, EngineName: d.cfg.Name})
		d.eng.Logf(engine.LevelInfo, "Fuzzer", "Corpus generation finished, fuzzing with %s", d.cfg.Name)
	}
}

func (d *Driver) rollOutcome() stats.Outcome {
	roll := d.rng.Float64()
	switch {
	case roll < d.cfg.CrashProbability:
		return stats.OutcomeCrashed
	case roll < d.cfg.CrashProbability+d.cfg.TimeoutProbability:
		return stats.OutcomeTimedOut
	case roll < d.cfg.CrashProbability+d.cfg.TimeoutProbability+d.cfg.FailureProbability:
		return stats.OutcomeFailed
	}
	return stats.OutcomeSucceeded
}

// generateProgram builds a small random program in the engine's JSON
// encoding.
func (d *Driver) generateProgram() *lift.Program {
	n := 3 + d.rng.Intn(40)
	var b strings.Builder
	b.WriteString(`{"instructions":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		op := ops[d.rng.Intn(len(ops))]
		fmt.Fprintf(&b, `{"op":%q,"operands":["v%d","v%d"]}`, op, d.rng.Intn(16), d.rng.Intn(16))
	}
	b.WriteString(`]}`)

	program, err := lift.NewProgram([]byte(b.String()))
	if err != nil {
		// The generator only emits valid encodings.
		panic(err)
	}
	return program
}
