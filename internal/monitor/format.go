package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"fuzzmon/internal/engine"
	"fuzzmon/internal/stats"
)

// FormatDuration renders a duration as "1d 2h 3m 4s". All four fields
// are always present; sub-second precision is truncated.
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	days := secs / 86400
	hours := secs / 3600 % 24
	minutes := secs / 60 % 60
	seconds := secs % 60
	return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
}

// formatPercent renders a fraction in 0..1 as a percentage with two
// decimal places.
func formatPercent(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}

// stateDescription returns the operator-facing description of the
// engine's state. The Uninitialized phase must never reach the monitor;
// observing it means events fired before initialization completed.
func stateDescription(st engine.State) string {
	switch st.Phase {
	case engine.WaitingForCorpus:
		return "Waiting for corpus"
	case engine.CorpusImport:
		return fmt.Sprintf("Corpus import (%.2f%% completed)", st.ImportProgress*100)
	case engine.CorpusGeneration:
		return fmt.Sprintf("Corpus generation (with %s)", st.EngineName)
	case engine.Fuzzing:
		return fmt.Sprintf("Fuzzing (with %s)", st.EngineName)
	}
	panic(fmt.Sprintf("monitor: report requested in invalid engine state %d", st.Phase))
}

// Render formats one statistics snapshot as a fixed-layout report.
// Pure: all values are read from the snapshot, none are recomputed.
// sinceInteresting < 0 means no interesting sample has been seen yet.
func Render(snap stats.Snapshot, st engine.State, uptime, sinceInteresting time.Duration) string {
	var b strings.Builder

	fmt.Fprintln(&b, "Fuzzer Statistics")
	fmt.Fprintln(&b, "=================")
	fmt.Fprintf(&b, "Uptime:                    %s\n", FormatDuration(uptime))
	fmt.Fprintf(&b, "State:                     %s\n", stateDescription(st))
	fmt.Fprintf(&b, "Total Samples:             %s\n", humanize.Comma(snap.TotalSamples))
	if sinceInteresting >= 0 {
		fmt.Fprintf(&b, "Interesting Samples:       %s (last %s ago)\n",
			humanize.Comma(snap.InterestingSamples), FormatDuration(sinceInteresting))
	} else {
		fmt.Fprintf(&b, "Interesting Samples:       %s\n", humanize.Comma(snap.InterestingSamples))
	}
	fmt.Fprintf(&b, "Valid Samples:             %s\n", humanize.Comma(snap.ValidSamples))
	fmt.Fprintf(&b, "Crashes Found:             %s (%s unique)\n",
		humanize.Comma(snap.CrashingSamples), humanize.Comma(snap.UniqueCrashes))
	fmt.Fprintf(&b, "Timeouts Hit:              %s\n", humanize.Comma(snap.TimedOutSamples))
	fmt.Fprintf(&b, "Correctness Rate:          %s (%s)\n",
		formatPercent(snap.CorrectnessRate), formatPercent(snap.GlobalCorrectnessRate))
	fmt.Fprintf(&b, "Timeout Rate:              %s (%s)\n",
		formatPercent(snap.TimeoutRate), formatPercent(snap.GlobalTimeoutRate))
	fmt.Fprintf(&b, "Coverage:                  %s\n", formatPercent(snap.Coverage))
	fmt.Fprintf(&b, "Avg. Program Size:         %.2f\n", snap.AvgProgramSize)
	fmt.Fprintf(&b, "Avg. Corpus Program Size:  %.2f\n", snap.AvgCorpusProgramSize)
	if snap.ConnectedWorkers > 0 {
		fmt.Fprintf(&b, "Corpus Size:               %s (global avg. %.1f)\n",
			humanize.Comma(snap.CorpusSize), snap.GlobalAvgCorpusSize)
		fmt.Fprintf(&b, "Connected Workers:         %d\n", snap.ConnectedWorkers)
	} else {
		fmt.Fprintf(&b, "Corpus Size:               %s\n", humanize.Comma(snap.CorpusSize))
	}
	fmt.Fprintf(&b, "Execs / Second:            %.2f\n", snap.ExecsPerSecond)
	fmt.Fprintf(&b, "Fuzzer Overhead:           %s\n", formatPercent(snap.Overhead))
	if snap.ResidentMemory > 0 {
		fmt.Fprintf(&b, "Resident Memory:           %s (%.1f%% CPU)\n",
			humanize.IBytes(snap.ResidentMemory), snap.CPUPercent)
	}

	return b.String()
}
