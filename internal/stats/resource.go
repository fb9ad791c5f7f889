package stats

import (
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// processSampler reads this process's resource usage. Failures degrade
// to zero values; resource figures are informational only.
type processSampler struct {
	proc *process.Process
}

func newProcessSampler() *processSampler {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil
	}
	return &processSampler{proc: proc}
}

// sample returns resident memory in bytes and CPU usage as a percentage.
func (s *processSampler) sample() (rss uint64, cpu float64) {
	if mem, err := s.proc.MemoryInfo(); err == nil {
		rss = mem.RSS
	}
	if pct, err := s.proc.CPUPercent(); err == nil {
		cpu = pct
	}
	return rss, cpu
}
