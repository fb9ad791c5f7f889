package engine

import (
	"sync"
	"time"
)

// Loop is a serialized execution context: a single goroutine that runs
// submitted jobs one at a time, in submission order. All engine event
// handlers and timer callbacks run on the loop, which is the only
// synchronization mechanism the engine offers (or needs).
type Loop struct {
	jobs chan func()
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

// NewLoop creates a Loop and starts its worker goroutine.
func NewLoop() *Loop {
	l := &Loop{
		jobs: make(chan func(), 1024),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case job := <-l.jobs:
			job()
		case <-l.quit:
			// Drain jobs already queued so a caller that posted before
			// Stop still gets its work executed.
			for {
				select {
				case job := <-l.jobs:
					job()
				default:
					return
				}
			}
		}
	}
}

// Post submits fn for asynchronous execution on the loop.
// Returns false if the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case l.jobs <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Sync runs fn on the loop and waits for it to complete. Used for
// registration hand-offs that must finish before the caller proceeds.
// Must not be called from the loop itself.
func (l *Loop) Sync(fn func()) {
	ran := make(chan struct{})
	if !l.Post(func() {
		fn()
		close(ran)
	}) {
		return
	}
	select {
	case <-ran:
	case <-l.done:
	}
}

// Stop shuts the loop down after draining already-queued jobs.
// Recurring tasks observe the shutdown and stop firing.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.quit) })
	<-l.done
}

// Stopped reports whether the loop has terminated.
func (l *Loop) Stopped() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// RecurringTask is a handle to a task scheduled with ScheduleRecurring.
type RecurringTask struct {
	stop chan struct{}
	once sync.Once
}

// Stop cancels the task. Safe to call more than once. A callback already
// posted to the loop may still run after Stop returns.
func (t *RecurringTask) Stop() {
	t.once.Do(func() { close(t.stop) })
}

// ScheduleRecurring arranges for fn to run on the loop approximately every
// interval. Best-effort: under load, firings may be delayed or dropped.
// The task dies with the loop; Stop cancels it earlier.
func (l *Loop) ScheduleRecurring(interval time.Duration, fn func()) *RecurringTask {
	t := &RecurringTask{stop: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if !l.Post(fn) {
					return
				}
			case <-t.stop:
				return
			case <-l.done:
				return
			}
		}
	}()
	return t
}
