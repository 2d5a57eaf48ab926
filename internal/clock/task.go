package clock

import (
	"sync"
	"time"
)

// Task is a callback that fires when its owning Clock reaches a target
// virtual time. The clock reschedules tasks whenever its time mapping
// changes, so a task survives pauses, rate changes and time jumps.
//
// Timer callbacks arrive on the scheduler's goroutine while the clock
// cancels and reschedules from its own, so the pending handle is guarded
// by a mutex and carries a generation number. A timer that fires after
// losing the race with Cancel finds a newer generation and skips the
// callback.
type Task struct {
	time float64
	fn   func()

	mu      sync.Mutex
	gen     uint64
	pending Scheduled
}

// NewTask returns a task that runs fn when the clock reaches t seconds.
func NewTask(t float64, fn func()) *Task {
	return &Task{time: t, fn: fn}
}

// Time returns the virtual time at which the task fires.
func (t *Task) Time() float64 {
	return t.time
}

// Execute cancels any pending schedule and runs the callback.
func (t *Task) Execute() {
	t.Cancel()
	t.fn()
}

// Cancel stops the pending callback, if any, and invalidates timers that
// already fired but have not run yet. The task stays registered with its
// clock and will be rescheduled on the next mapping change.
func (t *Task) Cancel() {
	t.mu.Lock()
	t.gen++
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
	t.mu.Unlock()
}

func (t *Task) schedule(sys SystemClock, delay time.Duration) {
	t.mu.Lock()
	t.gen++
	if t.pending != nil {
		t.pending.Stop()
	}
	gen := t.gen
	t.pending = sys.Schedule(delay, func() { t.fire(gen) })
	t.mu.Unlock()
}

// fire runs the callback on behalf of the timer scheduled at gen. A stale
// generation means the timer was cancelled or superseded after it was
// already in flight.
func (t *Task) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.gen++
	t.pending = nil
	t.mu.Unlock()
	t.fn()
}
