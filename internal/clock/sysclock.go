package clock

import "time"

// SystemClock supplies wall time in seconds and deferred callbacks.
type SystemClock interface {
	// Now returns seconds since an arbitrary fixed epoch.
	Now() float64
	// Schedule runs fn once after delay, on its own goroutine.
	// Non-positive delays fire as soon as the scheduler allows.
	Schedule(delay time.Duration, fn func()) Scheduled
}

// Scheduled is a handle to a pending callback.
type Scheduled interface {
	// Stop cancels the callback if it has not fired yet.
	Stop()
}

// NewSystemClock returns a SystemClock backed by the wall clock and
// time.AfterFunc.
func NewSystemClock() SystemClock {
	return &realClock{epoch: time.Now()}
}

type realClock struct {
	epoch time.Time
}

func (c *realClock) Now() float64 {
	return time.Since(c.epoch).Seconds()
}

func (c *realClock) Schedule(delay time.Duration, fn func()) Scheduled {
	if delay < 0 {
		delay = 0
	}
	return timerHandle{timer: time.AfterFunc(delay, fn)}
}

type timerHandle struct {
	timer *time.Timer
}

func (h timerHandle) Stop() {
	h.timer.Stop()
}
