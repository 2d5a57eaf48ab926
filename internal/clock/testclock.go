package clock

import (
	"sort"
	"time"
)

// TestClock is a deterministic SystemClock for tests. Time only moves when
// Advance is called, and due callbacks run synchronously on the caller's
// goroutine, in time order.
type TestClock struct {
	now     float64
	seq     int
	pending []*testCallback
}

type testCallback struct {
	at      float64
	seq     int
	fn      func()
	stopped bool
}

func (cb *testCallback) Stop() {
	cb.stopped = true
}

// NewTestClock returns a TestClock starting at time zero.
func NewTestClock() *TestClock {
	return &TestClock{}
}

func (c *TestClock) Now() float64 {
	return c.now
}

func (c *TestClock) Schedule(delay time.Duration, fn func()) Scheduled {
	at := c.now + delay.Seconds()
	if at < c.now {
		at = c.now
	}
	c.seq++
	cb := &testCallback{at: at, seq: c.seq, fn: fn}
	c.pending = append(c.pending, cb)
	return cb
}

// Advance moves the clock forward by dt seconds, firing every callback that
// comes due along the way. Callbacks scheduled while firing are honored in
// the same sweep if they fall before the target time. Advance(0) fires
// callbacks scheduled with zero delay.
func (c *TestClock) Advance(dt float64) {
	target := c.now + dt
	for {
		cb := c.nextDue(target)
		if cb == nil {
			break
		}
		c.now = cb.at
		cb.fn()
	}
	c.now = target
}

func (c *TestClock) nextDue(target float64) *testCallback {
	live := c.pending[:0]
	for _, cb := range c.pending {
		if !cb.stopped {
			live = append(live, cb)
		}
	}
	c.pending = live
	sort.SliceStable(c.pending, func(i, j int) bool {
		if c.pending[i].at != c.pending[j].at {
			return c.pending[i].at < c.pending[j].at
		}
		return c.pending[i].seq < c.pending[j].seq
	})
	if len(c.pending) == 0 || c.pending[0].at > target {
		return nil
	}
	cb := c.pending[0]
	c.pending = c.pending[1:]
	return cb
}
