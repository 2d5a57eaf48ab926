package clock

import (
	"math"
	"sync"
	"time"

	"physlab/internal/log"
	"physlab/internal/observe"
)

// Event names broadcast by Clock.
const (
	ClockPause   = "CLOCK_PAUSE"
	ClockResume  = "CLOCK_RESUME"
	ClockStep    = "CLOCK_STEP"
	ClockSetTime = "CLOCK_SET_TIME"
)

// ParamTimeRate is the name of the rate multiplier parameter.
const ParamTimeRate = "TIME_RATE"

const (
	// setTimeEpsilon is the threshold below which SetTime is a no-op.
	setTimeEpsilon = 0.001
	// taskEpsilon is the system-time slack within which a task fires
	// immediately instead of being scheduled.
	taskEpsilon = 0.001
	// rateCheckTolerance bounds the clock-time drift allowed when the rate
	// changes while running.
	rateCheckTolerance = 0.002
)

// Clock is a virtual stopwatch. While running, clock time advances at rate
// times system time; while paused it holds still. Real time advances in
// lockstep except that SetTime moves only clock time, so RealTime minus
// Time measures how far the clock has been set back.
type Clock struct {
	*observe.AbstractSubject

	mu           sync.Mutex
	sys          SystemClock
	rate         float64
	clockStart   float64
	realStart    float64
	saveTime     float64
	saveRealTime float64
	running      bool
	stepMode     bool
	tasks        []*Task
}

// New returns a paused clock at time zero, rate 1, using the wall clock.
func New(name string) *Clock {
	return NewWithSystem(name, NewSystemClock())
}

// NewWithSystem is New with an injected time source.
func NewWithSystem(name string, sys SystemClock) *Clock {
	c := &Clock{
		AbstractSubject: observe.NewAbstractSubject(name),
		sys:             sys,
		rate:            1,
	}
	p := observe.NewParameterNumber(c, ParamTimeRate, "time rate",
		c.TimeRate, func(r float64) { c.SetTimeRate(r) })
	_ = p.SetLowerLimit(0)
	_ = c.AddParameter(p)
	return c
}

// Time returns the current clock time in seconds.
func (c *Clock) Time() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeLocked()
}

// RealTime returns elapsed real time in seconds. It matches Time until
// SetTime retards the clock.
func (c *Clock) RealTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.realTimeLocked()
}

func (c *Clock) timeLocked() float64 {
	if c.running {
		return (c.sys.Now() - c.clockStart) * c.rate
	}
	return c.saveTime
}

func (c *Clock) realTimeLocked() float64 {
	if c.running {
		return (c.sys.Now() - c.realStart) * c.rate
	}
	return c.saveRealTime
}

// TimeRate returns the rate multiplier.
func (c *Clock) TimeRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

// SetTimeRate changes the rate multiplier without disturbing the current
// clock and real times, then broadcasts the TIME_RATE parameter.
func (c *Clock) SetTimeRate(rate float64) {
	if rate <= 0 {
		return
	}
	c.mu.Lock()
	if math.Abs(rate-c.rate) < 1e-12 {
		c.mu.Unlock()
		return
	}
	t := c.timeLocked()
	rt := c.realTimeLocked()
	c.rate = rate
	if c.running {
		now := c.sys.Now()
		c.clockStart = now - t/rate
		c.realStart = now - rt/rate
		if drift := math.Abs(c.timeLocked() - t); drift > rateCheckTolerance {
			l := log.WithComponent("clock")
			l.Error().
				Float64("drift", drift).
				Float64("rate", rate).
				Msg("clock time moved during rate change")
		}
	}
	fires := c.rescheduleTasksLocked()
	c.mu.Unlock()
	executeAll(fires)
	_ = c.BroadcastParameter(ParamTimeRate)
}

// IsRunning reports whether the clock is advancing.
func (c *Clock) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// IsStepping reports whether the last transition was a Step. The flag stays
// set until ClearStepMode, letting the driver distinguish a single-step
// request from an ordinary pause.
func (c *Clock) IsStepping() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stepMode
}

// ClearStepMode acknowledges a Step.
func (c *Clock) ClearStepMode() {
	c.mu.Lock()
	c.stepMode = false
	c.mu.Unlock()
}

// Resume starts the clock from its saved times. No-op while running.
func (c *Clock) Resume() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.stepMode = false
	now := c.sys.Now()
	c.clockStart = now - c.saveTime/c.rate
	c.realStart = now - c.saveRealTime/c.rate
	fires := c.rescheduleTasksLocked()
	c.mu.Unlock()
	executeAll(fires)
	c.Broadcast(observe.NewGenericEvent(c, ClockResume, nil))
}

// Pause freezes the clock, saving both times. No-op while paused.
func (c *Clock) Pause() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.saveTime = c.timeLocked()
	c.saveRealTime = c.realTimeLocked()
	c.running = false
	for _, t := range c.tasks {
		t.Cancel()
	}
	c.mu.Unlock()
	c.Broadcast(observe.NewGenericEvent(c, ClockPause, nil))
}

// Step pauses the clock, advances both times by dt, and sets step mode.
// Tasks whose target falls inside the step interval fire through the system
// scheduler with zero delay.
func (c *Clock) Step(dt float64) {
	c.Pause()
	c.mu.Lock()
	c.stepMode = true
	start := c.saveTime
	c.saveTime += dt
	c.saveRealTime += dt
	for _, t := range c.tasks {
		if t.Time() >= start && t.Time() <= start+dt {
			t.schedule(c.sys, 0)
		}
	}
	c.mu.Unlock()
	c.Broadcast(observe.NewGenericEvent(c, ClockStep, nil))
}

// SetTime jumps the clock to t seconds, leaving real time untouched.
// Changes smaller than a millisecond are ignored.
func (c *Clock) SetTime(t float64) {
	c.mu.Lock()
	cur := c.timeLocked()
	if math.Abs(t-cur) <= setTimeEpsilon {
		c.mu.Unlock()
		return
	}
	if c.running {
		c.clockStart = c.sys.Now() - t/c.rate
	} else {
		c.saveTime = t
	}
	fires := c.rescheduleTasksLocked()
	c.mu.Unlock()
	executeAll(fires)
	c.Broadcast(observe.NewGenericEvent(c, ClockSetTime, t))
}

// AddTask registers a task and schedules it against the current mapping.
// Adding the same task twice is a no-op.
func (c *Clock) AddTask(t *Task) {
	c.mu.Lock()
	for _, existing := range c.tasks {
		if existing == t {
			c.mu.Unlock()
			return
		}
	}
	c.tasks = append(c.tasks, t)
	fire := c.scheduleTaskLocked(t)
	c.mu.Unlock()
	if fire {
		t.Execute()
	}
}

// RemoveTask cancels and unregisters a task.
func (c *Clock) RemoveTask(t *Task) {
	c.mu.Lock()
	for i, existing := range c.tasks {
		if existing == t {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			break
		}
	}
	t.Cancel()
	c.mu.Unlock()
}

// Tasks returns a copy of the registered tasks.
func (c *Clock) Tasks() []*Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// scheduleTaskLocked cancels the task's pending callback and, if the clock
// is running, compares target and current time in system-time units:
// within taskEpsilon the task should fire now (reported to the caller, who
// executes outside the lock); in the future it is scheduled for the
// remaining delta; in the past it stays unscheduled.
func (c *Clock) scheduleTaskLocked(t *Task) (fireNow bool) {
	t.Cancel()
	if !c.running {
		return false
	}
	delta := (t.Time() - c.timeLocked()) / c.rate
	if math.Abs(delta) <= taskEpsilon {
		return true
	}
	if delta > 0 {
		t.schedule(c.sys, time.Duration(delta*float64(time.Second)))
	}
	return false
}

func (c *Clock) rescheduleTasksLocked() []*Task {
	var fires []*Task
	for _, t := range c.tasks {
		if c.scheduleTaskLocked(t) {
			fires = append(fires, t)
		}
	}
	return fires
}

func executeAll(tasks []*Task) {
	for _, t := range tasks {
		t.Execute()
	}
}
