package sim

import (
	"context"

	"physlab/internal/clock"
	"physlab/internal/log"
	"physlab/internal/metrics"
	"physlab/internal/observe"
	"physlab/internal/stats"
)

// eventCounter mirrors a subject's broadcast volume into prometheus.
type eventCounter struct {
	subject string
}

func (e eventCounter) Observe(observe.Event) {
	metrics.BroadcastEvents.WithLabelValues(e.subject).Inc()
}

// defaultLagThreshold is how far (in seconds) the sim may trail the clock
// before the clock is set back to match.
const defaultLagThreshold = 1.0

// Runner drives an ODESim to keep up with a Clock, in fixed dt steps.
// When the sim cannot keep up, the runner retards the clock with SetTime
// rather than skipping state; the clock's RealTime then records how far
// behind the run fell.
type Runner struct {
	sim          ODESim
	solver       Solver
	clk          *clock.Clock
	dt           float64
	lagThreshold float64
	totals       stats.Totals
	onStep       []func(t float64)
}

// NewRunner pairs a sim with a solver and a clock.
func NewRunner(s ODESim, solver Solver, clk *clock.Clock, dt float64) (*Runner, error) {
	if dt <= 0 {
		return nil, ErrBadTimestep
	}
	if subj, ok := s.(observe.Subject); ok {
		subj.AddObserver(eventCounter{subject: subj.Name()})
	}
	return &Runner{
		sim:          s,
		solver:       solver,
		clk:          clk,
		dt:           dt,
		lagThreshold: defaultLagThreshold,
	}, nil
}

// SetLagThreshold overrides the fall-behind limit.
func (r *Runner) SetLagThreshold(seconds float64) {
	if seconds > 0 {
		r.lagThreshold = seconds
	}
}

// OnStep registers a callback invoked after every completed solver step
// with the sim time reached. Recorders and gauges hook in here.
func (r *Runner) OnStep(fn func(t float64)) {
	r.onStep = append(r.onStep, fn)
}

// Totals returns the counters accumulated so far.
func (r *Runner) Totals() stats.Totals {
	return r.totals
}

// Advance steps the sim until it catches up with the clock. Called once
// per frame by a live view. A pending Step request advances exactly one
// dt and is then acknowledged.
func (r *Runner) Advance() error {
	if r.clk.IsStepping() {
		defer r.clk.ClearStepMode()
	}
	simTime, err := r.sim.Vars().Time()
	if err != nil {
		return err
	}
	target := r.clk.Time()

	lag := target - simTime
	if lag > r.lagThreshold {
		// Falling behind: retard the clock and resume from where the sim is.
		r.clk.SetTime(simTime)
		metrics.ClockRetards.Inc()
		l := log.WithComponent("runner")
		l.Warn().
			Float64("lag", lag).
			Float64("sim_time", simTime).
			Msg("simulation fell behind, clock retarded")
		target = r.clk.Time()
	}

	for simTime+r.dt/2 < target {
		if err := r.step(); err != nil {
			return err
		}
		simTime, err = r.sim.Vars().Time()
		if err != nil {
			return err
		}
	}
	metrics.ClockLag.Set(target - simTime)
	return nil
}

// RunFixed advances the sim for the given duration without clock pacing,
// as fast as the solver allows. Used by batch runs.
func (r *Runner) RunFixed(ctx context.Context, duration float64) error {
	if duration <= 0 {
		return ErrBadDuration
	}
	steps := int(duration / r.dt)
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := r.step(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) step() error {
	if err := r.solver.Step(r.sim, r.dt); err != nil {
		return err
	}
	r.totals.AddSteps(1)
	metrics.SimSteps.Inc()
	t, err := r.sim.Vars().Time()
	if err != nil {
		return err
	}
	for _, fn := range r.onStep {
		fn(t)
	}
	return nil
}
