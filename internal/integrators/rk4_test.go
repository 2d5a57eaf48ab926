package integrators

import (
	"math"
	"testing"

	"physlab/internal/sim"
	"physlab/internal/vars"
)

// oscillator is x'' = -x, whose exact solution from (1, 0) is
// x = cos(t), v = -sin(t).
type oscillator struct {
	va *vars.VarsList
}

func newOscillator(t *testing.T) *oscillator {
	t.Helper()
	va, err := vars.New("oscillator", []string{"position", "velocity", "time"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := va.SetValue(0, 1, false); err != nil {
		t.Fatal(err)
	}
	return &oscillator{va: va}
}

func (o *oscillator) Vars() *vars.VarsList { return o.va }

func (o *oscillator) Evaluate(state, change []float64, tOffset float64) error {
	change[0] = state[1]
	change[1] = -state[0]
	change[2] = 1
	return nil
}

func (o *oscillator) ModifyObjects() {}

func (o *oscillator) Reset() {
	_ = o.va.SetValues([]float64{1, 0, 0}, false)
}

func runSteps(t *testing.T, solver sim.Solver, o *oscillator, steps int, dt float64) (x, v, tm float64) {
	t.Helper()
	for i := 0; i < steps; i++ {
		if err := solver.Step(o, dt); err != nil {
			t.Fatal(err)
		}
	}
	vals := o.va.Values(true)
	return vals[0], vals[1], vals[2]
}

func TestRK4Accuracy(t *testing.T) {
	o := newOscillator(t)
	x, v, tm := runSteps(t, NewRK4(), o, 100, 0.01)

	if math.Abs(tm-1.0) > 1e-9 {
		t.Errorf("time advanced to %.9f, want 1.0", tm)
	}
	if math.Abs(x-math.Cos(1.0)) > 1e-8 {
		t.Errorf("position error too large: got %.10f, want %.10f", x, math.Cos(1.0))
	}
	if math.Abs(v+math.Sin(1.0)) > 1e-8 {
		t.Errorf("velocity error too large: got %.10f, want %.10f", v, -math.Sin(1.0))
	}
}

func TestModifiedEulerAccuracy(t *testing.T) {
	o := newOscillator(t)
	x, _, _ := runSteps(t, NewModifiedEuler(), o, 100, 0.01)
	if math.Abs(x-math.Cos(1.0)) > 1e-4 {
		t.Errorf("position error too large: got %.6f, want %.6f", x, math.Cos(1.0))
	}
}

func TestEulerConvergence(t *testing.T) {
	// Forward Euler is crude but must converge as dt shrinks.
	coarse := newOscillator(t)
	xc, _, _ := runSteps(t, NewEuler(), coarse, 100, 0.01)
	fine := newOscillator(t)
	xf, _, _ := runSteps(t, NewEuler(), fine, 1000, 0.001)

	exact := math.Cos(1.0)
	if math.Abs(xf-exact) >= math.Abs(xc-exact) {
		t.Errorf("smaller dt did not reduce error: coarse %.6f fine %.6f exact %.6f", xc, xf, exact)
	}
	if math.Abs(xf-exact) > 1e-2 {
		t.Errorf("fine euler error too large: got %.6f, want %.6f", xf, exact)
	}
}

func TestSolversPreserveSequenceNumbers(t *testing.T) {
	o := newOscillator(t)
	va, err := o.va.Variable(0)
	if err != nil {
		t.Fatal(err)
	}
	seqBefore := va.Sequence()
	if _, _, tm := runSteps(t, NewRK4(), o, 10, 0.01); tm == 0 {
		t.Fatal("time did not advance")
	}
	if va.Sequence() != seqBefore {
		t.Error("solver steps must be continuous changes")
	}
}
