package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"physlab/internal/integrators"
	"physlab/internal/observe"
)

type eventRecorder struct {
	names []string
}

func (r *eventRecorder) Observe(e observe.Event) {
	r.names = append(r.names, e.Name())
}

func TestPendulumEnergyConservation(t *testing.T) {
	p, err := NewPendulum("pendulum")
	require.NoError(t, err)
	p.SetInitialState(0.5, 0)

	e0 := p.Energy()
	require.Greater(t, e0, 0.0)

	solver := integrators.NewRK4()
	for i := 0; i < 1000; i++ {
		require.NoError(t, solver.Step(p, 0.01))
	}

	tm, err := p.Vars().Time()
	require.NoError(t, err)
	assert.InDelta(t, 10.0, tm, 1e-9)
	assert.InDelta(t, e0, p.Energy(), e0*1e-6, "undamped energy must be conserved")
}

func TestPendulumDampingDissipates(t *testing.T) {
	p, err := NewPendulum("pendulum")
	require.NoError(t, err)
	p.SetInitialState(1.0, 0)

	damping, err := p.ParameterNumber(ParamDamping)
	require.NoError(t, err)
	require.NoError(t, damping.SetValue(0.5))

	e0 := p.Energy()
	solver := integrators.NewRK4()
	for i := 0; i < 500; i++ {
		require.NoError(t, solver.Step(p, 0.01))
	}
	assert.Less(t, p.Energy(), e0, "damping must dissipate energy")
}

func TestPendulumSmallAnglePeriod(t *testing.T) {
	p, err := NewPendulum("pendulum")
	require.NoError(t, err)
	p.SetInitialState(0.01, 0)

	// For small angles the period is 2*pi*sqrt(L/g). Advance half a period
	// and expect the angle to flip sign with the same magnitude.
	half := math.Pi * math.Sqrt(1.0/9.8)
	dt := 0.001
	solver := integrators.NewRK4()
	steps := int(half / dt)
	for i := 0; i < steps; i++ {
		require.NoError(t, solver.Step(p, dt))
	}
	angle, err := p.Vars().Value(PendulumAngle)
	require.NoError(t, err)
	assert.InDelta(t, -0.01, angle, 1e-4)
}

func TestPendulumParameterEvents(t *testing.T) {
	p, err := NewPendulum("pendulum")
	require.NoError(t, err)
	rec := &eventRecorder{}
	p.AddObserver(rec)

	mass, err := p.ParameterNumber(ParamMass)
	require.NoError(t, err)
	require.NoError(t, mass.SetValue(2))
	assert.Equal(t, []string{ParamMass}, rec.names)

	assert.ErrorIs(t, mass.SetValue(0), observe.ErrOutOfRange)
	assert.ErrorIs(t, mass.SetValue(5000), observe.ErrOutOfRange)
	assert.Equal(t, 2.0, mass.Value())
}

func TestPendulumReset(t *testing.T) {
	p, err := NewPendulum("pendulum")
	require.NoError(t, err)
	p.SetInitialState(0.7, 0)

	solver := integrators.NewRK4()
	for i := 0; i < 100; i++ {
		require.NoError(t, solver.Step(p, 0.01))
	}

	rec := &eventRecorder{}
	p.AddObserver(rec)
	angleVar, err := p.Vars().Variable(PendulumAngle)
	require.NoError(t, err)
	seqBefore := angleVar.Sequence()

	p.Reset()
	angle, err := p.Vars().Value(PendulumAngle)
	require.NoError(t, err)
	assert.Equal(t, 0.7, angle)
	tm, err := p.Vars().Time()
	require.NoError(t, err)
	assert.Equal(t, 0.0, tm)
	assert.Equal(t, []string{EventReset}, rec.names)
	assert.Greater(t, angleVar.Sequence(), seqBefore, "reset is discontinuous")
}

func TestSpringEnergyConservation(t *testing.T) {
	s, err := NewSpring("spring")
	require.NoError(t, err)
	s.SetInitialState(2, 0)

	e0 := s.Energy()
	require.Greater(t, e0, 0.0)

	solver := integrators.NewRK4()
	for i := 0; i < 1000; i++ {
		require.NoError(t, solver.Step(s, 0.01))
	}
	assert.InDelta(t, e0, s.Energy(), e0*1e-6)
}

func TestSpringAnalyticSolution(t *testing.T) {
	s, err := NewSpring("spring")
	require.NoError(t, err)
	s.SetInitialState(1, 0)

	stiffness, err := s.ParameterNumber(ParamStiffness)
	require.NoError(t, err)
	require.NoError(t, stiffness.SetValue(4))

	// x(t) = cos(omega t) with omega = sqrt(k/m) = 2.
	solver := integrators.NewRK4()
	for i := 0; i < 1000; i++ {
		require.NoError(t, solver.Step(s, 0.001))
	}
	pos, err := s.Vars().Value(SpringPosition)
	require.NoError(t, err)
	assert.InDelta(t, math.Cos(2.0), pos, 1e-6)
}

func TestSpringRestLengthShiftsEquilibrium(t *testing.T) {
	s, err := NewSpring("spring")
	require.NoError(t, err)

	rest, err := s.ParameterNumber(ParamRestLength)
	require.NoError(t, err)
	require.NoError(t, rest.SetValue(1.5))

	s.SetInitialState(1.5, 0)
	assert.Equal(t, 0.0, s.Energy(), "at rest length the spring stores nothing")

	solver := integrators.NewRK4()
	for i := 0; i < 100; i++ {
		require.NoError(t, solver.Step(s, 0.01))
	}
	pos, err := s.Vars().Value(SpringPosition)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, pos, 1e-9, "equilibrium start stays put")
}
