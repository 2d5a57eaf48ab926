package physics

import (
	"physlab/internal/observe"
	"physlab/internal/vars"
)

// Spring-specific parameter names; MASS and DAMPING are shared.
const (
	ParamStiffness  = "STIFFNESS"
	ParamRestLength = "REST_LENGTH"
)

// Spring variable slots.
const (
	SpringPosition = iota
	SpringVelocity
	SpringTime
	SpringKE
	SpringPE
	SpringTE
)

// Spring is a damped mass on a horizontal spring. Position is absolute;
// the restoring force acts on the stretch past the rest length.
type Spring struct {
	*observe.AbstractSubject
	va           *vars.VarsList
	mass         float64
	stiffness    float64
	damping      float64
	restLength   float64
	initPosition float64
	initVelocity float64
}

// NewSpring makes a spring with unit mass, stiffness 3 and zero rest
// length, at rest at the origin.
func NewSpring(name string) (*Spring, error) {
	va, err := vars.New(name+" vars",
		[]string{"position", "velocity", "time",
			"kinetic energy", "potential energy", "total energy"},
		nil)
	if err != nil {
		return nil, err
	}
	for _, idx := range []int{SpringKE, SpringPE, SpringTE} {
		v, err := va.Variable(idx)
		if err != nil {
			return nil, err
		}
		v.SetComputed(true)
	}

	s := &Spring{
		AbstractSubject: observe.NewAbstractSubject(name),
		va:              va,
		mass:            1,
		stiffness:       3,
		damping:         0,
	}
	if err := s.addParameters(); err != nil {
		return nil, err
	}
	s.ModifyObjects()
	return s, nil
}

func (s *Spring) addParameters() error {
	specs := []struct {
		name         string
		lower, upper float64
		get          func() float64
		set          func(float64)
	}{
		{ParamMass, 0.1, 1000,
			func() float64 { return s.mass },
			func(v float64) { s.mass = v }},
		{ParamStiffness, 0, 1000,
			func() float64 { return s.stiffness },
			func(v float64) { s.stiffness = v }},
		{ParamDamping, 0, 1000,
			func() float64 { return s.damping },
			func(v float64) { s.damping = v }},
		{ParamRestLength, 0, 100,
			func() float64 { return s.restLength },
			func(v float64) { s.restLength = v }},
	}
	for _, spec := range specs {
		spec := spec
		param := observe.NewParameterNumber(s, spec.name, spec.name,
			spec.get, func(v float64) {
				spec.set(v)
				s.ModifyObjects()
				_ = s.BroadcastParameter(spec.name)
			})
		if err := param.SetLowerLimit(spec.lower); err != nil {
			return err
		}
		if err := param.SetUpperLimit(spec.upper); err != nil {
			return err
		}
		if err := s.AddParameter(param); err != nil {
			return err
		}
	}
	return nil
}

func (s *Spring) Vars() *vars.VarsList { return s.va }

// SetInitialState sets the conditions Reset restores, and applies them.
func (s *Spring) SetInitialState(position, velocity float64) {
	s.initPosition = position
	s.initVelocity = velocity
	s.Reset()
}

func (s *Spring) Evaluate(state, change []float64, tOffset float64) error {
	stretch := state[SpringPosition] - s.restLength
	vel := state[SpringVelocity]
	change[SpringPosition] = vel
	change[SpringVelocity] = (-s.stiffness*stretch - s.damping*vel) / s.mass
	change[SpringTime] = 1
	return nil
}

// ModifyObjects refreshes the energy variables from the current state.
func (s *Spring) ModifyObjects() {
	vals := s.va.Values(true)
	stretch := vals[SpringPosition] - s.restLength
	vel := vals[SpringVelocity]
	ke := 0.5 * s.mass * vel * vel
	pe := 0.5 * s.stiffness * stretch * stretch
	_ = s.va.SetValue(SpringKE, ke, true)
	_ = s.va.SetValue(SpringPE, pe, true)
	_ = s.va.SetValue(SpringTE, ke+pe, true)
}

// Energy returns the current total mechanical energy.
func (s *Spring) Energy() float64 {
	vals := s.va.Values(true)
	return vals[SpringTE]
}

// Reset restores initial conditions with variable broadcasts muted, then
// emits the single reset event.
func (s *Spring) Reset() {
	prev := s.va.SetBroadcastsEnabled(false)
	_ = s.va.SetValue(SpringPosition, s.initPosition, false)
	_ = s.va.SetValue(SpringVelocity, s.initVelocity, false)
	_ = s.va.SetValue(SpringTime, 0, false)
	s.ModifyObjects()
	s.va.SetBroadcastsEnabled(prev)
	s.Broadcast(observe.NewGenericEvent(s, EventReset, nil))
}
