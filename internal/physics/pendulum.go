package physics

import (
	"math"

	"physlab/internal/observe"
	"physlab/internal/vars"
)

// Parameter names shared by the models.
const (
	ParamMass    = "MASS"
	ParamLength  = "LENGTH"
	ParamGravity = "GRAVITY"
	ParamDamping = "DAMPING"
)

// EventReset is broadcast when a model returns to initial conditions.
const EventReset = "RESET"

// Pendulum variable slots.
const (
	PendulumAngle = iota
	PendulumVelocity
	PendulumTime
	PendulumKE
	PendulumPE
	PendulumTE
)

// Pendulum is a damped pendulum. State is the angle from vertical and the
// angular velocity; kinetic, potential and total energy are computed
// variables refreshed after every step.
type Pendulum struct {
	*observe.AbstractSubject
	va           *vars.VarsList
	mass         float64
	length       float64
	gravity      float64
	damping      float64
	initAngle    float64
	initVelocity float64
}

// NewPendulum makes a pendulum at rest with unit mass and length.
func NewPendulum(name string) (*Pendulum, error) {
	va, err := vars.New(name+" vars",
		[]string{"angle", "angular velocity", "time",
			"kinetic energy", "potential energy", "total energy"},
		nil)
	if err != nil {
		return nil, err
	}
	for _, idx := range []int{PendulumKE, PendulumPE, PendulumTE} {
		v, err := va.Variable(idx)
		if err != nil {
			return nil, err
		}
		v.SetComputed(true)
	}

	p := &Pendulum{
		AbstractSubject: observe.NewAbstractSubject(name),
		va:              va,
		mass:            1,
		length:          1,
		gravity:         9.8,
		damping:         0,
	}
	if err := p.addParameters(); err != nil {
		return nil, err
	}
	p.ModifyObjects()
	return p, nil
}

func (p *Pendulum) addParameters() error {
	specs := []struct {
		name         string
		lower, upper float64
		get          func() float64
		set          func(float64)
	}{
		{ParamMass, 0.1, 1000,
			func() float64 { return p.mass },
			func(v float64) { p.mass = v }},
		{ParamLength, 0.1, 100,
			func() float64 { return p.length },
			func(v float64) { p.length = v }},
		{ParamGravity, 0, 100,
			func() float64 { return p.gravity },
			func(v float64) { p.gravity = v }},
		{ParamDamping, 0, 1000,
			func() float64 { return p.damping },
			func(v float64) { p.damping = v }},
	}
	for _, spec := range specs {
		spec := spec
		param := observe.NewParameterNumber(p, spec.name, spec.name,
			spec.get, func(v float64) {
				spec.set(v)
				p.ModifyObjects()
				_ = p.BroadcastParameter(spec.name)
			})
		if err := param.SetLowerLimit(spec.lower); err != nil {
			return err
		}
		if err := param.SetUpperLimit(spec.upper); err != nil {
			return err
		}
		if err := p.AddParameter(param); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pendulum) Vars() *vars.VarsList { return p.va }

// SetInitialState sets the conditions Reset restores, and applies them.
func (p *Pendulum) SetInitialState(angle, velocity float64) {
	p.initAngle = angle
	p.initVelocity = velocity
	p.Reset()
}

func (p *Pendulum) Evaluate(state, change []float64, tOffset float64) error {
	theta := state[PendulumAngle]
	omega := state[PendulumVelocity]
	change[PendulumAngle] = omega
	change[PendulumVelocity] = -(p.gravity/p.length)*math.Sin(theta) -
		p.damping*omega/(p.mass*p.length*p.length)
	change[PendulumTime] = 1
	return nil
}

// ModifyObjects refreshes the energy variables from the current state.
func (p *Pendulum) ModifyObjects() {
	vals := p.va.Values(true)
	omega := vals[PendulumVelocity]
	theta := vals[PendulumAngle]
	ke := 0.5 * p.mass * p.length * p.length * omega * omega
	pe := p.mass * p.gravity * p.length * (1 - math.Cos(theta))
	_ = p.va.SetValue(PendulumKE, ke, true)
	_ = p.va.SetValue(PendulumPE, pe, true)
	_ = p.va.SetValue(PendulumTE, ke+pe, true)
}

// Energy returns the current total mechanical energy.
func (p *Pendulum) Energy() float64 {
	vals := p.va.Values(true)
	return vals[PendulumTE]
}

// Reset restores initial conditions. Variable broadcasts are muted for
// the duration so observers never see a partially restored state; the
// single reset event follows.
func (p *Pendulum) Reset() {
	prev := p.va.SetBroadcastsEnabled(false)
	_ = p.va.SetValue(PendulumAngle, p.initAngle, false)
	_ = p.va.SetValue(PendulumVelocity, p.initVelocity, false)
	_ = p.va.SetValue(PendulumTime, 0, false)
	p.ModifyObjects()
	p.va.SetBroadcastsEnabled(prev)
	p.Broadcast(observe.NewGenericEvent(p, EventReset, nil))
}
