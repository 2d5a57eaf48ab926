package integrators

import "physlab/internal/sim"

// RK4 is the classic fourth-order Runge-Kutta method. Scratch buffers are
// reused across steps so a steady run does not allocate.
type RK4 struct {
	inp, k1, k2, k3, k4 []float64
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.inp) != n {
		r.inp = make([]float64, n)
		r.k1 = make([]float64, n)
		r.k2 = make([]float64, n)
		r.k3 = make([]float64, n)
		r.k4 = make([]float64, n)
	}
}

func (r *RK4) Step(s sim.ODESim, dt float64) error {
	va := s.Vars()
	vals := va.Values(true)
	n := len(vals)
	r.ensureScratch(n)

	zero(r.k1)
	if err := s.Evaluate(vals, r.k1, 0); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		r.inp[i] = vals[i] + dt*0.5*r.k1[i]
	}
	zero(r.k2)
	if err := s.Evaluate(r.inp, r.k2, dt*0.5); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		r.inp[i] = vals[i] + dt*0.5*r.k2[i]
	}
	zero(r.k3)
	if err := s.Evaluate(r.inp, r.k3, dt*0.5); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		r.inp[i] = vals[i] + dt*r.k3[i]
	}
	zero(r.k4)
	if err := s.Evaluate(r.inp, r.k4, dt); err != nil {
		return err
	}

	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		r.inp[i] = vals[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
	if err := va.SetValues(r.inp, true); err != nil {
		return err
	}
	s.ModifyObjects()
	return nil
}

func zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}
