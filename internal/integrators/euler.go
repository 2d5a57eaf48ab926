package integrators

import "physlab/internal/sim"

// Euler is the first-order forward Euler method.
type Euler struct {
	inp, k1 []float64
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) ensureScratch(n int) {
	if len(e.inp) != n {
		e.inp = make([]float64, n)
		e.k1 = make([]float64, n)
	}
}

func (e *Euler) Step(s sim.ODESim, dt float64) error {
	va := s.Vars()
	vals := va.Values(true)
	n := len(vals)
	e.ensureScratch(n)

	for i := range e.k1 {
		e.k1[i] = 0
	}
	if err := s.Evaluate(vals, e.k1, 0); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		e.inp[i] = vals[i] + dt*e.k1[i]
	}
	if err := va.SetValues(e.inp, true); err != nil {
		return err
	}
	s.ModifyObjects()
	return nil
}
