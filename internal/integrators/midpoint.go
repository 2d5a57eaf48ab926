package integrators

import "physlab/internal/sim"

// ModifiedEuler is the second-order midpoint method.
type ModifiedEuler struct {
	inp, k1, k2 []float64
}

func NewModifiedEuler() *ModifiedEuler {
	return &ModifiedEuler{}
}

func (m *ModifiedEuler) ensureScratch(n int) {
	if len(m.inp) != n {
		m.inp = make([]float64, n)
		m.k1 = make([]float64, n)
		m.k2 = make([]float64, n)
	}
}

func (m *ModifiedEuler) Step(s sim.ODESim, dt float64) error {
	va := s.Vars()
	vals := va.Values(true)
	n := len(vals)
	m.ensureScratch(n)

	zero(m.k1)
	if err := s.Evaluate(vals, m.k1, 0); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		m.inp[i] = vals[i] + dt*0.5*m.k1[i]
	}
	zero(m.k2)
	if err := s.Evaluate(m.inp, m.k2, dt*0.5); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		m.inp[i] = vals[i] + dt*m.k2[i]
	}
	if err := va.SetValues(m.inp, true); err != nil {
		return err
	}
	s.ModifyObjects()
	return nil
}
