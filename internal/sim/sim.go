// Package sim defines the simulation contract over a variable registry and
// the clock-driven runner that paces it.
package sim

import (
	"errors"

	"physlab/internal/vars"
)

// Domain errors for simulation runs.
var (
	// ErrBadTimestep indicates a non-positive dt.
	ErrBadTimestep = errors.New("sim: timestep must be positive")

	// ErrBadDuration indicates a non-positive run duration.
	ErrBadDuration = errors.New("sim: duration must be positive")
)

// ODESim is a simulation whose state lives in a VarsList. The sim is the
// sole writer of variable values during integration; solvers write new
// state as continuous changes so sequence numbers track only genuine
// discontinuities such as Reset.
type ODESim interface {
	// Vars returns the variable registry holding the sim's state. One slot
	// is the TIME variable; derived quantities are computed variables.
	Vars() *vars.VarsList

	// Evaluate writes the state derivative into change, reading state as
	// the full slot vector (computed slots included). The TIME slot's
	// derivative is 1; computed slots get derivative 0. tOffset is the
	// offset from the state's own time, nonzero for solver substeps.
	Evaluate(state, change []float64, tOffset float64) error

	// ModifyObjects refreshes computed variables from the current state.
	// Called after each completed solver step.
	ModifyObjects()

	// Reset restores initial conditions, marking the change as
	// discontinuous.
	Reset()
}

// Solver advances an ODESim by one fixed step.
type Solver interface {
	Step(s ODESim, dt float64) error
}
