// Package physics provides simulation models built on the reactive core.
//
//   - [Pendulum]: damped pendulum, state ANGLE and ANGULAR_VELOCITY
//   - [Spring]: damped mass on a spring, state POSITION and VELOCITY
//
// Each model is a Subject whose tunable constants are number parameters
// and whose state lives in a VarsList, with kinetic, potential and total
// energy maintained as computed variables.
package physics
