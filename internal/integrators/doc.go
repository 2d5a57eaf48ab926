// Package integrators provides fixed-step ODE solvers over a sim's
// variable registry.
//
//   - [Euler]: first order, cheap, drifts quickly
//   - [ModifiedEuler]: second order midpoint method
//   - [RK4]: classic fourth order Runge-Kutta, the default
//
// Solvers write new state as continuous changes and leave refreshing of
// computed variables to the sim's ModifyObjects.
package integrators
