// Package clock provides a virtual time source decoupled from wall time.
//
//   - [Clock]: a Subject with run/pause/step semantics and a rate
//     multiplier; clock time and real time advance together until SetTime
//     deliberately retards the clock, and their divergence is the signal
//     that a simulation is falling behind
//   - [Task]: a callback keyed to a virtual time, rescheduled whenever the
//     clock's time mapping changes
//   - [SystemClock]: the injected wall-time and scheduling seam; use
//     [TestClock] for deterministic tests
//
// Scheduled callbacks arrive on timer goroutines, so Clock guards its time
// mapping with a mutex and always runs task callbacks outside the lock.
// Observers and the methods that drive the clock still belong to a single
// goroutine, as everywhere else in physlab.
package clock
