// Package vars provides the named state vector of a simulation: an
// ordered, gap-tolerant registry of numeric variables.
//
//   - [Variable]: a numeric cell with a discontinuity sequence number
//   - [ConcreteVariable]: the standard Variable implementation
//   - [VarsList]: the registry; an [observe.Subject] whose parameters are
//     exactly its live variables
//
// Simulations mutate thousands of variable values per step, so value
// writes do not broadcast by default; the list emits a single
// VARS_MODIFIED event only when its slot structure changes. Deleted slots
// are tombstoned rather than removed, which keeps the indices of every
// other variable stable and lets a later block allocation reuse the gap.
package vars
