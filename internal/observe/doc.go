// Package observe provides the reactive substrate the rest of physlab is
// built on: Subjects broadcasting Events to Observers, and named typed
// Parameters bound to getter/setter closures.
//
//   - [Subject]: owns Observers and Parameters, broadcasts [Event]s
//   - [AbstractSubject]: canonical Subject implementation for embedding
//   - [Parameter]: named property descriptor; a Parameter is itself the
//     Event broadcast when its value changes
//   - [ParameterNumber], [ParameterBoolean], [ParameterString]: concrete
//     parameter kinds with optional bounds and enumerated choices
//   - [GenericEvent]: a named one-shot event
//
// # Re-entrancy
//
// Observer add/remove calls made from inside an Observe callback during an
// active broadcast are queued and applied, in order, the moment the
// broadcast returns. An observer removing itself does not disturb delivery
// to the rest of the current delivery list.
//
// Delivery is synchronous and in registration order. The package is not
// goroutine-safe; a Subject belongs to one goroutine at a time.
package observe
