package observe

// Event is a notification broadcast by a Subject to its Observers: either
// a named one-shot occurrence (GenericEvent) or a Parameter whose value
// changed (the Parameter itself is the event payload).
type Event interface {
	// Name returns the event's canonical name.
	Name() string
	// Subject returns the Subject that broadcast the event.
	Subject() Subject
}

// Observer receives events from Subjects it is registered with.
type Observer interface {
	Observe(e Event)
}

// GenericEvent is a named one-shot event with an optional payload value.
type GenericEvent struct {
	subject Subject
	name    string
	value   any
}

// NewGenericEvent makes an event owned by subject. Pass nil for value when
// the name alone carries the meaning.
func NewGenericEvent(subject Subject, name string, value any) *GenericEvent {
	return &GenericEvent{subject: subject, name: ToName(name), value: value}
}

func (e *GenericEvent) Name() string     { return e.name }
func (e *GenericEvent) Subject() Subject { return e.subject }

// Value returns the payload supplied at construction, possibly nil.
func (e *GenericEvent) Value() any { return e.value }

// NameEquals reports whether name, after normalization, matches the event.
func NameEquals(e Event, name string) bool {
	return e.Name() == ToName(name)
}
