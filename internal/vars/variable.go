package vars

import (
	"fmt"
	"strconv"

	"physlab/internal/observe"
)

// Variable is a numeric Parameter-like cell owned by a VarsList. Unlike a
// plain parameter it carries a sequence number that records discontinuous
// changes, and it only broadcasts on change when explicitly asked to.
type Variable interface {
	observe.Parameter
	// Value returns the current value.
	Value() float64
	// SetValue commits a discontinuous change: the value is set and the
	// sequence number is incremented.
	SetValue(value float64)
	// SetValueContinuous commits a smooth change without touching the
	// sequence number.
	SetValueContinuous(value float64)
	// Sequence returns the discontinuity counter. Consumers such as graph
	// traces compare sequence numbers between samples to decide whether to
	// connect them with a line.
	Sequence() uint64
	// IncrSequence marks a discontinuity without changing the value.
	IncrSequence()
	// IsComputed reports whether the value is derived from other state
	// rather than being independent state itself.
	IsComputed() bool
	// SetComputed marks the variable as derived.
	SetComputed(computed bool)
	// Broadcasts reports whether value changes are broadcast to the owning
	// list's observers. Off by default.
	Broadcasts() bool
	// SetBroadcasts toggles broadcasting of value changes.
	SetBroadcasts(broadcasts bool)
}

// ConcreteVariable is the standard Variable implementation.
type ConcreteVariable struct {
	owner      *VarsList
	name       string
	localName  string
	value      float64
	seq        uint64
	computed   bool
	broadcasts bool
}

// NewVariable makes a variable for the given list. The variable is not
// installed until passed to AddVariable.
func NewVariable(owner *VarsList, name, localName string, value float64) (*ConcreteVariable, error) {
	canonical, err := observe.ValidName(name)
	if err != nil {
		return nil, err
	}
	if localName == "" {
		localName = name
	}
	return &ConcreteVariable{
		owner:     owner,
		name:      canonical,
		localName: localName,
		value:     value,
	}, nil
}

// newTombstone makes the reserved placeholder that fills a deleted slot.
func newTombstone(owner *VarsList) *ConcreteVariable {
	return &ConcreteVariable{owner: owner, name: DeletedName, localName: DeletedName}
}

func (v *ConcreteVariable) Name() string             { return v.name }
func (v *ConcreteVariable) LocalName() string        { return v.localName }
func (v *ConcreteVariable) Subject() observe.Subject { return v.owner }

func (v *ConcreteVariable) Value() float64 { return v.value }

func (v *ConcreteVariable) SetValue(value float64) {
	v.setValue(value)
	v.seq++
}

func (v *ConcreteVariable) SetValueContinuous(value float64) {
	v.setValue(value)
}

// setValue commits the value and broadcasts when flagged; sequence
// handling is the caller's concern.
func (v *ConcreteVariable) setValue(value float64) {
	if v.value == value {
		return
	}
	v.value = value
	if v.broadcasts && v.owner != nil {
		v.owner.Broadcast(v)
	}
}

func (v *ConcreteVariable) Sequence() uint64 { return v.seq }
func (v *ConcreteVariable) IncrSequence()    { v.seq++ }

func (v *ConcreteVariable) IsComputed() bool { return v.computed }

func (v *ConcreteVariable) SetComputed(computed bool) { v.computed = computed }

func (v *ConcreteVariable) Broadcasts() bool { return v.broadcasts }

func (v *ConcreteVariable) SetBroadcasts(broadcasts bool) { v.broadcasts = broadcasts }

func (v *ConcreteVariable) AsString() string {
	return strconv.FormatFloat(v.value, 'g', -1, 64)
}

func (v *ConcreteVariable) SetFromString(value string) error {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("vars: parse %q for %q: %w", value, v.name, err)
	}
	v.SetValue(parsed)
	return nil
}

// isDeleted reports whether this slot is a tombstone.
func (v *ConcreteVariable) isDeleted() bool { return v.name == DeletedName }
