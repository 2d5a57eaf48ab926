package observe

import "fmt"

// Subject owns a set of Observers and a registry of named Parameters, and
// can broadcast events to the observers.
type Subject interface {
	// Name returns the subject's unique canonical name.
	Name() string
	// AddObserver registers o. Duplicate adds are no-ops. Calls made during
	// an active broadcast are deferred until it completes.
	AddObserver(o Observer)
	// RemoveObserver unregisters o; absent observers are a no-op. Calls made
	// during an active broadcast are deferred until it completes.
	RemoveObserver(o Observer)
	// Observers returns a copy of the current observer list.
	Observers() []Observer
	// Parameters returns a copy of the registered parameters in
	// registration order.
	Parameters() []Parameter
	// Parameter looks up a parameter by name (normalized first).
	Parameter(name string) (Parameter, error)
	// ParameterNumber is Parameter narrowed to *ParameterNumber.
	ParameterNumber(name string) (*ParameterNumber, error)
	// ParameterBoolean is Parameter narrowed to *ParameterBoolean.
	ParameterBoolean(name string) (*ParameterBoolean, error)
	// ParameterString is Parameter narrowed to *ParameterString.
	ParameterString(name string) (*ParameterString, error)
	// Broadcast delivers e to every registered observer in registration
	// order.
	Broadcast(e Event)
	// BroadcastParameter looks up the named parameter and broadcasts it.
	BroadcastParameter(name string) error
}

type observerCommand struct {
	add bool
	obs Observer
}

// AbstractSubject is the canonical Subject implementation, meant to be
// embedded by concrete subjects. The zero value is not usable; construct
// with NewAbstractSubject.
type AbstractSubject struct {
	name      string
	observers []Observer
	params    []Parameter
	// commands queued while a broadcast is in flight, applied FIFO when the
	// outermost broadcast returns.
	commands     []observerCommand
	broadcasting int
	muted        bool
}

// NewAbstractSubject makes a subject with the given name, normalized to
// canonical form.
func NewAbstractSubject(name string) *AbstractSubject {
	return &AbstractSubject{name: ToName(name)}
}

func (s *AbstractSubject) Name() string { return s.name }

func (s *AbstractSubject) AddObserver(o Observer) {
	s.commands = append(s.commands, observerCommand{add: true, obs: o})
	if s.broadcasting == 0 {
		s.flushCommands()
	}
}

func (s *AbstractSubject) RemoveObserver(o Observer) {
	s.commands = append(s.commands, observerCommand{add: false, obs: o})
	if s.broadcasting == 0 {
		s.flushCommands()
	}
}

func (s *AbstractSubject) Observers() []Observer {
	out := make([]Observer, len(s.observers))
	copy(out, s.observers)
	return out
}

// flushCommands applies queued add/remove commands in FIFO order. Adding an
// already-present observer is a no-op; removing strips every match.
func (s *AbstractSubject) flushCommands() {
	for _, cmd := range s.commands {
		if cmd.add {
			if !s.hasObserver(cmd.obs) {
				s.observers = append(s.observers, cmd.obs)
			}
			continue
		}
		for i := 0; i < len(s.observers); i++ {
			if s.observers[i] == cmd.obs {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				i--
			}
		}
	}
	s.commands = s.commands[:0]
}

func (s *AbstractSubject) hasObserver(o Observer) bool {
	for _, existing := range s.observers {
		if existing == o {
			return true
		}
	}
	return false
}

// AddParameter registers p. The name must not collide with an existing
// parameter.
func (s *AbstractSubject) AddParameter(p Parameter) error {
	name := p.Name()
	for _, existing := range s.params {
		if existing.Name() == name {
			return fmt.Errorf("%w: %q on subject %q", ErrDuplicateParameter, name, s.name)
		}
	}
	s.params = append(s.params, p)
	return nil
}

// RemoveParameter removes p by identity; absent parameters are a no-op.
func (s *AbstractSubject) RemoveParameter(p Parameter) {
	for i, existing := range s.params {
		if existing == p {
			s.params = append(s.params[:i], s.params[i+1:]...)
			return
		}
	}
}

func (s *AbstractSubject) Parameters() []Parameter {
	out := make([]Parameter, len(s.params))
	copy(out, s.params)
	return out
}

func (s *AbstractSubject) Parameter(name string) (Parameter, error) {
	canonical := ToName(name)
	for _, p := range s.params {
		if p.Name() == canonical {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q on subject %q", ErrUnknownParameter, name, s.name)
}

func (s *AbstractSubject) ParameterNumber(name string) (*ParameterNumber, error) {
	p, err := s.Parameter(name)
	if err != nil {
		return nil, err
	}
	pn, ok := p.(*ParameterNumber)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a number parameter", ErrWrongParameterKind, name)
	}
	return pn, nil
}

func (s *AbstractSubject) ParameterBoolean(name string) (*ParameterBoolean, error) {
	p, err := s.Parameter(name)
	if err != nil {
		return nil, err
	}
	pb, ok := p.(*ParameterBoolean)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a boolean parameter", ErrWrongParameterKind, name)
	}
	return pb, nil
}

func (s *AbstractSubject) ParameterString(name string) (*ParameterString, error) {
	p, err := s.Parameter(name)
	if err != nil {
		return nil, err
	}
	ps, ok := p.(*ParameterString)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a string parameter", ErrWrongParameterKind, name)
	}
	return ps, nil
}

// Broadcast delivers e to every observer registered at the moment the call
// starts. Observers may add or remove observers (including themselves) from
// inside Observe; such changes apply only to later broadcasts.
func (s *AbstractSubject) Broadcast(e Event) {
	if s.muted {
		return
	}
	s.broadcasting++
	defer func() {
		s.broadcasting--
		if s.broadcasting == 0 {
			s.flushCommands()
		}
	}()
	for _, o := range s.observers {
		o.Observe(e)
	}
}

func (s *AbstractSubject) BroadcastParameter(name string) error {
	p, err := s.Parameter(name)
	if err != nil {
		return err
	}
	s.Broadcast(p)
	return nil
}

// SetBroadcastsEnabled toggles broadcasting for this subject. Subclasses
// mute a superclass's default broadcast while composing a richer event,
// then restore. Returns the previous setting.
func (s *AbstractSubject) SetBroadcastsEnabled(enabled bool) bool {
	prev := !s.muted
	s.muted = !enabled
	return prev
}
