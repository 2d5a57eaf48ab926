package observe

import (
	"fmt"
	"math"
	"strconv"
)

// Parameter is a named, typed, gettable/settable property descriptor bound
// to getter/setter closures on its owning Subject. A Parameter doubles as
// the Event broadcast when its value changes.
type Parameter interface {
	Event
	// LocalName returns the display name, which may differ from the
	// canonical Name.
	LocalName() string
	// AsString returns the current value formatted as a string.
	AsString() string
	// SetFromString parses and sets the value; parse and validation
	// failures are returned.
	SetFromString(value string) error
}

// ParameterNumber is a float64-valued Parameter with optional inclusive
// bounds and an optional enumerated choice restriction.
type ParameterNumber struct {
	subject   Subject
	name      string
	localName string
	getter    func() float64
	setter    func(float64)
	lower     float64
	upper     float64
	choices   []string
	values    []float64
}

// NewParameterNumber binds a number parameter to getter/setter closures.
// Bounds default to (-inf, +inf). The caller registers the result with the
// subject via AddParameter.
func NewParameterNumber(subject Subject, name, localName string, getter func() float64, setter func(float64)) *ParameterNumber {
	return &ParameterNumber{
		subject:   subject,
		name:      ToName(name),
		localName: localName,
		getter:    getter,
		setter:    setter,
		lower:     math.Inf(-1),
		upper:     math.Inf(1),
	}
}

func (p *ParameterNumber) Name() string      { return p.name }
func (p *ParameterNumber) LocalName() string { return p.localName }
func (p *ParameterNumber) Subject() Subject  { return p.subject }

// Value returns the current value via the getter.
func (p *ParameterNumber) Value() float64 { return p.getter() }

// SetValue validates v against choices and bounds, then commits it through
// the setter. The setter is only invoked when the value actually changes.
func (p *ParameterNumber) SetValue(v float64) error {
	if len(p.values) > 0 && !containsFloat(p.values, v) {
		return fmt.Errorf("%w: %g for %q", ErrNotAChoice, v, p.name)
	}
	if v < p.lower || v > p.upper {
		return fmt.Errorf("%w: %g not in [%g, %g] for %q", ErrOutOfRange, v, p.lower, p.upper, p.name)
	}
	if v != p.getter() {
		p.setter(v)
	}
	return nil
}

func (p *ParameterNumber) AsString() string {
	return strconv.FormatFloat(p.Value(), 'g', -1, 64)
}

func (p *ParameterNumber) SetFromString(value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("observe: parse %q for %q: %w", value, p.name, err)
	}
	return p.SetValue(v)
}

// LowerLimit returns the inclusive lower bound.
func (p *ParameterNumber) LowerLimit() float64 { return p.lower }

// UpperLimit returns the inclusive upper bound.
func (p *ParameterNumber) UpperLimit() float64 { return p.upper }

// SetLowerLimit sets the lower bound. A bound that would invalidate the
// current value, or exceed the upper bound, is rejected.
func (p *ParameterNumber) SetLowerLimit(lower float64) error {
	if lower > p.getter() || lower > p.upper {
		return fmt.Errorf("%w: lower limit %g for %q", ErrOutOfRange, lower, p.name)
	}
	p.lower = lower
	return nil
}

// SetUpperLimit sets the upper bound. A bound that would invalidate the
// current value, or undercut the lower bound, is rejected.
func (p *ParameterNumber) SetUpperLimit(upper float64) error {
	if upper < p.getter() || upper < p.lower {
		return fmt.Errorf("%w: upper limit %g for %q", ErrOutOfRange, upper, p.name)
	}
	p.upper = upper
	return nil
}

// SetChoices restricts the parameter to the given label/value pairs. The
// arrays must be parallel and must admit the current value.
func (p *ParameterNumber) SetChoices(choices []string, values []float64) error {
	if len(choices) != len(values) {
		return fmt.Errorf("%w: %d choices, %d values for %q", ErrChoicesMismatch, len(choices), len(values), p.name)
	}
	if len(values) > 0 && !containsFloat(values, p.getter()) {
		return fmt.Errorf("%w: current value %g for %q", ErrNotAChoice, p.getter(), p.name)
	}
	p.choices = append([]string(nil), choices...)
	p.values = append([]float64(nil), values...)
	return nil
}

// Choices returns the choice labels, empty when unrestricted.
func (p *ParameterNumber) Choices() []string {
	return append([]string(nil), p.choices...)
}

// Values returns the allowed values, empty when unrestricted.
func (p *ParameterNumber) Values() []float64 {
	return append([]float64(nil), p.values...)
}

func containsFloat(values []float64, v float64) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// ParameterBoolean is a bool-valued Parameter.
type ParameterBoolean struct {
	subject   Subject
	name      string
	localName string
	getter    func() bool
	setter    func(bool)
}

func NewParameterBoolean(subject Subject, name, localName string, getter func() bool, setter func(bool)) *ParameterBoolean {
	return &ParameterBoolean{
		subject:   subject,
		name:      ToName(name),
		localName: localName,
		getter:    getter,
		setter:    setter,
	}
}

func (p *ParameterBoolean) Name() string      { return p.name }
func (p *ParameterBoolean) LocalName() string { return p.localName }
func (p *ParameterBoolean) Subject() Subject  { return p.subject }

func (p *ParameterBoolean) Value() bool { return p.getter() }

func (p *ParameterBoolean) SetValue(v bool) {
	if v != p.getter() {
		p.setter(v)
	}
}

func (p *ParameterBoolean) AsString() string { return strconv.FormatBool(p.Value()) }

func (p *ParameterBoolean) SetFromString(value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("observe: parse %q for %q: %w", value, p.name, err)
	}
	p.SetValue(v)
	return nil
}

// ParameterString is a string-valued Parameter with an optional choice
// restriction.
type ParameterString struct {
	subject   Subject
	name      string
	localName string
	getter    func() string
	setter    func(string)
	choices   []string
}

func NewParameterString(subject Subject, name, localName string, getter func() string, setter func(string)) *ParameterString {
	return &ParameterString{
		subject:   subject,
		name:      ToName(name),
		localName: localName,
		getter:    getter,
		setter:    setter,
	}
}

func (p *ParameterString) Name() string      { return p.name }
func (p *ParameterString) LocalName() string { return p.localName }
func (p *ParameterString) Subject() Subject  { return p.subject }

func (p *ParameterString) Value() string { return p.getter() }

func (p *ParameterString) SetValue(v string) error {
	if len(p.choices) > 0 {
		found := false
		for _, c := range p.choices {
			if c == v {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %q for %q", ErrNotAChoice, v, p.name)
		}
	}
	if v != p.getter() {
		p.setter(v)
	}
	return nil
}

func (p *ParameterString) AsString() string { return p.Value() }

func (p *ParameterString) SetFromString(value string) error { return p.SetValue(value) }

// SetChoices restricts the parameter to the given values; the current
// value must be among them.
func (p *ParameterString) SetChoices(choices []string) error {
	if len(choices) > 0 {
		current := p.getter()
		found := false
		for _, c := range choices {
			if c == current {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: current value %q for %q", ErrNotAChoice, current, p.name)
		}
	}
	p.choices = append([]string(nil), choices...)
	return nil
}

// Choices returns the allowed values, empty when unrestricted.
func (p *ParameterString) Choices() []string {
	return append([]string(nil), p.choices...)
}
