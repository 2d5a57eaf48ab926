package observe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSubject owns a single float value for parameter tests.
type fakeSubject struct {
	*AbstractSubject
	mass  float64
	label string
	on    bool
}

func newFakeSubject() *fakeSubject {
	f := &fakeSubject{AbstractSubject: NewAbstractSubject("fake"), mass: 1, label: "red"}
	return f
}

func (f *fakeSubject) massParam() *ParameterNumber {
	p := NewParameterNumber(f, "mass", "mass",
		func() float64 { return f.mass },
		func(v float64) {
			f.mass = v
			_ = f.BroadcastParameter("mass")
		})
	if err := f.AddParameter(p); err != nil {
		panic(err)
	}
	return p
}

func TestParameterNumberSetValue(t *testing.T) {
	f := newFakeSubject()
	p := f.massParam()
	rec := &recordingObserver{}
	f.AddObserver(rec)

	require.NoError(t, p.SetValue(2.5))
	assert.Equal(t, 2.5, f.mass)
	assert.Equal(t, []string{"MASS"}, rec.names())

	// Setting the same value again must not invoke the setter.
	require.NoError(t, p.SetValue(2.5))
	assert.Equal(t, []string{"MASS"}, rec.names())
}

func TestParameterNumberBounds(t *testing.T) {
	f := newFakeSubject()
	p := f.massParam()

	require.NoError(t, p.SetLowerLimit(0.1))
	require.NoError(t, p.SetUpperLimit(10))

	assert.ErrorIs(t, p.SetValue(0), ErrOutOfRange)
	assert.ErrorIs(t, p.SetValue(11), ErrOutOfRange)
	assert.Equal(t, 1.0, f.mass, "rejected values leave the target untouched")

	require.NoError(t, p.SetValue(0.1), "bounds are inclusive")
	require.NoError(t, p.SetValue(10))

	// A bound that would invalidate the current value is rejected.
	assert.ErrorIs(t, p.SetLowerLimit(11), ErrOutOfRange)
	assert.ErrorIs(t, p.SetUpperLimit(9), ErrOutOfRange)
}

func TestParameterNumberChoices(t *testing.T) {
	f := newFakeSubject()
	p := f.massParam()

	err := p.SetChoices([]string{"light", "heavy"}, []float64{1})
	assert.ErrorIs(t, err, ErrChoicesMismatch)

	err = p.SetChoices([]string{"light", "heavy"}, []float64{2, 5})
	assert.ErrorIs(t, err, ErrNotAChoice, "current value must be admitted")

	require.NoError(t, p.SetChoices([]string{"light", "heavy"}, []float64{1, 5}))
	assert.ErrorIs(t, p.SetValue(3), ErrNotAChoice)
	require.NoError(t, p.SetValue(5))
	assert.Equal(t, []string{"light", "heavy"}, p.Choices())
	assert.Equal(t, []float64{1, 5}, p.Values())
}

func TestParameterNumberFromString(t *testing.T) {
	f := newFakeSubject()
	p := f.massParam()

	require.NoError(t, p.SetFromString("3.5"))
	assert.Equal(t, 3.5, f.mass)
	assert.Equal(t, "3.5", p.AsString())
	assert.Error(t, p.SetFromString("not a number"))
}

func TestParameterLookupAndKinds(t *testing.T) {
	f := newFakeSubject()
	f.massParam()
	pb := NewParameterBoolean(f, "enabled", "enabled",
		func() bool { return f.on },
		func(v bool) { f.on = v })
	require.NoError(t, f.AddParameter(pb))

	// Lookup normalizes names.
	p, err := f.Parameter("Mass")
	require.NoError(t, err)
	assert.Equal(t, "MASS", p.Name())

	_, err = f.Parameter("missing")
	assert.ErrorIs(t, err, ErrUnknownParameter)

	_, err = f.ParameterBoolean("mass")
	assert.ErrorIs(t, err, ErrWrongParameterKind)
	_, err = f.ParameterNumber("enabled")
	assert.ErrorIs(t, err, ErrWrongParameterKind)

	pn, err := f.ParameterNumber("mass")
	require.NoError(t, err)
	assert.Equal(t, 1.0, pn.Value())
}

func TestDuplicateParameterRejected(t *testing.T) {
	f := newFakeSubject()
	f.massParam()
	dup := NewParameterNumber(f, "MASS", "mass",
		func() float64 { return 0 }, func(float64) {})
	assert.ErrorIs(t, f.AddParameter(dup), ErrDuplicateParameter)
}

func TestParameterStringChoices(t *testing.T) {
	f := newFakeSubject()
	p := NewParameterString(f, "color", "color",
		func() string { return f.label },
		func(v string) { f.label = v })
	require.NoError(t, f.AddParameter(p))

	err := p.SetChoices([]string{"blue", "green"})
	assert.ErrorIs(t, err, ErrNotAChoice, "current value must be admitted")

	require.NoError(t, p.SetChoices([]string{"red", "blue"}))
	assert.ErrorIs(t, p.SetValue("green"), ErrNotAChoice)
	require.NoError(t, p.SetValue("blue"))
	assert.Equal(t, "blue", f.label)
}

func TestParameterBooleanFromString(t *testing.T) {
	f := newFakeSubject()
	p := NewParameterBoolean(f, "enabled", "enabled",
		func() bool { return f.on },
		func(v bool) { f.on = v })
	require.NoError(t, f.AddParameter(p))

	require.NoError(t, p.SetFromString("true"))
	assert.True(t, f.on)
	assert.Equal(t, "true", p.AsString())
	assert.Error(t, p.SetFromString("maybe"))
}

func TestBroadcastParameterUnknown(t *testing.T) {
	f := newFakeSubject()
	assert.ErrorIs(t, f.BroadcastParameter("nope"), ErrUnknownParameter)
}
