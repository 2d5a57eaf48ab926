package vars

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"physlab/internal/observe"
)

type eventRecorder struct {
	names []string
}

func (r *eventRecorder) Observe(e observe.Event) {
	r.names = append(r.names, e.Name())
}

func newPendulumVars(t *testing.T) *VarsList {
	t.Helper()
	v, err := New("pendulum vars",
		[]string{"angle", "angular velocity", "time"},
		[]string{"angle", "angular velocity", "time"})
	require.NoError(t, err)
	return v
}

func TestNewVarsList(t *testing.T) {
	v := newPendulumVars(t)
	assert.Equal(t, "PENDULUM_VARS", v.Name())
	assert.Equal(t, 3, v.NumVariables())
	assert.Equal(t, 2, v.TimeIndex())

	va, err := v.VariableNamed("ANGULAR_VELOCITY")
	require.NoError(t, err)
	assert.Equal(t, "ANGULAR_VELOCITY", va.Name())

	// Display names are not a lookup key.
	_, err = v.VariableNamed("no such")
	assert.ErrorIs(t, err, ErrUnknownVariable)
}

func TestNewRejectsMismatchedNames(t *testing.T) {
	_, err := New("v", []string{"a", "b"}, []string{"a"})
	assert.ErrorIs(t, err, ErrMismatchedNames)
}

func TestAddVariableBroadcastsOnce(t *testing.T) {
	v := newPendulumVars(t)
	rec := &eventRecorder{}
	v.AddObserver(rec)

	nv, err := NewVariable(v, "kinetic energy", "", 0)
	require.NoError(t, err)
	index, err := v.AddVariable(nv)
	require.NoError(t, err)
	assert.Equal(t, 3, index)
	assert.Equal(t, []string{VarsModified}, rec.names)
}

func TestAddVariablesSingleEvent(t *testing.T) {
	v := newPendulumVars(t)
	rec := &eventRecorder{}
	v.AddObserver(rec)

	start, err := v.AddVariables([]string{"ke", "pe", "te"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, start)
	assert.Equal(t, 6, v.NumVariables())
	assert.Equal(t, []string{VarsModified}, rec.names, "one event per structural change")
}

func TestAddVariableRejectsReservedAndDuplicate(t *testing.T) {
	v := newPendulumVars(t)

	_, err := v.AddVariables([]string{"deleted"}, nil)
	assert.ErrorIs(t, err, ErrReservedName)

	_, err = v.AddVariables([]string{"angle"}, nil)
	assert.ErrorIs(t, err, observe.ErrDuplicateParameter)

	_, err = v.AddVariables([]string{"fresh", "FRESH"}, nil)
	assert.ErrorIs(t, err, observe.ErrDuplicateParameter, "intra-batch duplicates rejected")

	// Failed adds must not leave partial state behind.
	assert.Equal(t, 3, v.NumVariables())
}

func TestDeleteAndSlotReuse(t *testing.T) {
	v, err := New("v", []string{"a", "b", "c", "d", "time"}, nil)
	require.NoError(t, err)
	rec := &eventRecorder{}
	v.AddObserver(rec)

	require.NoError(t, v.DeleteVariables(1, 2))
	assert.Equal(t, 5, v.NumVariables(), "tombstones keep later indices stable")
	assert.Equal(t, []string{VarsModified}, rec.names)

	va, err := v.Variable(1)
	require.NoError(t, err)
	assert.Equal(t, DeletedName, va.Name())

	// A two-slot request fits the gap exactly.
	start, err := v.AddVariables([]string{"x", "y"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, start)
	assert.Equal(t, 5, v.NumVariables())

	// A larger request skips the (now filled) interior and extends the tail.
	require.NoError(t, v.DeleteVariables(1, 1))
	start, err = v.AddVariables([]string{"p", "q"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, start)
	assert.Equal(t, 7, v.NumVariables())
}

func TestDeleteVariablesEdgeCases(t *testing.T) {
	v := newPendulumVars(t)
	require.NoError(t, v.DeleteVariables(0, 0), "zero count is a no-op")
	assert.ErrorIs(t, v.DeleteVariables(2, 5), ErrIndexOutOfRange)
	assert.ErrorIs(t, v.DeleteVariables(-1, 1), ErrIndexOutOfRange)
}

func TestDeleteTimeVariableClearsTimeIndex(t *testing.T) {
	v := newPendulumVars(t)
	require.NoError(t, v.DeleteVariables(2, 1))
	assert.Equal(t, -1, v.TimeIndex())
	_, err := v.Time()
	assert.ErrorIs(t, err, ErrNoTimeVariable)
}

func TestSetValueToTombstoneIgnored(t *testing.T) {
	v := newPendulumVars(t)
	require.NoError(t, v.DeleteVariables(0, 1))

	// Stale index writes are dropped, not errors.
	require.NoError(t, v.SetValue(0, 42, false))
	val, err := v.Value(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, val)
}

func TestNaNPolicy(t *testing.T) {
	v := newPendulumVars(t)
	assert.ErrorIs(t, v.SetValue(0, math.NaN(), false), ErrNaNValue)

	va, err := v.Variable(0)
	require.NoError(t, err)
	va.SetComputed(true)
	require.NoError(t, v.SetValue(0, math.NaN(), false), "computed variables may hold NaN")
}

func TestValuesMasksComputed(t *testing.T) {
	v := newPendulumVars(t)
	require.NoError(t, v.SetValue(0, 1.5, false))
	require.NoError(t, v.SetValue(1, -2, false))
	va, err := v.Variable(1)
	require.NoError(t, err)
	va.SetComputed(true)

	masked := v.Values(false)
	assert.Equal(t, 1.5, masked[0])
	assert.True(t, math.IsNaN(masked[1]), "computed reads as NaN when excluded")

	full := v.Values(true)
	assert.Equal(t, -2.0, full[1])
}

func TestSequenceNumbers(t *testing.T) {
	v := newPendulumVars(t)
	va, err := v.Variable(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), va.Sequence())

	// Continuous writes preserve the sequence number.
	require.NoError(t, v.SetValue(0, 0.1, true))
	assert.Equal(t, uint64(0), va.Sequence())

	// Discontinuous writes bump it.
	require.NoError(t, v.SetValue(0, 0.2, false))
	assert.Equal(t, uint64(1), va.Sequence())

	// IncrSequence with no indices marks every slot.
	require.NoError(t, v.IncrSequence())
	assert.Equal(t, uint64(2), va.Sequence())

	require.NoError(t, v.IncrSequence(0))
	assert.Equal(t, uint64(3), va.Sequence())
	assert.ErrorIs(t, v.IncrSequence(99), ErrIndexOutOfRange)
}

func TestSetValues(t *testing.T) {
	v := newPendulumVars(t)
	require.NoError(t, v.SetValues([]float64{1, 2}, true))
	vals := v.Values(true)
	assert.Equal(t, []float64{1, 2, 0}, vals, "unnamed trailing slots untouched")

	err := v.SetValues([]float64{1, 2, 3, 4}, true)
	assert.ErrorIs(t, err, ErrTooManyValues)
}

func TestTimeAccess(t *testing.T) {
	v := newPendulumVars(t)
	require.NoError(t, v.SetTime(2.5))
	tm, err := v.Time()
	require.NoError(t, err)
	assert.Equal(t, 2.5, tm)

	// SetTime is continuous.
	va, err := v.Variable(v.TimeIndex())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), va.Sequence())
}

func TestParametersAreLiveVariables(t *testing.T) {
	v := newPendulumVars(t)
	require.NoError(t, v.DeleteVariables(1, 1))

	params := v.Parameters()
	require.Len(t, params, 2)
	assert.Equal(t, "ANGLE", params[0].Name())
	assert.Equal(t, "TIME", params[1].Name())

	p, err := v.Parameter("angle")
	require.NoError(t, err)
	assert.Equal(t, "ANGLE", p.Name())

	_, err = v.ParameterNumber("angle")
	assert.ErrorIs(t, err, observe.ErrWrongParameterKind)

	nv, err := NewVariable(v, "x", "", 0)
	require.NoError(t, err)
	assert.ErrorIs(t, v.AddParameter(nv), ErrParameterEntry)
}

func TestVariableBroadcasts(t *testing.T) {
	v := newPendulumVars(t)
	rec := &eventRecorder{}
	v.AddObserver(rec)

	va, err := v.Variable(0)
	require.NoError(t, err)
	require.NoError(t, v.SetValue(0, 1, false))
	assert.Empty(t, rec.names, "broadcasting is off by default")

	va.SetBroadcasts(true)
	require.NoError(t, v.SetValue(0, 2, false))
	assert.Equal(t, []string{"ANGLE"}, rec.names)

	// Unchanged writes do not broadcast.
	require.NoError(t, v.SetValue(0, 2, false))
	assert.Equal(t, []string{"ANGLE"}, rec.names)
}

func TestHistory(t *testing.T) {
	v := newPendulumVars(t)
	v.SaveHistory()
	assert.Empty(t, v.PrintHistory(), "recording is off by default")

	v.SetRecordHistory(true)
	for i := 0; i < 25; i++ {
		require.NoError(t, v.SetValue(0, float64(i), true))
		require.NoError(t, v.SetTime(float64(i)/100))
		v.SaveHistory()
	}
	out := v.PrintHistory()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 20, "history is bounded")
	assert.Contains(t, lines[len(lines)-1], "24", "newest snapshot retained")

	v.SetRecordHistory(false)
	assert.Empty(t, v.PrintHistory())
}

func TestVariableAsString(t *testing.T) {
	v := newPendulumVars(t)
	va, err := v.Variable(0)
	require.NoError(t, err)

	require.NoError(t, va.SetFromString("1.25"))
	assert.Equal(t, "1.25", va.AsString())
	assert.Equal(t, uint64(1), va.Sequence(), "string writes are discontinuous")
	assert.Error(t, va.SetFromString("bogus"))
}
