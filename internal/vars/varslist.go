package vars

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"physlab/internal/observe"
)

const (
	// VarsModified is broadcast whenever the slot structure changes.
	VarsModified = "VARS_MODIFIED"
	// DeletedName is the reserved name marking a tombstoned slot.
	DeletedName = "DELETED"
	// TimeName is the reserved name identifying the time variable.
	TimeName = "TIME"
	// historyCapacity bounds the debug snapshot ring.
	historyCapacity = 20
)

// Domain errors for variable registry operations.
var (
	// ErrIndexOutOfRange indicates a slot index outside the list.
	ErrIndexOutOfRange = errors.New("vars: variable index out of range")

	// ErrUnknownVariable indicates no variable has the given name.
	ErrUnknownVariable = errors.New("vars: unknown variable")

	// ErrReservedName indicates an attempt to use the tombstone name.
	ErrReservedName = errors.New("vars: name is reserved")

	// ErrNaNValue indicates a NaN write to a non-computed variable.
	ErrNaNValue = errors.New("vars: NaN value for non-computed variable")

	// ErrTooManyValues indicates a bulk write longer than the list.
	ErrTooManyValues = errors.New("vars: more values than variables")

	// ErrNoTimeVariable indicates the list has no variable named TIME.
	ErrNoTimeVariable = errors.New("vars: no time variable")

	// ErrParameterEntry indicates direct parameter registration, which a
	// VarsList forbids: its parameters are managed through variable
	// add/delete only.
	ErrParameterEntry = errors.New("vars: parameters are managed through variables")

	// ErrMismatchedNames indicates name and display-name slices of
	// differing length.
	ErrMismatchedNames = errors.New("vars: names and local names lengths differ")
)

// VarsList is an ordered, named, gap-tolerant registry of variables. It is
// a Subject whose registered parameters are exactly its live (non-deleted)
// variables, and it emits a single VARS_MODIFIED event per structural
// change.
type VarsList struct {
	*observe.AbstractSubject
	vars []*ConcreteVariable
	// timeIdx caches the slot holding the TIME variable, -1 when absent.
	timeIdx       int
	history       [][]float64
	recordHistory bool
}

// New makes a list with one variable per entry of names. localNames may be
// nil or shorter; missing display names fall back to the canonical name.
// The reserved tombstone name is rejected; a variable named TIME becomes
// the list's time variable.
func New(name string, names, localNames []string) (*VarsList, error) {
	v := &VarsList{
		AbstractSubject: observe.NewAbstractSubject(name),
		timeIdx:         -1,
	}
	if len(names) > 0 {
		if _, err := v.AddVariables(names, localNames); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// NumVariables returns the slot count, tombstones included.
func (v *VarsList) NumVariables() int { return len(v.vars) }

// AddVariable installs nv into the first open slot, or appends a new one,
// and returns the index assigned. The variable's name must be unique among
// live variables and must not be the tombstone name.
func (v *VarsList) AddVariable(nv *ConcreteVariable) (int, error) {
	if nv.isDeleted() {
		return 0, fmt.Errorf("%w: %q", ErrReservedName, DeletedName)
	}
	if err := v.checkUnique(nv.Name()); err != nil {
		return 0, err
	}
	index := v.findOpenSlot(1)
	nv.owner = v
	v.vars[index] = nv
	v.noteTimeVariable(index)
	v.Broadcast(observe.NewGenericEvent(v, VarsModified, nil))
	return index, nil
}

// AddVariables installs one variable per name into a contiguous run of
// slots and returns the index of the first. Exactly one VARS_MODIFIED
// event is broadcast, after all slots are installed.
func (v *VarsList) AddVariables(names, localNames []string) (int, error) {
	if len(names) == 0 {
		return 0, fmt.Errorf("vars: no names given")
	}
	if localNames != nil && len(localNames) != len(names) {
		return 0, fmt.Errorf("%w: %d names, %d local names", ErrMismatchedNames, len(names), len(localNames))
	}
	fresh := make([]*ConcreteVariable, len(names))
	for i, name := range names {
		local := ""
		if localNames != nil {
			local = localNames[i]
		}
		nv, err := NewVariable(v, name, local, 0)
		if err != nil {
			return 0, err
		}
		if nv.isDeleted() {
			return 0, fmt.Errorf("%w: %q", ErrReservedName, DeletedName)
		}
		if err := v.checkUnique(nv.Name()); err != nil {
			return 0, err
		}
		for j := 0; j < i; j++ {
			if fresh[j].Name() == nv.Name() {
				return 0, fmt.Errorf("%w: %q", observe.ErrDuplicateParameter, nv.Name())
			}
		}
		fresh[i] = nv
	}
	start := v.findOpenSlot(len(fresh))
	for i, nv := range fresh {
		v.vars[start+i] = nv
		v.noteTimeVariable(start + i)
	}
	v.Broadcast(observe.NewGenericEvent(v, VarsModified, nil))
	return start, nil
}

// DeleteVariables tombstones the given contiguous range. The slots remain
// in place so other variables keep their indices; a later block allocation
// may reuse the gap. A zero count is a no-op.
func (v *VarsList) DeleteVariables(index, count int) error {
	if count == 0 {
		return nil
	}
	if count < 0 || index < 0 || index+count > len(v.vars) {
		return fmt.Errorf("%w: delete [%d, %d) of %d", ErrIndexOutOfRange, index, index+count, len(v.vars))
	}
	for i := index; i < index+count; i++ {
		v.vars[i] = newTombstone(v)
		if i == v.timeIdx {
			v.timeIdx = -1
		}
	}
	v.Broadcast(observe.NewGenericEvent(v, VarsModified, nil))
	return nil
}

// findOpenSlot returns the index of the first contiguous run of quantity
// tombstoned slots, extending or appending at the tail as needed. The
// first-fit-from-start policy keeps the list from growing without bound
// when deletes and adds interleave in a steady pattern.
func (v *VarsList) findOpenSlot(quantity int) int {
	runStart, runLen := -1, 0
	for i := range v.vars {
		if v.vars[i].isDeleted() {
			if runLen == 0 {
				runStart = i
			}
			runLen++
			if runLen == quantity {
				return runStart
			}
		} else {
			runStart, runLen = -1, 0
		}
	}
	if runStart >= 0 {
		// tail run shorter than requested: extend by exactly the shortfall
		for i := runLen; i < quantity; i++ {
			v.vars = append(v.vars, newTombstone(v))
		}
		return runStart
	}
	start := len(v.vars)
	for i := 0; i < quantity; i++ {
		v.vars = append(v.vars, newTombstone(v))
	}
	return start
}

func (v *VarsList) checkUnique(name string) error {
	for _, existing := range v.vars {
		if !existing.isDeleted() && existing.Name() == name {
			return fmt.Errorf("%w: %q on %q", observe.ErrDuplicateParameter, name, v.Name())
		}
	}
	return nil
}

func (v *VarsList) noteTimeVariable(index int) {
	if v.timeIdx < 0 && v.vars[index].Name() == TimeName {
		v.timeIdx = index
	}
}

// Value returns the value in the given slot.
func (v *VarsList) Value(index int) (float64, error) {
	if index < 0 || index >= len(v.vars) {
		return 0, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(v.vars))
	}
	return v.vars[index].Value(), nil
}

// Values returns every slot's value. Computed variables read as NaN unless
// includeComputed is set, so derived quantities are not mistaken for
// independent state during save/restore.
func (v *VarsList) Values(includeComputed bool) []float64 {
	out := make([]float64, len(v.vars))
	for i, va := range v.vars {
		if va.IsComputed() && !includeComputed {
			out[i] = math.NaN()
		} else {
			out[i] = va.Value()
		}
	}
	return out
}

// SetValue writes one slot. Writes to tombstoned slots are silently
// ignored, so callers holding stale indices across a delete do not crash.
// NaN is rejected unless the variable is computed. The write counts as a
// discontinuity unless continuous is set.
func (v *VarsList) SetValue(index int, value float64, continuous bool) error {
	if index < 0 || index >= len(v.vars) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(v.vars))
	}
	va := v.vars[index]
	if va.isDeleted() {
		return nil
	}
	if math.IsNaN(value) && !va.IsComputed() {
		return fmt.Errorf("%w: slot %d (%q)", ErrNaNValue, index, va.Name())
	}
	if continuous {
		va.SetValueContinuous(value)
	} else {
		va.SetValue(value)
	}
	return nil
}

// SetValues writes values into the first len(values) slots, leaving the
// rest untouched.
func (v *VarsList) SetValues(values []float64, continuous bool) error {
	if len(values) > len(v.vars) {
		return fmt.Errorf("%w: %d values, %d variables", ErrTooManyValues, len(values), len(v.vars))
	}
	for i, value := range values {
		if err := v.SetValue(i, value, continuous); err != nil {
			return err
		}
	}
	return nil
}

// IncrSequence marks a discontinuity on the given slots, or on every slot
// when none are given (e.g. after a reset).
func (v *VarsList) IncrSequence(indices ...int) error {
	if len(indices) == 0 {
		for _, va := range v.vars {
			va.IncrSequence()
		}
		return nil
	}
	for _, index := range indices {
		if index < 0 || index >= len(v.vars) {
			return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(v.vars))
		}
		v.vars[index].IncrSequence()
	}
	return nil
}

// Variable returns the variable in the given slot, tombstones included.
func (v *VarsList) Variable(index int) (Variable, error) {
	if index < 0 || index >= len(v.vars) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(v.vars))
	}
	return v.vars[index], nil
}

// VariableNamed returns the live variable with the given canonical name.
// Display names are not matched.
func (v *VarsList) VariableNamed(name string) (Variable, error) {
	canonical := observe.ToName(name)
	for _, va := range v.vars {
		if !va.isDeleted() && va.Name() == canonical {
			return va, nil
		}
	}
	return nil, fmt.Errorf("%w: %q on %q", ErrUnknownVariable, name, v.Name())
}

// TimeIndex returns the slot of the TIME variable, -1 when absent.
func (v *VarsList) TimeIndex() int { return v.timeIdx }

// Time returns the value of the TIME variable.
func (v *VarsList) Time() (float64, error) {
	if v.timeIdx < 0 {
		return 0, fmt.Errorf("%w: %q", ErrNoTimeVariable, v.Name())
	}
	return v.vars[v.timeIdx].Value(), nil
}

// SetTime writes the TIME variable as a continuous change.
func (v *VarsList) SetTime(t float64) error {
	if v.timeIdx < 0 {
		return fmt.Errorf("%w: %q", ErrNoTimeVariable, v.Name())
	}
	return v.SetValue(v.timeIdx, t, true)
}

// Parameters returns the live variables, which are exactly this subject's
// parameters.
func (v *VarsList) Parameters() []observe.Parameter {
	out := make([]observe.Parameter, 0, len(v.vars))
	for _, va := range v.vars {
		if !va.isDeleted() {
			out = append(out, va)
		}
	}
	return out
}

// Parameter looks up a live variable by canonical name.
func (v *VarsList) Parameter(name string) (observe.Parameter, error) {
	va, err := v.VariableNamed(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q on %q", observe.ErrUnknownParameter, name, v.Name())
	}
	return va, nil
}

// ParameterNumber always fails: a VarsList's parameters are variables, not
// number parameters.
func (v *VarsList) ParameterNumber(name string) (*observe.ParameterNumber, error) {
	if _, err := v.Parameter(name); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %q is a variable", observe.ErrWrongParameterKind, name)
}

// ParameterBoolean always fails; see ParameterNumber.
func (v *VarsList) ParameterBoolean(name string) (*observe.ParameterBoolean, error) {
	if _, err := v.Parameter(name); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %q is a variable", observe.ErrWrongParameterKind, name)
}

// ParameterString always fails; see ParameterNumber.
func (v *VarsList) ParameterString(name string) (*observe.ParameterString, error) {
	if _, err := v.Parameter(name); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %q is a variable", observe.ErrWrongParameterKind, name)
}

// BroadcastParameter looks up the named variable and broadcasts it.
func (v *VarsList) BroadcastParameter(name string) error {
	p, err := v.Parameter(name)
	if err != nil {
		return err
	}
	v.Broadcast(p)
	return nil
}

// AddParameter always fails. The parameter list mirrors the variable
// slots; there is no direct registration path.
func (v *VarsList) AddParameter(p observe.Parameter) error {
	return fmt.Errorf("%w: %q on %q", ErrParameterEntry, p.Name(), v.Name())
}

// SetRecordHistory toggles the debug snapshot ring.
func (v *VarsList) SetRecordHistory(record bool) {
	v.recordHistory = record
	if !record {
		v.history = nil
	}
}

// SaveHistory captures all current values plus time into the bounded
// debug history. A no-op unless recording is enabled.
func (v *VarsList) SaveHistory() {
	if !v.recordHistory {
		return
	}
	snap := make([]float64, 0, len(v.vars)+1)
	snap = append(snap, v.Values(true)...)
	t := 0.0
	if v.timeIdx >= 0 {
		t = v.vars[v.timeIdx].Value()
	}
	snap = append(snap, t)
	v.history = append(v.history, snap)
	if len(v.history) > historyCapacity {
		v.history = v.history[1:]
	}
}

// PrintHistory formats the recorded snapshots, oldest first, for
// postmortem debugging.
func (v *VarsList) PrintHistory() string {
	var b strings.Builder
	for i, snap := range v.history {
		fmt.Fprintf(&b, "%3d:", i)
		for _, value := range snap {
			fmt.Fprintf(&b, " %g", value)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
