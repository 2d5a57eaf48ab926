// Package recorder samples a variable registry into a bounded time series.
package recorder

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"physlab/internal/log"
	"physlab/internal/ring"
	"physlab/internal/vars"
)

// Sample is one snapshot of every variable slot at a moment of sim time.
type Sample struct {
	Time   float64
	Values []float64
}

// Recorder captures snapshots of a VarsList into a circular buffer, so a
// long-running live view retains a bounded window of recent history.
type Recorder struct {
	va   *vars.VarsList
	list *ring.CircularList[Sample]
}

// New makes a recorder retaining at most capacity samples.
func New(va *vars.VarsList, capacity int) *Recorder {
	return &Recorder{
		va:   va,
		list: ring.NewCircularList[Sample](capacity),
	}
}

// Record snapshots the current values and returns the index assigned. If
// the external index space is exhausted the recorder restarts itself and
// keeps going; a run that long has long since evicted the lost history.
func (r *Recorder) Record() (int, error) {
	t, err := r.va.Time()
	if err != nil {
		return 0, err
	}
	snap := Sample{Time: t, Values: r.va.Values(true)}
	index, err := r.list.Store(snap)
	if errors.Is(err, ring.ErrIndexOverflow) {
		l := log.WithComponent("recorder")
		l.Warn().Msg("sample index space exhausted, restarting")
		r.list.Reset()
		return r.list.Store(snap)
	}
	return index, err
}

// Size returns the number of retained samples.
func (r *Recorder) Size() int { return r.list.Size() }

// History exposes the retained samples for indexed or cursor access.
func (r *Recorder) History() ring.HistoryList[Sample] { return r.list }

// Reset discards all samples.
func (r *Recorder) Reset() { r.list.Reset() }

// Samples returns the retained samples, oldest first.
func (r *Recorder) Samples() []Sample {
	out := make([]Sample, 0, r.list.Size())
	it := r.list.Iterator()
	for it.HasNext() {
		s, err := it.NextValue()
		if err != nil {
			break
		}
		out = append(out, s)
	}
	return out
}

// Series extracts one variable slot across the retained window, oldest
// first. Used to feed plots.
func (r *Recorder) Series(slot int) []float64 {
	samples := r.Samples()
	out := make([]float64, 0, len(samples))
	for _, s := range samples {
		if slot < len(s.Values) {
			out = append(out, s.Values[slot])
		}
	}
	return out
}

// Times returns the sample times, oldest first.
func (r *Recorder) Times() []float64 {
	samples := r.Samples()
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Time
	}
	return out
}

// WriteCSV emits the retained window as CSV: a time column followed by
// one column per variable slot, named after the live variables.
func (r *Recorder) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"time"}
	for i := 0; i < r.va.NumVariables(); i++ {
		v, err := r.va.Variable(i)
		if err != nil {
			return err
		}
		name := v.Name()
		if name == vars.DeletedName {
			name = fmt.Sprintf("slot%d", i)
		}
		header = append(header, name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, s := range r.Samples() {
		row := make([]string, 0, len(s.Values)+1)
		row = append(row, strconv.FormatFloat(s.Time, 'f', 6, 64))
		for _, v := range s.Values {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
