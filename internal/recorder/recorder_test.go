package recorder

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"physlab/internal/vars"
)

func newVars(t *testing.T) *vars.VarsList {
	t.Helper()
	va, err := vars.New("v", []string{"position", "velocity", "time"}, nil)
	require.NoError(t, err)
	return va
}

func TestRecordAndSeries(t *testing.T) {
	va := newVars(t)
	rec := New(va, 100)

	for i := 0; i < 5; i++ {
		require.NoError(t, va.SetValue(0, float64(i), true))
		require.NoError(t, va.SetTime(float64(i)*0.1))
		idx, err := rec.Record()
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}

	assert.Equal(t, 5, rec.Size())
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, rec.Series(0))
	times := rec.Times()
	require.Len(t, times, 5)
	assert.InDelta(t, 0.4, times[4], 1e-12)
}

func TestBoundedWindow(t *testing.T) {
	va := newVars(t)
	rec := New(va, 3)

	for i := 0; i < 10; i++ {
		require.NoError(t, va.SetValue(0, float64(i), true))
		_, err := rec.Record()
		require.NoError(t, err)
	}
	assert.Equal(t, 3, rec.Size())
	assert.Equal(t, []float64{7, 8, 9}, rec.Series(0), "only the newest window is retained")
}

func TestSamplesAreIndependentSnapshots(t *testing.T) {
	va := newVars(t)
	rec := New(va, 10)

	require.NoError(t, va.SetValue(0, 1, true))
	_, err := rec.Record()
	require.NoError(t, err)
	require.NoError(t, va.SetValue(0, 2, true))

	samples := rec.Samples()
	require.Len(t, samples, 1)
	assert.Equal(t, 1.0, samples[0].Values[0], "stored snapshot unaffected by later writes")
}

func TestWriteCSV(t *testing.T) {
	va := newVars(t)
	rec := New(va, 10)
	require.NoError(t, va.SetValue(0, 1.5, true))
	require.NoError(t, va.SetTime(0.25))
	_, err := rec.Record()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, rec.WriteCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "time,POSITION,VELOCITY,TIME", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0.250000,1.500000,"), "row: %s", lines[1])
}

func TestReset(t *testing.T) {
	va := newVars(t)
	rec := New(va, 10)
	_, err := rec.Record()
	require.NoError(t, err)
	rec.Reset()
	assert.Zero(t, rec.Size())
	assert.Empty(t, rec.Samples())
}
