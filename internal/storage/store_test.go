package storage

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"physlab/internal/recorder"
	"physlab/internal/vars"
)

func makeRun(t *testing.T) *recorder.Recorder {
	t.Helper()
	va, err := vars.New("v", []string{"position", "velocity", "time"}, nil)
	require.NoError(t, err)
	rec := recorder.New(va, 100)
	for i := 0; i < 4; i++ {
		require.NoError(t, va.SetValue(0, float64(i)*0.5, true))
		require.NoError(t, va.SetTime(float64(i)*0.01))
		_, err := rec.Record()
		require.NoError(t, err)
	}
	return rec
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	meta := RunMetadata{Model: "spring", Dt: 0.01, Duration: 0.04, Solver: "rk4"}
	runID, err := st.Save(meta, makeRun(t))
	require.NoError(t, err)
	assert.Contains(t, runID, "spring-")

	loaded, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, loaded.ID)
	assert.Equal(t, "spring", loaded.Model)
	assert.Equal(t, 4, loaded.Samples)
	assert.False(t, loaded.Timestamp.IsZero())

	names, times, states, err := st.LoadStates(runID)
	require.NoError(t, err)
	assert.Equal(t, []string{"POSITION", "VELOCITY", "TIME"}, names)
	require.Len(t, times, 4)
	require.Len(t, states, 4)
	assert.InDelta(t, 0.03, times[3], 1e-9)
	assert.InDelta(t, 1.5, states[3][0], 1e-9)
}

func TestListRuns(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = st.Save(RunMetadata{Model: "pendulum"}, makeRun(t))
	require.NoError(t, err)
	_, err = st.Save(RunMetadata{Model: "spring"}, makeRun(t))
	require.NoError(t, err)

	runs, err = st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestListMissingDir(t *testing.T) {
	st := New(t.TempDir() + "/nowhere")
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestLoadUnknownRun(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())
	_, err := st.Load("missing-run")
	assert.Error(t, err)
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())
	runID, err := st.Save(RunMetadata{Model: "spring", Dt: 0.01}, makeRun(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.ExportJSON(&buf, runID))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, runID, data.Metadata.ID)
	assert.Len(t, data.Times, 4)
	assert.Len(t, data.States, 4)
	assert.Equal(t, []string{"POSITION", "VELOCITY", "TIME"}, data.Names)
}
