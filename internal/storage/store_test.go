package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/vservo/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Times:      []float64{0, 0.04},
		Norms:      []float64{0.5, 0.25},
		Errors:     [][]float64{{0.3, 0.4}, {0.15, 0.2}},
		Velocities: [][]float64{{-0.3, -0.4, 0, 0, 0, 0.1}, {-0.15, -0.2, 0, 0, 0, 0.05}},
		Iterations: 2,
		Converged:  false,
		Metrics: map[string]float64{
			"final_error": 0.25,
			"unset":       math.NaN(),
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runID, err := st.Save(RunMetadata{Scenario: "2d-points", Scheme: "eye-in-hand-camera", Dt: 0.04}, sampleResult())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "2d-points_"))

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, "eye-in-hand-camera", meta.Scheme)
	assert.Equal(t, 2, meta.Steps)
	assert.Equal(t, 0.25, meta.Metrics["final_error"])
	assert.NotContains(t, meta.Metrics, "unset")

	trace, err := st.LoadTrace(runID)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.04}, trace.Times)
	assert.Equal(t, []float64{0.5, 0.25}, trace.Norms)
	assert.Equal(t, []float64{0.15, 0.2}, trace.Errors[1])
	assert.Len(t, trace.Velocities[0], 6)
	assert.InDelta(t, 0.1, trace.Velocities[0][5], 1e-12)
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	first, err := st.Save(RunMetadata{Scenario: "3d-cdmc"}, sampleResult())
	require.NoError(t, err)
	second, err := st.Save(RunMetadata{Scenario: "pan-tilt"}, sampleResult())
	require.NoError(t, err)

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, first, runs[1].ID)
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(t.TempDir() + "/nothing-here")
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	_, err := st.Load("ghost")
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = st.LoadTrace("ghost")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, "2d-points", "eye-in-hand-camera", 0.04, sampleResult()))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, "2d-points", data.Scenario)
	assert.Equal(t, 2, data.Steps)
	assert.Equal(t, []float64{0.5, 0.25}, data.Norms)
	assert.NotContains(t, data.Metrics, "unset")
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, sampleResult()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "time,norm,e0,e1,v0,v1,v2,v3,v4,v5", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0.000000,0.5,0.3,0.4,"))
}
