package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/bedrock/pkg/install"
)

func TestRecorderCollectsSteps(t *testing.T) {
	r := NewRecorder("node-01")
	r.Observe(install.Event{Ordinal: 1, Total: 2, Step: "mount"})
	r.Observe(install.Event{Ordinal: 2, Total: 2, Step: "extract"})
	r.Observe(install.Event{Final: true, Code: install.CodeSuccess})

	rep := r.Report()
	require.Equal(t, "node-01", rep.Machine)
	require.Equal(t, install.CodeSuccess, rep.Code)
	require.Empty(t, rep.Error)
	require.Len(t, rep.Steps, 2)
	require.Equal(t, "mount", rep.Steps[0].Name)
	require.Equal(t, 2, rep.Steps[1].Ordinal)
}

func TestRecorderFailureCarriesSentinel(t *testing.T) {
	r := NewRecorder("node-01")
	r.Observe(install.Event{Ordinal: 1, Total: 2, Step: "mount"})
	r.Observe(install.Event{Final: true, Code: install.CodeFailure, Error: "mount failed"})

	rep := r.Report()
	require.Equal(t, install.CodeFailure, rep.Code)
	require.Equal(t, "mount failed", rep.Error)
}

func TestRecorderWithoutFinalEventIsFailure(t *testing.T) {
	r := NewRecorder("node-01")
	r.Observe(install.Event{Ordinal: 1, Total: 2, Step: "mount"})

	require.Equal(t, install.CodeFailure, r.Report().Code)
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "report.json")
	rep := NewRecorder("node-01").Report()
	require.NoError(t, Write(path, rep))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(content, &decoded))
	require.Equal(t, "node-01", decoded.Machine)
}
