package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/bedrock/pkg/report"
)

func TestSubject(t *testing.T) {
	require.Equal(t, "[bedrock] node-01 installed",
		subject(report.Report{Machine: "node-01", Code: install.CodeSuccess}))
	require.Equal(t, "[bedrock] node-01 FAILED",
		subject(report.Report{Machine: "node-01", Code: install.CodeFailure}))
}

func TestBody(t *testing.T) {
	b := body(report.Report{
		Machine:    "node-01",
		StartedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 3, 1, 12, 10, 0, 0, time.UTC),
		Code:       install.CodeFailure,
		Error:      "step \"mount\" failed",
		Steps: []report.StepResult{
			{Ordinal: 1, Name: "partition", Duration: 3 * time.Second},
		},
	})
	require.Contains(t, b, "Machine: node-01")
	require.Contains(t, b, "Status: 256")
	require.Contains(t, b, "Error: step \"mount\" failed")
	require.Contains(t, b, "1. partition")
}
