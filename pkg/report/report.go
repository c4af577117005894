package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/outofforest/bedrock/pkg/install"
)

// DefaultPath is where the installation report is stored in the session the
// launcher runs in.
const DefaultPath = "/var/log/bedrock-report.json"

// Report is the machine-readable record of one installation.
type Report struct {
	Machine    string    `json:"machine"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	// Code is the sequence status code, 0 on success, 256 on failure.
	Code  int    `json:"code"`
	Error string `json:"error,omitempty"`

	Steps []StepResult `json:"steps"`
}

// StepResult records one executed step.
type StepResult struct {
	Ordinal  int           `json:"ordinal"`
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
}

// Recorder collects sequence events into a report.
type Recorder struct {
	machine string

	mu       sync.Mutex
	started  time.Time
	lastAt   time.Time
	steps    []StepResult
	code     int
	errorMsg string
	final    bool
}

// NewRecorder creates a recorder for the given machine.
func NewRecorder(machine string) *Recorder {
	now := time.Now()
	return &Recorder{
		machine: machine,
		started: now,
		lastAt:  now,
	}
}

// Observe is wired into the sequence as a reporter.
func (r *Recorder) Observe(e install.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if len(r.steps) > 0 {
		r.steps[len(r.steps)-1].Duration = now.Sub(r.lastAt)
	}
	r.lastAt = now

	if e.Final {
		r.final = true
		r.code = e.Code
		r.errorMsg = e.Error
		return
	}

	r.steps = append(r.steps, StepResult{
		Ordinal: e.Ordinal,
		Name:    e.Step,
	})
}

// Report returns the report collected so far.
func (r *Recorder) Report() Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := r.code
	if !r.final {
		// The process died before the final event, that is a failure.
		code = install.CodeFailure
	}

	return Report{
		Machine:    r.machine,
		StartedAt:  r.started,
		FinishedAt: r.lastAt,
		Code:       code,
		Error:      r.errorMsg,
		Steps:      append([]StepResult{}, r.steps...),
	}
}

// Write stores the report as JSON.
func Write(path string, rep Report) error {
	content, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.WriteFile(path, append(content, '\n'), 0o600))
}

// Diagnostic appends a one-line summary to the fixed log path. Best effort:
// it is the last thing written before the installer exits, possibly on a
// half-broken system.
func Diagnostic(path string, rep Report) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s code=%d", rep.FinishedAt.Format(time.RFC3339), rep.Code)
	if rep.Error != "" {
		line += " error=" + rep.Error
	}
	if _, err := fmt.Fprintln(f, line); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(f.Close())
}
