package report

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/chartsync/chartsync/pkg/types"
)

// Result is the machine-readable payload of a completed run
type Result struct {
	Release string `json:"release,omitempty"`
	Changed bool   `json:"changed"`
	Stdout  string `json:"stdout"`
	Stderr  string `json:"stderr"`
}

// Failure is the machine-readable payload of a failed run. Command is
// set when the failure came from a tool invocation.
type Failure struct {
	Release string `json:"release,omitempty"`
	Msg     string `json:"msg"`
	Command string `json:"command,omitempty"`
	Stdout  string `json:"stdout,omitempty"`
	Stderr  string `json:"stderr,omitempty"`
}

// FromOutcome builds the result payload for an outcome
func FromOutcome(outcome *types.Outcome) Result {
	return Result{
		Release: outcome.Release,
		Changed: outcome.Changed,
		Stdout:  outcome.Stdout,
		Stderr:  outcome.Stderr,
	}
}

// FromError builds the failure payload for an error, unwrapping tool
// failures so the exact command and its streams are surfaced.
func FromError(release string, err error) Failure {
	f := Failure{Release: release, Msg: err.Error()}

	var toolErr *types.ToolExecutionError
	if errors.As(err, &toolErr) {
		f.Command = toolErr.Command
		f.Stdout = toolErr.Stdout
		f.Stderr = toolErr.Stderr
	}
	return f
}

// Reporter writes payloads as line-delimited JSON, one object per
// run. Stdout stays parseable when several releases are applied in
// sequence.
type Reporter struct {
	out io.Writer
}

// NewReporter creates a reporter writing to out
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Success writes the result payload for a completed run
func (r *Reporter) Success(outcome *types.Outcome) error {
	return json.NewEncoder(r.out).Encode(FromOutcome(outcome))
}

// Failure writes the failure payload for a run that errored
func (r *Reporter) Failure(release string, err error) error {
	return json.NewEncoder(r.out).Encode(FromError(release, err))
}
