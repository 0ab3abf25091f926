package types

import "fmt"

// ToolExecutionError reports a helm invocation that exited nonzero.
// It carries the full command text and captured output so callers can
// surface exactly what failed.
type ToolExecutionError struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("Failure when executing Helm command. Exited %d.\nstdout: %s\nstderr: %s",
		e.ExitCode, e.Stdout, e.Stderr)
}

// ImmutableFieldError reports a desired change to a field that cannot
// be changed on a deployed release. No mutating command is issued when
// this is raised.
type ImmutableFieldError struct {
	Field    string
	Observed string
	Desired  string
}

func (e *ImmutableFieldError) Error() string {
	return fmt.Sprintf("%s can't be changed on deployed chart ! Need to destroy and recreate it", e.Field)
}
