package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Result captures one tool invocation: the exit code and everything the
// process wrote to its standard streams.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Executor runs an external tool and reports its exit code and output.
// A nonzero exit is data at this layer, not an error; callers classify
// it. The error return covers failures to run the tool at all (missing
// binary, canceled context).
type Executor interface {
	Run(ctx context.Context, argv []string) (Result, error)
}

// OSExecutor runs commands on the host via os/exec
type OSExecutor struct{}

// NewOSExecutor creates an executor backed by the host OS
func NewOSExecutor() *OSExecutor {
	return &OSExecutor{}
}

// Run executes argv[0] with the remaining tokens as arguments and
// blocks until the process exits or ctx is done.
func (e *OSExecutor) Run(ctx context.Context, argv []string) (Result, error) {
	if len(argv) == 0 {
		return Result{}, fmt.Errorf("empty argument vector")
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("command interrupted: %w", ctxErr)
		}
		return res, fmt.Errorf("starting command %q: %w", argv[0], err)
	}

	return res, nil
}
