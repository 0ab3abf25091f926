package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestToolExecutionErrorMessage tests the failure message format
func TestToolExecutionErrorMessage(t *testing.T) {
	err := &ToolExecutionError{
		Command:  "helm list --output=yaml",
		ExitCode: 1,
		Stdout:   "partial output",
		Stderr:   "Error: could not find tiller",
	}

	msg := err.Error()
	assert.Contains(t, msg, "Exited 1")
	assert.Contains(t, msg, "stdout: partial output")
	assert.Contains(t, msg, "stderr: Error: could not find tiller")
}

// TestToolExecutionErrorUnwrap tests that errors.As finds the typed error
// through wrapping
func TestToolExecutionErrorUnwrap(t *testing.T) {
	inner := &ToolExecutionError{Command: "helm delete app", ExitCode: 2}
	wrapped := fmt.Errorf("reconciling app: %w", inner)

	var toolErr *ToolExecutionError
	assert.True(t, errors.As(wrapped, &toolErr))
	assert.Equal(t, "helm delete app", toolErr.Command)
	assert.Equal(t, 2, toolErr.ExitCode)
}

// TestImmutableFieldErrorMessage tests the remediation hint wording
func TestImmutableFieldErrorMessage(t *testing.T) {
	err := &ImmutableFieldError{
		Field:    "Target Namespace",
		Observed: "default",
		Desired:  "other",
	}

	assert.Equal(t, "Target Namespace can't be changed on deployed chart ! Need to destroy and recreate it", err.Error())
}

// TestChartIdentity tests the chart identity string composition
func TestChartIdentity(t *testing.T) {
	tests := []struct {
		name     string
		spec     ReleaseSpec
		expected string
	}{
		{
			name:     "name and version",
			spec:     ReleaseSpec{ChartName: "mychart", ChartVersion: "1.2.3"},
			expected: "mychart-1.2.3",
		},
		{
			name:     "missing version",
			spec:     ReleaseSpec{ChartName: "mychart"},
			expected: "mychart-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.spec.ChartIdentity())
		})
	}
}
