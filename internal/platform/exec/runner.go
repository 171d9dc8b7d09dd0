// Package exec runs local commands for the pipeline: the image download and
// the conversion CLI tools. Command output is returned raw; callers own any
// parsing of it.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	osexec "os/exec"
)

// Result carries everything a command produced.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes a command and reports its output and exit status.
//
// A non-zero exit status is not an error at this layer; err is reserved for
// failures to run the command at all (binary missing, context cancelled).
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// LocalRunner runs commands on the local host.
type LocalRunner struct{}

// NewLocalRunner creates a LocalRunner.
func NewLocalRunner() *LocalRunner {
	return &LocalRunner{}
}

// Run executes the command and captures stdout and stderr separately.
func (r *LocalRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := osexec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("failed to run %s: %w", name, err)
	}

	return res, nil
}
