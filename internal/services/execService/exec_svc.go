// Package execService wraps external command execution behind a Runner
// interface so every service that shells out can be tested with canned
// output instead of real system tools.
package execService

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/redclay/hostdash/internal/constants"
)

// DefaultTimeout bounds a single command invocation. A hung tool fails the
// one request that ran it instead of wedging the handler forever.
const DefaultTimeout = 30 * time.Second

// DefaultMaxOutputBytes caps captured stdout/stderr per invocation.
const DefaultMaxOutputBytes = 1 << 20

// Runner executes one external command and returns its captured stdout.
type Runner interface {
	Run(ctx context.Context, cmd constants.Command) (string, error)
}

// RunnerFunc adapts a function to the Runner interface. Tests use this to
// inject canned stdout or simulated failures.
type RunnerFunc func(ctx context.Context, cmd constants.Command) (string, error)

func (f RunnerFunc) Run(ctx context.Context, cmd constants.Command) (string, error) {
	return f(ctx, cmd)
}

// ExecutionError reports a spawn failure, non-zero exit, or timeout from a
// single command invocation.
type ExecutionError struct {
	Cmd      string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExecutionError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("command %q exited %d: %s", e.Cmd, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("command %q failed: %v", e.Cmd, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// ProcRunner runs commands as real subprocesses. Argument-vector only:
// there is deliberately no code path that hands a string to a shell.
type ProcRunner struct {
	// Timeout per invocation. Zero means DefaultTimeout.
	Timeout time.Duration
	// MaxOutputBytes caps each captured stream. Zero means DefaultMaxOutputBytes.
	MaxOutputBytes int
}

// NewProcRunner returns a ProcRunner with the given per-command timeout.
func NewProcRunner(timeout time.Duration) *ProcRunner {
	return &ProcRunner{Timeout: timeout}
}

// Run executes the command and returns full captured stdout. Exactly one
// attempt; the caller sees either the complete output or an
// *ExecutionError, never partial state.
func (r *ProcRunner) Run(ctx context.Context, cmd constants.Command) (string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxBytes := r.MaxOutputBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxOutputBytes
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stdout := &cappedBuffer{max: maxBytes}
	stderr := &cappedBuffer{max: maxBytes}

	proc := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	proc.Stdout = stdout
	proc.Stderr = stderr

	if err := proc.Run(); err != nil {
		execErr := &ExecutionError{
			Cmd:      cmd.Line(),
			ExitCode: -1,
			Stderr:   stderr.String(),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			execErr.ExitCode = exitErr.ExitCode()
		}
		return "", execErr
	}

	return stdout.String(), nil
}

// cappedBuffer accepts all writes but stores at most max bytes, so a
// runaway tool can not balloon the process.
type cappedBuffer struct {
	buf       bytes.Buffer
	max       int
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	remaining := b.max - b.buf.Len()
	if remaining <= 0 {
		b.truncated = true
		return len(p), nil
	}
	if len(p) > remaining {
		b.buf.Write(p[:remaining])
		b.truncated = true
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

func (b *cappedBuffer) String() string { return b.buf.String() }
