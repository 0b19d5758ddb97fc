package runner

// This file contains the process runner used to invoke the engine and its
// test binaries.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/rs/zerolog"
)

// Invocation describes a single process execution.
type Invocation struct {
	// Executable to launch
	Path string
	// Arguments passed verbatim
	Args []string
	// Working directory (current directory when empty)
	Dir string
	// Record elapsed wall-clock time
	Timed bool
}

// Result is the captured outcome of an Invocation.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	// Elapsed is only set for timed invocations.
	Elapsed *time.Duration
}

// Success reports whether the process exited with code 0.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// LaunchError is returned when a process could not be started.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Runner executes processes. A non-zero exit code is returned as data in
// Result; only a failure to launch is an error.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (*Result, error)
}

// Exec runs processes on the local machine.
type Exec struct {
	logger zerolog.Logger
}

// New creates a local process runner.
func New(logger zerolog.Logger) *Exec {
	return &Exec{logger: logger}
}

// Run launches the invocation and blocks until the process exits. No timeout
// is applied.
func (e *Exec) Run(ctx context.Context, inv Invocation) (*Result, error) {
	e.logger.Debug().
		Str("binary", inv.Path).
		Strs("args", inv.Args).
		Str("dir", inv.Dir).
		Msg("Starting process")

	cmd := exec.CommandContext(ctx, inv.Path, inv.Args...)
	cmd.Dir = inv.Dir

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	result := &Result{
		Stdout: stdoutBuf.Bytes(),
		Stderr: stderrBuf.Bytes(),
	}
	if inv.Timed {
		result.Elapsed = &elapsed
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, &LaunchError{Path: inv.Path, Err: err}
		}
		result.ExitCode = exitErr.ExitCode()
	}

	logEvent := e.logger.Debug().
		Str("binary", inv.Path).
		Int("exit_code", result.ExitCode)
	if result.Elapsed != nil {
		logEvent.Dur("elapsed", *result.Elapsed)
	}
	logEvent.Msg("Process finished")

	return result, nil
}

// Command renders the invocation as a shell command line for diagnostics.
func Command(inv Invocation) string {
	parts := make([]string, 0, len(inv.Args)+1)
	parts = append(parts, shellescape.Quote(inv.Path))
	for _, arg := range inv.Args {
		parts = append(parts, shellescape.Quote(arg))
	}
	cmd := strings.Join(parts, " ")
	if inv.Dir != "" {
		cmd = fmt.Sprintf("(cd %s && %s)", shellescape.Quote(inv.Dir), cmd)
	}
	return cmd
}
