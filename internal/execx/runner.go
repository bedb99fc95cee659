// Package execx provides the single command-executor capability every probe
// and remediation step runs through. Injecting a Runner keeps process
// spawning in one place and makes the whole pipeline testable with a fake.
package execx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Options controls how a single command run behaves.
type Options struct {
	// Timeout bounds the command; zero means unbounded. Presence checks use
	// short timeouts, installs run long or unbounded.
	Timeout time.Duration
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Interactive wires the command to the parent terminal so install
	// scripts can prompt. Output is still collected for inspection.
	Interactive bool
}

// Result captures the output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// PrimaryOutput returns stderr if present, otherwise stdout.
func (r Result) PrimaryOutput() string {
	if r.Stderr != "" {
		return r.Stderr
	}
	return r.Stdout
}

// Runner executes external commands. Implementations must return the
// collected Result even when the command exits non-zero.
type Runner interface {
	Run(ctx context.Context, name string, args []string, opts Options) (Result, error)
	LookPath(name string) (string, error)
}

// System runs commands against the real machine.
type System struct{}

// NewSystem creates the production Runner.
func NewSystem() *System {
	return &System{}
}

var _ Runner = (*System)(nil)

// Run executes the command, collecting stdout and stderr. Interactive runs
// additionally stream through the parent process streams.
func (s *System) Run(ctx context.Context, name string, args []string, opts Options) (Result, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = os.Environ()
	cmd.Dir = opts.Dir

	var stdoutBuf, stderrBuf bytes.Buffer
	if opts.Interactive {
		cmd.Stdin = os.Stdin
		cmd.Stdout = io.MultiWriter(os.Stdout, &stdoutBuf)
		cmd.Stderr = io.MultiWriter(os.Stderr, &stderrBuf)
	} else {
		cmd.Stdout = &stdoutBuf
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()

	res := Result{
		Stdout: strings.TrimSpace(stdoutBuf.String()),
		Stderr: strings.TrimSpace(stderrBuf.String()),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
		}
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		return res, err
	}

	return res, nil
}

// LookPath resolves a program on PATH.
func (s *System) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
