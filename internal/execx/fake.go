package execx

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// FakeResponse scripts the outcome of one faked command.
type FakeResponse struct {
	Result Result
	Err    error
}

// FakeRunner is a scripted Runner for tests. Commands are keyed by the
// program and arguments joined with single spaces; unscripted commands
// behave like absent programs (error + non-zero exit), which probes treat
// as normal absence.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]FakeResponse
	paths     map[string]string
	calls     []string
}

// NewFakeRunner creates an empty scripted runner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		responses: make(map[string]FakeResponse),
		paths:     make(map[string]string),
	}
}

var _ Runner = (*FakeRunner)(nil)

// Script registers the response for a command line.
func (f *FakeRunner) Script(commandLine string, res Result, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[commandLine] = FakeResponse{Result: res, Err: err}
}

// ScriptOutput registers a successful command producing stdout.
func (f *FakeRunner) ScriptOutput(commandLine, stdout string) {
	f.Script(commandLine, Result{Stdout: stdout}, nil)
}

// ScriptFailure registers a command failing with exit code 1.
func (f *FakeRunner) ScriptFailure(commandLine, stderr string) {
	f.Script(commandLine, Result{Stderr: stderr, ExitCode: 1}, fmt.Errorf("exit status 1"))
}

// AddPath makes LookPath resolve the program.
func (f *FakeRunner) AddPath(name, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths[name] = path
}

// Run returns the scripted response for the command line.
func (f *FakeRunner) Run(_ context.Context, name string, args []string, _ Options) (Result, error) {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))

	f.mu.Lock()
	f.calls = append(f.calls, line)
	resp, ok := f.responses[line]
	f.mu.Unlock()

	if !ok {
		return Result{ExitCode: 127}, fmt.Errorf("command not scripted: %s", line)
	}
	return resp.Result, resp.Err
}

// LookPath resolves only programs registered with AddPath.
func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if path, ok := f.paths[name]; ok {
		return path, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}

// Calls returns every command line executed, in order.
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallCount returns how many times the exact command line ran.
func (f *FakeRunner) CallCount(commandLine string) int {
	count := 0
	for _, call := range f.Calls() {
		if call == commandLine {
			count++
		}
	}
	return count
}
