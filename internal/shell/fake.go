package shell

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Result is the scripted outcome of a command.
type Result struct {
	Output []byte
	Err    error

	// Block, if set, makes Run wait until ctx is done and return ctx.Err().
	Block bool
}

// Call is a command invocation recorded by FakeRunner.
type Call struct {
	Name string
	Args []string
}

// String returns the command line.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// FakeRunner returns scripted results keyed by program name and records calls.
// It is safe for concurrent use.
type FakeRunner struct {
	mu      sync.Mutex
	results map[string]Result
	calls   []Call
}

// NewFakeRunner creates a FakeRunner with no scripted results.
// Unscripted programs fail as if they were not installed.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{results: make(map[string]Result)}
}

// Set scripts the result for a program name.
func (f *FakeRunner) Set(name string, r Result) {
	f.mu.Lock()
	f.results[name] = r
	f.mu.Unlock()
}

// Run records the call and returns the scripted result.
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Name: name, Args: append([]string(nil), args...)})
	r, ok := f.results[name]
	f.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%s: executable file not found in $PATH", name)
	}
	if r.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return r.Output, r.Err
}

// Calls returns a copy of the recorded calls.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}
