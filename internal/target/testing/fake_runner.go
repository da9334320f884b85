// Package testing provides test doubles for the target package.
package testing

import (
	"context"
	"strings"
	"sync"

	"github.com/rileyhilliard/wpx/internal/target"
)

// RunCall records a call to the fake runner.
type RunCall struct {
	Command string
	Options target.RunOptions
}

// Response is a scripted answer for commands containing a substring.
type Response struct {
	Match  string
	Result target.Result
	Err    error
}

// FakeRunner simulates WP-CLI. Commands that match no response succeed
// with empty output.
type FakeRunner struct {
	mu        sync.Mutex
	responses []Response

	Calls []RunCall
}

// NewFakeRunner creates a runner where every command succeeds.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// On scripts the result for commands containing match. Earlier scripts win.
func (f *FakeRunner) On(match string, result target.Result, err error) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, Response{Match: match, Result: result, Err: err})
	return f
}

// Run implements target.Runner.
func (f *FakeRunner) Run(ctx context.Context, command string, opts target.RunOptions) (target.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, RunCall{Command: command, Options: opts})
	for _, r := range f.responses {
		if strings.Contains(command, r.Match) {
			return r.Result, r.Err
		}
	}
	return target.Result{}, nil
}

// Count returns how many commands were run.
func (f *FakeRunner) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// Commands returns every command run, in order.
func (f *FakeRunner) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.Command
	}
	return out
}
