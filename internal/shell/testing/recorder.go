// Package testing provides test doubles for the shell package.
package testing

import (
	"context"
	"strings"
	"sync"

	"github.com/rileyhilliard/wpx/internal/shell"
)

// Recorder records every command it is asked to run and answers with
// scripted exit statuses. Commands it has no script for exit 0.
type Recorder struct {
	mu sync.Mutex

	// Exits maps a substring of the serialized command to the exit status
	// returned when a command contains it. Keep substrings disjoint.
	Exits map[string]int

	// Err, when set, is returned for every call.
	Err error

	Calls []shell.Command
}

// NewRecorder creates a recorder where every command succeeds.
func NewRecorder() *Recorder {
	return &Recorder{Exits: make(map[string]int)}
}

// FailOn makes any command whose line contains substr exit with status.
func (r *Recorder) FailOn(substr string, status int) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Exits[substr] = status
	return r
}

// Run records cmd and returns the scripted status.
func (r *Recorder) Run(ctx context.Context, cmd shell.Command) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Calls = append(r.Calls, cmd)
	if r.Err != nil {
		return -1, r.Err
	}
	line := cmd.String()
	for substr, status := range r.Exits {
		if strings.Contains(line, substr) {
			return status, nil
		}
	}
	return 0, nil
}

// Lines returns the serialized form of every recorded command.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		lines[i] = c.String()
	}
	return lines
}

// Count returns the number of recorded commands.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Calls)
}
