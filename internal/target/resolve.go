package target

import (
	"github.com/rileyhilliard/wpx/internal/alias"
	"github.com/rileyhilliard/wpx/internal/logger"
)

// FromSet builds one Target per resolved entry, in resolution order. The
// first entry that can't become a target is an error.
func FromSet(set *alias.Set, runner Runner) ([]*Target, error) {
	if set == nil {
		return nil, nil
	}
	targets := make([]*Target, 0, set.Len())
	for _, f := range set.Entries() {
		t, err := New(f, runner)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// usableFromSet is FromSet that skips entries without a host, such as a
// local-only alias swept in by @all. It still fails when nothing usable is
// left, reporting the first rejected entry.
func usableFromSet(set *alias.Set, runner Runner, log logger.Logger) ([]*Target, error) {
	if set == nil {
		return nil, nil
	}
	targets := make([]*Target, 0, set.Len())
	var firstErr error
	for _, f := range set.Entries() {
		t, err := New(f, runner)
		if err != nil {
			log.Warn("Skipping %s: it has no host to connect to", f.Name)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		targets = append(targets, t)
	}
	if len(targets) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return targets, nil
}

// Resolve expands name and builds its targets. In strict mode resolution
// mistakes, host-less entries and empty results are errors. Otherwise
// host-less entries are skipped and an empty slice is returned for the
// caller to decide.
func Resolve(r *alias.Resolver, name string, runner Runner) ([]*Target, error) {
	if r.Strict {
		set, err := r.ResolveChecked(name)
		if err != nil {
			return nil, err
		}
		return FromSet(set, runner)
	}

	log := r.Logger
	if log == nil {
		log = logger.Noop()
	}
	return usableFromSet(r.Resolve(name), runner, log)
}

// First returns the first target name resolves to, or nil when none.
func First(r *alias.Resolver, name string, runner Runner) (*Target, error) {
	targets, err := Resolve(r, name, runner)
	if err != nil || len(targets) == 0 {
		return nil, err
	}
	return targets[0], nil
}

// Names returns the names of targets in order.
func Names(targets []*Target) []string {
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.Name
	}
	return names
}
