package plan

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rileyhilliard/wpx/internal/errors"
	"github.com/rileyhilliard/wpx/internal/shell"
)

// Migrate rewrites the site URL in the local database after a pull, so an
// imported copy of example.com serves from example.local.
type Migrate struct {
	// OldHome is the imported home URL, as `wp option get home` prints it.
	OldHome string
	NewHost string
}

// OldHost is the host part of OldHome.
func (m *Migrate) OldHost() string {
	u, err := url.Parse(strings.TrimSpace(m.OldHome))
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// Replacements returns the search-replace pairs in the order they run.
// Pairs that would replace a string with itself are dropped.
func (m *Migrate) Replacements() [][2]string {
	old := strings.TrimPrefix(m.OldHost(), "www.")
	pairs := [][2]string{
		{"http://www." + old, "https://" + m.NewHost},
		{"http://" + old, "https://" + m.NewHost},
		{"//www." + old, "//" + m.NewHost},
		{"//" + old, "//" + m.NewHost},
	}

	out := pairs[:0]
	for _, p := range pairs {
		if p[0] != p[1] {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports an error when there is nothing to rewrite.
func (m *Migrate) Validate() error {
	if m.NewHost == "" {
		return errors.Usage("New host required", "Usage: wpx db migrate [<new_host>]")
	}
	old := m.OldHost()
	if old == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Could not read a host from the home URL %q", m.OldHome),
			"Check `wp option get home` in the local install.")
	}
	if old == m.NewHost {
		return errors.Usage("Nothing to migrate", "The local home URL already uses "+m.NewHost+".")
	}
	return nil
}

// Steps returns one local search-replace per replacement pair.
func (m *Migrate) Steps() []Step {
	pairs := m.Replacements()
	steps := make([]Step, 0, len(pairs))
	for _, p := range pairs {
		steps = append(steps, WP(nil, "search-replace "+shell.QuoteArg(p[0])+" "+shell.QuoteArg(p[1])))
	}
	return steps
}

// Run validates and executes the replacements, stopping at the first
// failure.
func (m *Migrate) Run(ctx context.Context, exec *Executor) error {
	if err := m.Validate(); err != nil {
		return err
	}

	for _, step := range m.Steps() {
		status, err := exec.Run(ctx, step)
		if err != nil {
			if ctx.Err() != nil {
				return interrupted(ctx.Err())
			}
			return errors.WrapWithCode(err, errors.ErrSync,
				"Database migration to "+m.NewHost+" failed", "Failed command: "+step.Line())
		}
		if status != 0 {
			return errors.New(errors.ErrSync,
				fmt.Sprintf("Database migration to %s failed with exit status %d", m.NewHost, status),
				"Failed command: "+step.Line()).WithStatus(status)
		}
	}
	return nil
}
