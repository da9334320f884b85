package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/wpx/internal/errors"
	"github.com/rileyhilliard/wpx/internal/shell"
	"github.com/rileyhilliard/wpx/internal/target"
)

// Pull exports a target's database, downloads it and imports it into the
// local install.
type Pull struct {
	Target *target.Target

	// Migrate runs after the import to rewrite the imported URLs, usually
	// `wpx db migrate`. A zero command skips it.
	Migrate shell.Command

	Timestamp time.Time
}

// File is the dump file name, e.g. db-1704207600.sql.
func (p *Pull) File() string {
	return fmt.Sprintf("db-%d.sql", p.Timestamp.Unix())
}

// remoteFile is where the export lands on the target. WP-CLI runs in the
// install path when one is configured, so the download must look there.
func (p *Pull) remoteFile() string {
	if path, ok := p.Target.KnownPath(); ok && path != "" {
		return trailingSlash(path) + p.File()
	}
	return p.File()
}

// Steps returns every step of the pull in order.
func (p *Pull) Steps() []Step {
	t := p.Target
	file := p.File()

	rsync := shell.New("rsync", "--archive", "--compress", "--progress")
	if ssh, ok := t.SSHCommand(); ok {
		rsync = rsync.Arg("-e", ssh)
	}
	rsync = rsync.Arg(t.SSH(target.SSHOptions{})+":"+p.remoteFile(), ".")

	steps := []Step{
		WP(t, "db export "+file),
		Remote(t, rsync),
		WP(t, fmt.Sprintf(`eval "unlink( '%s' );"`, file)),
		WP(nil, "db import "+file),
		Local(shell.New("rm", "-f", file)),
	}
	if !p.Migrate.IsZero() {
		steps = append(steps, Local(p.Migrate))
	}
	return steps
}

// Run executes the steps in order and stops at the first failure.
func (p *Pull) Run(ctx context.Context, exec *Executor) error {
	if p.Target == nil {
		return errors.Usage("Valid target required",
			"Pass user@host[:port][/path] or an @alias from wp-cli.yml.")
	}

	for _, step := range p.Steps() {
		status, err := exec.Run(ctx, step)
		if err != nil {
			if ctx.Err() != nil {
				return interrupted(ctx.Err())
			}
			return errors.WrapWithCode(err, errors.ErrSync,
				"Database pull from "+p.Target.Name+" failed", "Failed command: "+step.Line())
		}
		if status != 0 {
			suggestion := "Failed command: " + step.Line()
			if step.Command.Program == "rsync" {
				msg, fix := RsyncExit(status, p.Target.SSH(target.SSHOptions{}))
				suggestion = msg + ". " + fix + ".\n  " + suggestion
			}
			return errors.New(errors.ErrSync,
				fmt.Sprintf("Database pull from %s failed with exit status %d", p.Target.Name, status),
				suggestion).WithStatus(status)
		}
	}
	return nil
}
