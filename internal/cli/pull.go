package cli

import (
	"context"
	"path/filepath"

	"github.com/rileyhilliard/wpx/internal/errors"
	"github.com/rileyhilliard/wpx/internal/plan"
	"github.com/rileyhilliard/wpx/internal/shell"
	"github.com/rileyhilliard/wpx/internal/target"
)

// pullOptions holds options for `wpx db pull`.
type pullOptions struct {
	Preview   bool
	NoMigrate bool
	Yes       bool
}

// migrateOptions holds options for `wpx db migrate`.
type migrateOptions struct {
	Preview bool
}

// pullCommand implements `wpx db pull <target>`.
func pullCommand(ctx context.Context, a *app, name string, opts pullOptions) error {
	t, err := target.First(a.resolver, name, a.wp)
	if err != nil {
		return err
	}
	if t == nil {
		return errors.Usage("Valid target required",
			"Pass user@host[:port][/path] or an @alias from wp-cli.yml.")
	}

	p := &plan.Pull{Target: t, Timestamp: a.now()}
	if !opts.NoMigrate {
		p.Migrate = a.selfCommand("db", "migrate")
	}

	if !opts.Preview {
		if err := a.confirm("Are you sure you wish to replace the local database with "+t.Name+"'s?", opts.Yes); err != nil {
			return err
		}
	}

	if err := p.Run(ctx, a.executor(opts.Preview)); err != nil {
		return err
	}
	if !opts.Preview {
		a.printer.Success("Pulled the database from %s", t.Name)
	}
	return nil
}

// migrateCommand implements `wpx db migrate [<new_host>]`.
func migrateCommand(ctx context.Context, a *app, args []string, opts migrateOptions) error {
	m := &plan.Migrate{}
	if len(args) == 1 {
		m.NewHost = args[0]
	} else {
		root := a.localRoot()
		if root == "" {
			return errors.Usage("Couldn't work out the local host name",
				"Run from inside a WordPress install or pass the new host: wpx db migrate <new_host>")
		}
		m.NewHost = filepath.Base(root) + ".local"
	}

	home, err := a.wpOutput(ctx, "option get home")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't read the home URL from the local database", "")
	}
	m.OldHome = home

	if err := m.Run(ctx, a.executor(opts.Preview)); err != nil {
		return err
	}
	if !opts.Preview {
		a.printer.Success("Migrated %s to %s", m.OldHost(), m.NewHost)
	}
	return nil
}

// selfCommand is a wpx command line carrying the global flags that affect
// how the chained command loads its config.
func (a *app) selfCommand(args ...string) shell.Command {
	cmd := shell.New(firstNonEmpty(a.self, "wpx"), args...)
	if Config() != "" {
		cmd = cmd.Arg("--config", Config())
	}
	if wpBinary != "" {
		cmd = cmd.Arg("--wp", wpBinary)
	}
	return cmd
}
