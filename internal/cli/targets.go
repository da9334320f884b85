package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rileyhilliard/wpx/internal/errors"
	"github.com/rileyhilliard/wpx/internal/sshconfig"
	"github.com/rileyhilliard/wpx/internal/target"
	"github.com/rileyhilliard/wpx/internal/ui"
)

// targetsOptions holds options for `wpx targets`.
type targetsOptions struct {
	SSHConfig bool // Show matching ~/.ssh/config settings
	AbsPath   bool // Ask each target for its install path
}

// sshLookup is replaced in tests.
var sshLookup = sshconfig.Lookup

// targetsCommand implements `wpx targets [<name>]`.
func targetsCommand(ctx context.Context, a *app, name string, opts targetsOptions) error {
	targets, err := a.resolve(name)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return errors.New(errors.ErrAlias,
			fmt.Sprintf("No targets resolved for %q", name),
			"Run with --strict to see why, or check the aliases in wp-cli.yml.")
	}

	rows := make([]ui.TargetRow, 0, len(targets))
	for _, t := range targets {
		row := ui.TargetRow{
			Name: t.Name,
			SSH:  t.SSH(target.SSHOptions{}),
			Key:  t.Key,
		}
		if t.Port > 0 {
			row.Port = strconv.Itoa(t.Port)
		}
		if path, ok := t.KnownPath(); ok {
			row.Path = path
		} else if opts.AbsPath {
			row.Path = lookupAbsPath(ctx, a, t)
		}
		if opts.SSHConfig {
			row.SSHConfig = sshLookup(t.Host).Description()
		}
		rows = append(rows, row)
	}

	a.printer.Info("%s", strings.TrimRight(ui.RenderTargetTable(rows, opts.SSHConfig), "\n"))
	return nil
}

func lookupAbsPath(ctx context.Context, a *app, t *target.Target) string {
	spinner := ui.NewSpinner(a.progressWriter(), "ABSPATH for "+t.Name)
	spinner.Start()

	path, ok := t.AbsPath(ctx)
	if !ok {
		spinner.Fail("not found")
		return ""
	}
	spinner.Success(path)
	return path
}
