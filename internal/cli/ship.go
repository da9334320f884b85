package cli

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/wpx/internal/errors"
	"github.com/rileyhilliard/wpx/internal/plan"
	"github.com/rileyhilliard/wpx/internal/shell"
)

// shipOptions holds options for the ship commands.
type shipOptions struct {
	To      string // Destination alias or endpoint, overrides the positional one
	Preview bool   // Print commands without running them
	Yes     bool   // Skip the confirmation
}

// shipThemeCommand implements `wpx ship theme [<theme>] [<to>]`.
func shipThemeCommand(ctx context.Context, a *app, args []string, opts shipOptions) error {
	var theme, to string
	if len(args) > 0 {
		theme = args[0]
	}
	if len(args) > 1 {
		to = args[1]
	}

	if theme == "" {
		active, err := a.wpOutput(ctx, "option get stylesheet")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrShip,
				"Couldn't find the active theme",
				"Run wpx from inside a WordPress install, or name the theme.")
		}
		theme = active
	}

	path, err := a.wpOutput(ctx, "theme path "+shell.QuoteArg(theme)+" --dir")
	if err != nil || path == "" {
		return errors.WrapWithCode(err, errors.ErrShip,
			fmt.Sprintf("Theme '%s' does not exist", theme),
			"Check `wp theme list` for installed themes.")
	}

	return ship(ctx, a, "theme", path, to, opts)
}

// shipPluginCommand implements `wpx ship plugin <plugin> [<to>]`.
func shipPluginCommand(ctx context.Context, a *app, args []string, opts shipOptions) error {
	plugin := args[0]
	var to string
	if len(args) > 1 {
		to = args[1]
	}

	path, err := a.wpOutput(ctx, "plugin path "+shell.QuoteArg(plugin)+" --dir")
	if err != nil || path == "" {
		return errors.WrapWithCode(err, errors.ErrShip,
			fmt.Sprintf("Plugin '%s' does not exist", plugin),
			"Check `wp plugin list` for installed plugins.")
	}

	return ship(ctx, a, "plugin", path, to, opts)
}

func ship(ctx context.Context, a *app, kind, path, to string, opts shipOptions) error {
	dest := firstNonEmpty(opts.To, to, a.cfg.Defaults.ShipTo)

	targets, err := a.resolve(dest)
	if err != nil {
		return err
	}

	s := &plan.Ship{
		Type:      kind,
		Path:      path,
		Targets:   targets,
		Timestamp: a.now(),
	}
	sc := a.cfg.ShipFor(kind, s.Name())
	s.Build = sc.Build
	s.Ignore = sc.Ignore()

	if err := s.Validate(); err != nil {
		return err
	}

	if !opts.Preview {
		if err := a.confirm("Are you sure you wish to ship "+s.Describe()+"?", opts.Yes); err != nil {
			return err
		}
	}

	report, err := s.Run(ctx, a.executor(opts.Preview))
	if !opts.Preview {
		a.summarize(report)
	}
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
