package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rileyhilliard/wpx/internal/alias"
	"github.com/rileyhilliard/wpx/internal/config"
	"github.com/rileyhilliard/wpx/internal/errors"
	"github.com/rileyhilliard/wpx/internal/logger"
	"github.com/rileyhilliard/wpx/internal/plan"
	"github.com/rileyhilliard/wpx/internal/shell"
	"github.com/rileyhilliard/wpx/internal/target"
	"github.com/rileyhilliard/wpx/internal/ui"
	"github.com/rileyhilliard/wpx/internal/util"
	"github.com/rileyhilliard/wpx/internal/wpcli"
)

// app carries everything a command needs. Commands receive it rather than
// building collaborators themselves so tests can swap in fakes.
type app struct {
	cfg      *config.Config
	resolver *alias.Resolver
	wp       target.Runner
	shell    shell.Runner
	printer  *ui.Printer
	log      logger.Logger
	workDir  string

	// self is how wpx invokes itself for chained commands.
	self string

	now func() time.Time
	ask func(title string) (bool, error)

	// progress receives spinner output. Nil means stderr.
	progress io.Writer
}

// loadApp builds the app from the global flags. Tests replace it.
var loadApp = func() (*app, error) {
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrExec,
			"Can't figure out what directory you're in",
			"This is unusual - check your directory permissions.")
	}

	store, err := cfg.Aliases()
	if err != nil {
		return nil, err
	}
	resolver := alias.NewResolver(store)
	resolver.Strict = strict || cfg.Defaults.Strict

	binary := wpBinary
	if binary == "" {
		binary = cfg.Defaults.WP
	}

	self, err := os.Executable()
	if err != nil {
		self = "wpx"
	}

	return &app{
		cfg:      cfg,
		resolver: resolver,
		wp:       wpcli.New(binary),
		shell:    shell.NewExecRunner(),
		printer:  ui.NewPrinter(),
		log:      logger.NewEnvLogger("[wpx]"),
		workDir:  workDir,
		self:     self,
		now:      time.Now,
	}, nil
}

func (a *app) executor(preview bool) *plan.Executor {
	return &plan.Executor{
		Shell:   a.shell,
		WP:      a.wp,
		Preview: preview,
		Report:  a.printer,
		Logger:  a.log,
	}
}

// resolve expands name into targets. Lenient resolution may return none.
func (a *app) resolve(name string) ([]*target.Target, error) {
	return target.Resolve(a.resolver, name, a.wp)
}

func (a *app) confirm(title string, yes bool) error {
	return ui.Confirm(title, ui.ConfirmOptions{AutoYes: yes, Ask: a.ask})
}

func (a *app) localRoot() string {
	root, ok := config.LocalRoot(a.cfg, a.workDir)
	if !ok {
		a.log.Debug("no WordPress install found at or above %s", a.workDir)
	}
	return root
}

// wpOutput runs a local WP-CLI command and returns its trimmed output.
func (a *app) wpOutput(ctx context.Context, command string) (string, error) {
	res, err := a.wp.Run(ctx, command, target.RunOptions{Return: true, ExitError: true})
	if err != nil {
		return "", err
	}
	return trimOutput(res.Stdout), nil
}

func (a *app) progressWriter() io.Writer {
	if a.progress != nil {
		return a.progress
	}
	return os.Stderr
}

// summarize prints the outcome of a multi-target run.
func (a *app) summarize(report *plan.Report) {
	if report == nil {
		return
	}
	total := len(report.Succeeded) + len(report.FailedTargets()) + len(report.Skipped)
	if total == 0 {
		return
	}
	a.printer.Heading(fmt.Sprintf("Summary (%d %s)", total, util.Pluralize(total, "target", "targets")))
	for _, name := range report.Skipped {
		a.printer.Info("%s %s skipped", ui.SymbolSkipped, name)
	}
	for _, f := range report.Failed {
		a.printer.Fail("%s: %s failed", f.Target, f.Step)
	}
	if len(report.Succeeded) > 0 {
		a.printer.Success("Done: %s", joinNames(report.Succeeded))
	}
}
