// Package plan composes the rsync, scp, ssh, zip and wp command lines for
// the sync, ship and db pull flows and runs them one target at a time.
package plan

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/wpx/internal/errors"
	"github.com/rileyhilliard/wpx/internal/logger"
	"github.com/rileyhilliard/wpx/internal/shell"
	"github.com/rileyhilliard/wpx/internal/target"
	"github.com/rileyhilliard/wpx/internal/util"
)

// Step is one external invocation: either a local process or a WP-CLI
// command. Target is the name of the target the step belongs to, empty for
// local work.
type Step struct {
	Target  string
	Command shell.Command

	// WP is a WP-CLI command line without the binary, such as
	// "@prod plugin install x.zip --force". When set, Command is ignored.
	WP string
}

// Local creates a step running cmd on this machine.
func Local(cmd shell.Command) Step {
	return Step{Command: cmd}
}

// Remote creates a step running cmd on this machine on behalf of a target,
// such as an rsync or scp to it.
func Remote(t *target.Target, cmd shell.Command) Step {
	return Step{Target: t.Name, Command: cmd}
}

// WP creates a WP-CLI step. Pass a target for remote commands, nil for the
// local install.
func WP(t *target.Target, cmd string) Step {
	if t == nil {
		return Step{WP: cmd}
	}
	return Step{Target: t.Name, WP: t.RemoteCommand(cmd)}
}

// IsWP reports whether the step runs through WP-CLI.
func (s Step) IsWP() bool {
	return s.WP != ""
}

// Line is the command as shown to the operator.
func (s Step) Line() string {
	if s.IsWP() {
		return "wp " + s.WP
	}
	line := s.Command.String()
	if s.Command.Dir != "" {
		line = "cd " + shell.QuoteArg(s.Command.Dir) + " && " + line
	}
	return line
}

// Reporter shows progress to the operator.
type Reporter interface {
	Command(line string)
	Warn(format string, args ...interface{})
}

// Executor runs steps. Every step is reported before it runs; in preview
// mode nothing is run at all.
type Executor struct {
	Shell   shell.Runner
	WP      target.Runner
	Preview bool
	Report  Reporter
	Logger  logger.Logger
}

// Run reports and runs s, returning its exit status. A non-zero status is
// not an error; errors mean the step could not be run.
func (e *Executor) Run(ctx context.Context, s Step) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, interrupted(err)
	}

	e.reporter().Command(s.Line())
	if e.Preview {
		return 0, nil
	}

	if s.IsWP() {
		if e.WP == nil {
			return -1, errors.New(errors.ErrExec, "No WP-CLI runner configured", "")
		}
		e.log().Debug("wp %s", s.WP)
		res, err := e.WP.Run(ctx, s.WP, target.RunOptions{})
		return res.ExitCode, err
	}

	if e.Shell == nil {
		return -1, errors.New(errors.ErrExec, "No shell runner configured", "")
	}
	e.log().Debug("exec %s", s.Command)
	return e.Shell.Run(ctx, s.Command)
}

// Warn reports a non-fatal problem.
func (e *Executor) Warn(format string, args ...interface{}) {
	e.reporter().Warn(format, args...)
}

func (e *Executor) reporter() Reporter {
	if e.Report != nil {
		return e.Report
	}
	return logReporter{e.log()}
}

func (e *Executor) log() logger.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return logger.Noop()
}

type logReporter struct {
	l logger.Logger
}

func (r logReporter) Command(line string) { r.l.Info("> %s", line) }

func (r logReporter) Warn(format string, args ...interface{}) { r.l.Warn(format, args...) }

func interrupted(err error) error {
	return errors.WrapWithCode(err, errors.ErrExec, "Interrupted",
		"Targets not yet started were skipped. A transfer in progress may be incomplete.")
}

// Failure is a target whose step failed.
type Failure struct {
	Target string
	Step   string
	Status int
	Err    error
}

// Report is the outcome of a multi-target run.
type Report struct {
	Succeeded []string
	Failed    []Failure
	Skipped   []string
}

func (r *Report) fail(t *target.Target, step string, status int, err error) {
	r.Failed = append(r.Failed, Failure{Target: t.Name, Step: step, Status: status, Err: err})
}

// FailedTargets returns the names of failed targets, once each, in order.
func (r *Report) FailedTargets() []string {
	var names []string
	seen := make(map[string]bool)
	for _, f := range r.Failed {
		if !seen[f.Target] {
			seen[f.Target] = true
			names = append(names, f.Target)
		}
	}
	return names
}

// Err returns an ErrPartial error when any target failed. It carries the
// first non-zero exit status seen.
func (r *Report) Err() error {
	if r == nil || len(r.Failed) == 0 {
		return nil
	}

	status := 1
	for _, f := range r.Failed {
		if f.Status > 0 {
			status = f.Status
			break
		}
	}

	failed := r.FailedTargets()
	total := len(failed) + len(r.Succeeded) + len(r.Skipped)
	return errors.New(errors.ErrPartial,
		fmt.Sprintf("%d of %d %s failed: %s", len(failed), total,
			util.Pluralize(total, "target", "targets"), util.JoinNames(failed)),
		"Fix the problems reported above and rerun for the failed targets only.").WithStatus(status)
}
