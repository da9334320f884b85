package plan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rileyhilliard/wpx/internal/config"
	"github.com/rileyhilliard/wpx/internal/errors"
	"github.com/rileyhilliard/wpx/internal/shell"
	"github.com/rileyhilliard/wpx/internal/target"
)

// TimestampLayout formats package timestamps as YmdHis.
const TimestampLayout = "20060102150405"

// Ship builds a theme or plugin, zips it and installs the zip on every
// target.
type Ship struct {
	// Type is "theme" or "plugin".
	Type string

	// Path is the package directory, such as wp-content/themes/acme.
	Path    string
	Targets []*target.Target

	// Build commands run in Path before packaging.
	Build []string

	// Ignore patterns are relative to Path. Nil means the default set.
	Ignore []string

	Timestamp time.Time
}

// Name is the package directory name.
func (s *Ship) Name() string {
	return filepath.Base(s.Path)
}

// File is the zip file name, e.g. acme-20240102150405.zip.
func (s *Ship) File() string {
	return fmt.Sprintf("%s-%s.zip", s.Name(), s.Timestamp.Format(TimestampLayout))
}

func (s *Ship) parentDir() string {
	return filepath.Dir(s.Path)
}

// Validate checks the plan before anything runs.
func (s *Ship) Validate() error {
	if s.Type != "theme" && s.Type != "plugin" {
		return errors.Usage(fmt.Sprintf("Can't ship a %q", s.Type), "Ship a theme or a plugin.")
	}
	if s.Path == "" {
		return errors.Usage("Package directory required", "")
	}
	if len(s.Targets) == 0 {
		return errors.Usage("Invalid destination", "Pass --to with an @alias or user@host, or set wpx.ship_to in wp-cli.yml.")
	}
	return nil
}

// LocalSteps are the build commands followed by the zip command.
func (s *Ship) LocalSteps() []Step {
	steps := make([]Step, 0, len(s.Build)+1)
	for _, cmd := range s.Build {
		steps = append(steps, Local(shell.Script(cmd).In(s.Path)))
	}

	ignore := s.Ignore
	if ignore == nil {
		ignore = config.DefaultPackageIgnore
	}

	name := s.Name()
	zip := shell.New("zip", s.File(), name+"/", "-r", "-x")
	for _, pattern := range ignore {
		zip = zip.Arg(name + "/" + pattern)
	}
	return append(steps, Local(zip.In(s.parentDir()).Silent()))
}

// RemoteFile is where the zip is copied on t: the target's configured path
// or its login directory.
func (s *Ship) RemoteFile(t *target.Target) string {
	dir := "./"
	if path, ok := t.KnownPath(); ok && path != "" {
		dir = trailingSlash(path)
	}
	return dir + s.File()
}

// TargetSteps are the transfer, install and cleanup steps for t, in order.
func (s *Ship) TargetSteps(t *target.Target) (transfer, install, cleanup Step) {
	remoteFile := s.RemoteFile(t)
	host := t.SSH(target.SSHOptions{})

	scp := shell.New("scp")
	if args, ok := t.SCPArgs(); ok {
		scp = scp.Arg(args...)
	}
	transfer = Remote(t, scp.Arg(s.File(), host+":"+remoteFile).In(s.parentDir()))

	install = WP(t, fmt.Sprintf("%s install %s --force", s.Type, shell.QuoteArg(homeRelative(remoteFile))))

	ssh := shell.New("ssh")
	if args, ok := t.SSHArgs(); ok {
		ssh = ssh.Arg(args...)
	}
	cleanup = Remote(t, ssh.Arg(host, "rm "+shell.QuotePreserveTilde(remoteFile)))
	return transfer, install, cleanup
}

// homeRelative rewrites ~/path as path. WP-CLI quotes the arguments it
// forwards over SSH, so ~ never expands there, but the remote command starts
// in the login directory.
func homeRelative(path string) string {
	if strings.HasPrefix(path, "~/") {
		return path[2:]
	}
	return path
}

// Run builds and packages locally, then ships to each target in order. A
// failing local step stops everything. A failing copy skips the target; a
// failing install or cleanup is reported and the next target is attempted.
func (s *Ship) Run(ctx context.Context, exec *Executor) (*Report, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	for _, step := range s.LocalSteps() {
		status, err := exec.Run(ctx, step)
		if err != nil {
			if ctx.Err() != nil {
				return nil, interrupted(ctx.Err())
			}
			return nil, errors.WrapWithCode(err, errors.ErrShip,
				"Couldn't run: "+step.Line(), "")
		}
		if status != 0 {
			return nil, errors.New(errors.ErrShip,
				fmt.Sprintf("Packaging %s failed with exit status %d", s.Name(), status),
				"Failed command: "+step.Line()).WithStatus(status)
		}
	}

	report := &Report{}
	for _, t := range s.Targets {
		if err := ctx.Err(); err != nil {
			return report, interrupted(err)
		}
		if !s.toTarget(ctx, exec, t, report) && ctx.Err() != nil {
			return report, interrupted(ctx.Err())
		}
	}

	if !exec.Preview {
		zip := filepath.Join(s.parentDir(), s.File())
		if err := os.Remove(zip); err != nil && !os.IsNotExist(err) {
			exec.Warn("Failed to remove local package %s: %v", zip, err)
		}
	}

	return report, report.Err()
}

func (s *Ship) toTarget(ctx context.Context, exec *Executor, t *target.Target, report *Report) bool {
	copyStep, installStep, cleanupStep := s.TargetSteps(t)

	if status, err := exec.Run(ctx, copyStep); err != nil || status != 0 {
		exec.Warn("Failed to copy package to '%s'", t.Name)
		report.fail(t, "copy", status, err)
		return false
	}

	ok := true
	if status, err := exec.Run(ctx, installStep); err != nil || status != 0 {
		exec.Warn("Failed to install %s %s on '%s'", s.Type, s.Name(), t.Name)
		report.fail(t, "install", status, err)
		ok = false
	}

	if status, err := exec.Run(ctx, cleanupStep); err != nil || status != 0 {
		exec.Warn("Failed to remove package from '%s'", t.Name)
		report.fail(t, "cleanup", status, err)
		ok = false
	}

	if ok {
		report.Succeeded = append(report.Succeeded, t.Name)
	}
	return ok
}

// Describe is the confirmation summary, e.g. "theme acme to @prod, @staging".
func (s *Ship) Describe() string {
	return fmt.Sprintf("%s %s to %s", s.Type, s.Name(), strings.Join(target.Names(s.Targets), ", "))
}
