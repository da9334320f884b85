package plan

import (
	"context"
	"fmt"
	"strings"

	"github.com/rileyhilliard/wpx/internal/config"
	"github.com/rileyhilliard/wpx/internal/errors"
	"github.com/rileyhilliard/wpx/internal/shell"
	"github.com/rileyhilliard/wpx/internal/target"
)

// Direction says which way a sync copies files.
type Direction string

const (
	// To copies local files to every target.
	To Direction = "to"
	// From copies files from a single target to the working directory.
	From Direction = "from"
)

// ParseDirection accepts "to" or "from".
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case To, From:
		return Direction(s), nil
	}
	return "", errors.Usage(
		fmt.Sprintf(`Direction must be either "to" or "from", got %q`, s),
		"Usage: wpx sync <source> <to|from> <target> [<target_path>]")
}

// Sync copies files between the local install and one or more targets
// with rsync.
type Sync struct {
	// Source is the local path or glob for "to", or the path relative to
	// the remote install for "from".
	Source    string
	Direction Direction
	Targets   []*target.Target

	// TargetPath overrides the remote path derived from the target's
	// install root.
	TargetPath string

	Existing bool
	DryRun   bool

	// Flags are passed to rsync verbatim.
	Flags []string

	// LocalRoot and WorkDir place the source within the local install so
	// the same relative path is used on the target.
	LocalRoot string
	WorkDir   string
}

// Validate checks the plan before anything is run or resolved.
func (s *Sync) Validate() error {
	if s.Source == "" {
		return errors.Usage("Nothing to sync",
			"Usage: wpx sync <source> <to|from> <target> [<target_path>]")
	}
	if _, err := ParseDirection(string(s.Direction)); err != nil {
		return err
	}
	if len(s.Targets) == 0 {
		return errors.Usage("Valid target required",
			"Pass user@host[:port][/path] or an @alias from wp-cli.yml.")
	}
	if s.Direction == From && len(s.Targets) > 1 {
		return errors.Usage(
			fmt.Sprintf("Can only sync from one target, %d resolved: %s",
				len(s.Targets), strings.Join(target.Names(s.Targets), ", ")),
			"Name a single alias or endpoint when syncing from a target.")
	}
	return nil
}

// Command composes the rsync invocation for t. The boolean is false when
// no remote path could be determined, in which case t should be skipped.
func (s *Sync) Command(ctx context.Context, t *target.Target) (shell.Command, bool) {
	path, ok := s.remotePath(ctx, t)
	if !ok {
		return shell.Command{}, false
	}

	cmd := shell.New("rsync", "--archive", "--compress", "--progress")
	if s.Existing {
		cmd = cmd.Arg("--existing")
	}
	if s.DryRun {
		cmd = cmd.Arg("--dry-run")
	}
	cmd = cmd.Arg(s.Flags...)
	if ssh, ok := t.SSHCommand(); ok {
		cmd = cmd.Arg("-e", ssh)
	}

	remote := t.SSH(target.SSHOptions{}) + ":" + path
	if s.Direction == From {
		return cmd.Arg(remote, "."), true
	}
	return cmd.Pattern(s.Source).Arg(remote), true
}

func (s *Sync) remotePath(ctx context.Context, t *target.Target) (string, bool) {
	if s.TargetPath != "" {
		return trailingSlash(s.TargetPath), true
	}

	path, ok := t.AbsPath(ctx)
	if !ok {
		return "", false
	}

	relative := !strings.HasPrefix(s.Source, "~") && !strings.HasPrefix(s.Source, "/")
	if rel := config.RelativeToRoot(s.LocalRoot, s.WorkDir); relative && rel != "" {
		path = trailingSlash(path) + rel
	}
	if s.Direction == From && relative {
		path = trailingSlash(path) + s.Source
	}
	return path, true
}

// Run syncs every target in order. A target whose install root can't be
// found is skipped with a warning; a failed transfer is reported and the
// remaining targets are still attempted.
func (s *Sync) Run(ctx context.Context, exec *Executor) (*Report, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	report := &Report{}
	for _, t := range s.Targets {
		if err := ctx.Err(); err != nil {
			return report, interrupted(err)
		}

		cmd, ok := s.Command(ctx, t)
		if !ok {
			exec.Warn("Could not resolve ABSPATH for '%s', skipping...", t.Name)
			report.Skipped = append(report.Skipped, t.Name)
			continue
		}

		status, err := exec.Run(ctx, Remote(t, cmd))
		switch {
		case err != nil && ctx.Err() != nil:
			return report, interrupted(ctx.Err())
		case err != nil:
			exec.Warn("Sync with '%s' could not run: %v", t.Name, err)
			report.fail(t, "rsync", status, err)
		case status != 0:
			msg, _ := RsyncExit(status, t.SSH(target.SSHOptions{}))
			exec.Warn("Sync with '%s' failed: %s (exit status %d)", t.Name, msg, status)
			report.fail(t, "rsync", status, nil)
		default:
			report.Succeeded = append(report.Succeeded, t.Name)
		}
	}

	return report, report.Err()
}

func trailingSlash(path string) string {
	return strings.TrimRight(path, "/\\") + "/"
}
