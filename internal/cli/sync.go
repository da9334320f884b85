package cli

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/wpx/internal/plan"
	"github.com/rileyhilliard/wpx/internal/target"
)

// syncOptions holds options for the sync command.
type syncOptions struct {
	Existing bool // Only transfer files that already exist on the receiver
	Preview  bool // Print commands without running them
	DryRun   bool // Run rsync with --dry-run
	Yes      bool // Skip the confirmation
}

// syncCommand implements `wpx sync`. args are source, direction, target and
// an optional target path; rsyncFlags are passed through.
func syncCommand(ctx context.Context, a *app, args, rsyncFlags []string, opts syncOptions) error {
	source := args[0]

	direction, err := plan.ParseDirection(args[1])
	if err != nil {
		return err
	}

	targets, err := a.resolve(args[2])
	if err != nil {
		return err
	}

	s := &plan.Sync{
		Source:    source,
		Direction: direction,
		Targets:   targets,
		Existing:  opts.Existing,
		DryRun:    opts.DryRun,
		Flags:     rsyncFlags,
		LocalRoot: a.localRoot(),
		WorkDir:   a.workDir,
	}
	if len(args) == 4 {
		s.TargetPath = args[3]
	}
	if err := s.Validate(); err != nil {
		return err
	}

	if !opts.DryRun && !opts.Preview {
		title := fmt.Sprintf("Are you sure you wish to sync %s %s %s?",
			source, direction, joinNames(target.Names(targets)))
		if err := a.confirm(title, opts.Yes); err != nil {
			return err
		}
	}

	report, err := s.Run(ctx, a.executor(opts.Preview))
	if !opts.Preview {
		a.summarize(report)
	}
	return err
}
