package shell

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"

	"github.com/rileyhilliard/wpx/internal/errors"
)

// Runner executes composed command lines and reports their exit status.
// A command that starts and exits non-zero is reported through the status,
// not the error. The error is reserved for commands that could not run.
type Runner interface {
	Run(ctx context.Context, cmd Command) (int, error)
}

// ExecRunner runs commands through the local shell with the operator's
// terminal attached, so transfer progress streams in real time.
type ExecRunner struct {
	// Shell is the interpreter used for the serialized line. Defaults to /bin/sh.
	Shell  string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates a runner wired to the process's standard streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Shell:  "/bin/sh",
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes cmd and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (int, error) {
	if cmd.IsZero() {
		return -1, errors.New(errors.ErrExec,
			"Nothing to run",
			"This is a bug: an empty command was handed to the runner.")
	}

	sh := r.Shell
	if sh == "" {
		sh = "/bin/sh"
	}

	c := exec.CommandContext(ctx, sh, "-c", cmd.String())
	c.Dir = cmd.Dir
	c.Stdin = r.Stdin
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr

	err := c.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) && ctx.Err() == nil {
		return exitErr.ExitCode(), nil
	}
	if ctx.Err() != nil {
		return -1, errors.WrapWithCode(ctx.Err(), errors.ErrExec,
			"Interrupted",
			"Targets not yet started were not attempted.")
	}
	return -1, errors.WrapWithCode(err, errors.ErrExec,
		"Couldn't start "+cmd.String(),
		"Make sure the program is installed and on your PATH.")
}
