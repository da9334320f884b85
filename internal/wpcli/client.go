// Package wpcli runs WP-CLI commands on behalf of targets.
package wpcli

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rileyhilliard/wpx/internal/errors"
	"github.com/rileyhilliard/wpx/internal/logger"
	"github.com/rileyhilliard/wpx/internal/shell"
	"github.com/rileyhilliard/wpx/internal/target"
)

// DefaultBinary is the WP-CLI executable looked up on PATH.
const DefaultBinary = "wp"

// Client runs "wp <command>" through the local shell. Commands are WP-CLI
// shaped strings, so alias prefixes and --ssh options reach WP-CLI intact.
type Client struct {
	Binary string
	Dir    string
	Shell  string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Logger logger.Logger
}

// New creates a client for binary wired to the process's standard streams.
func New(binary string) *Client {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Client{
		Binary: binary,
		Shell:  "/bin/sh",
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger.NewEnvLogger("[wp]"),
	}
}

// Line returns the shell line that Run executes for command.
func (c *Client) Line(command string) string {
	return shell.QuoteArg(c.Binary) + " " + command
}

// Run implements target.Runner.
func (c *Client) Run(ctx context.Context, command string, opts target.RunOptions) (target.Result, error) {
	sh := c.Shell
	if sh == "" {
		sh = "/bin/sh"
	}
	line := c.Line(command)
	if c.Logger != nil {
		c.Logger.Debug("running %s", line)
	}

	cmd := exec.CommandContext(ctx, sh, "-c", line)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin
	cmd.Stderr = c.Stderr

	var stdout bytes.Buffer
	if opts.Return {
		cmd.Stdout = &stdout
	} else {
		cmd.Stdout = c.Stdout
	}

	err := cmd.Run()
	res := target.Result{Stdout: stdout.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) && ctx.Err() == nil {
		res.ExitCode = exitErr.ExitCode()
		if opts.ExitError {
			return res, errors.WrapWithCode(err, errors.ErrExec,
				fmt.Sprintf("wp %s failed", firstWords(command, 3)),
				"Check the WP-CLI output above.").WithStatus(res.ExitCode)
		}
		return res, nil
	}

	res.ExitCode = -1
	return res, errors.WrapWithCode(err, errors.ErrExec,
		"Couldn't run "+c.Binary,
		"Install WP-CLI (https://wp-cli.org) or point --wp at it.")
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
