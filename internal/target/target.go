// Package target models one concrete remote WordPress install and derives
// the connection strings and command lines used to reach it.
package target

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rileyhilliard/wpx/internal/alias"
	"github.com/rileyhilliard/wpx/internal/config"
	"github.com/rileyhilliard/wpx/internal/errors"
	"github.com/rileyhilliard/wpx/internal/shell"
)

// AbsPathCommand asks a WordPress install for its resolved ABSPATH.
const AbsPathCommand = `eval "echo realpath( ABSPATH );"`

// RunOptions controls how a WP-CLI command is executed.
type RunOptions struct {
	// Return captures standard output instead of streaming it.
	Return bool

	// ExitError turns a non-zero exit status into an error.
	ExitError bool
}

// Result is the outcome of a WP-CLI command.
type Result struct {
	Stdout   string
	ExitCode int
}

// Runner executes WP-CLI shaped commands such as
// "@prod db export x.sql" or "db export x.sql --ssh=host".
type Runner interface {
	Run(ctx context.Context, command string, opts RunOptions) (Result, error)
}

type pathState int

const (
	pathUnresolved pathState = iota
	pathResolved
	pathMissing
)

// Target is one resolved remote endpoint. Apart from the lazily resolved
// install path it is immutable once built.
//
// A Target is not safe for concurrent use.
type Target struct {
	Name   string
	Scheme string
	Host   string
	User   string
	Port   int
	Key    string

	path      string
	pathState pathState
	runner    Runner
}

// New builds a Target from resolved alias fields. An SSH endpoint string is
// parsed first; explicit fields override the parsed values. The key path is
// local, so ~ is expanded here. A target without a host is rejected.
func New(f alias.Fields, runner Runner) (*Target, error) {
	var ep Endpoint
	if f.SSH != "" {
		ep = ParseSSH(f.SSH)
	}

	t := &Target{
		Name:   f.Name,
		Scheme: ep.Scheme,
		Host:   firstNonEmpty(f.Host, ep.Host),
		User:   firstNonEmpty(f.User, ep.User),
		Port:   ep.Port,
		Key:    config.ExpandTilde(f.Key),
		runner: runner,
	}
	if f.Port > 0 {
		t.Port = f.Port
	}
	if p := firstNonEmpty(f.Path, ep.Path); p != "" {
		t.path = p
		t.pathState = pathResolved
	}

	if t.Host == "" {
		name := f.Name
		if name == "" {
			name = f.SSH
		}
		return nil, errors.New(errors.ErrAlias,
			fmt.Sprintf("Target %q has no host", name),
			"Set ssh: user@host or host: in the alias definition.")
	}
	return t, nil
}

// IsAlias reports whether the target came from a named alias. Aliased
// targets are reached through WP-CLI's own alias handling.
func (t *Target) IsAlias() bool {
	return alias.IsAliasName(t.Name)
}

// SSHOptions selects the optional parts of a connection string.
type SSHOptions struct {
	Port bool
	Path bool
}

// SSH returns the connection string user@host, optionally followed by
// :port and the install path.
func (t *Target) SSH(opts SSHOptions) string {
	s := t.Host
	if t.User != "" {
		s = t.User + "@" + t.Host
	}
	if opts.Port && t.Port > 0 {
		s += ":" + strconv.Itoa(t.Port)
	}
	if opts.Path && t.pathState == pathResolved && t.path != "" {
		s += t.path
	}
	return s
}

// SSHArgs returns ssh(1) flags for the key and port. The boolean is false
// when neither is set, which is distinct from an empty flag list.
func (t *Target) SSHArgs() ([]string, bool) {
	var args []string
	if t.Key != "" {
		args = append(args, "-i", t.Key)
	}
	if t.Port > 0 {
		args = append(args, "-p", strconv.Itoa(t.Port))
	}
	return args, len(args) > 0
}

// SCPArgs is SSHArgs with scp's -P port flag.
func (t *Target) SCPArgs() ([]string, bool) {
	args, ok := t.SSHArgs()
	for i, a := range args {
		if a == "-p" {
			args[i] = "-P"
		}
	}
	return args, ok
}

// SSHArgsString is SSHArgs serialized for a shell line, e.g. "-i /k -p 2222".
func (t *Target) SSHArgsString() (string, bool) {
	args, ok := t.SSHArgs()
	if !ok {
		return "", false
	}
	return shell.Join(args...), true
}

// SSHCommand returns the ssh invocation suitable for rsync -e, e.g.
// "ssh -i /k -p 2222". The boolean is false when plain ssh would do.
func (t *Target) SSHCommand() (string, bool) {
	args, ok := t.SSHArgsString()
	if !ok {
		return "", false
	}
	return "ssh " + args, true
}

// RemoteCommand expresses cmd as a WP-CLI invocation against this target.
// Aliases use "@name cmd"; bare endpoints append --ssh with port and path.
func (t *Target) RemoteCommand(cmd string) string {
	if t.IsAlias() {
		return t.Name + " " + cmd
	}
	return cmd + " --ssh=" + shell.QuoteArg(t.SSH(SSHOptions{Port: true, Path: true}))
}

// RunRemote executes cmd against the target through the WP-CLI runner.
func (t *Target) RunRemote(ctx context.Context, cmd string, opts RunOptions) (Result, error) {
	if t.runner == nil {
		return Result{ExitCode: -1}, errors.New(errors.ErrExec,
			fmt.Sprintf("No WP-CLI runner for %s", t.Name),
			"This is a bug: targets must be built with a runner to run remote commands.")
	}
	return t.runner.Run(ctx, t.RemoteCommand(cmd), opts)
}

// KnownPath returns the install path if it is already known, without
// asking the remote host.
func (t *Target) KnownPath() (string, bool) {
	if t.pathState == pathResolved {
		return t.path, true
	}
	return "", false
}

// AbsPath returns the remote install root. The first call asks the remote
// WordPress install; the answer, including a failure, is cached for the
// lifetime of the target.
func (t *Target) AbsPath(ctx context.Context) (string, bool) {
	switch t.pathState {
	case pathResolved:
		return t.path, true
	case pathMissing:
		return "", false
	}

	res, err := t.RunRemote(ctx, AbsPathCommand, RunOptions{Return: true})
	p := strings.TrimSpace(res.Stdout)
	if err != nil || res.ExitCode != 0 || p == "" {
		t.pathState = pathMissing
		return "", false
	}

	t.path = p
	t.pathState = pathResolved
	return p, true
}

// String returns the target name.
func (t *Target) String() string {
	return t.Name
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
