package shell

import "strings"

// Command is a composed command line: a program with an ordered argument
// list, or a raw script taken verbatim from configuration.
type Command struct {
	Program string
	Args    []string

	// Script is raw shell text. When set, Program and Args are ignored.
	Script string

	// Dir is the working directory the command runs in.
	Dir string

	// Quiet discards standard output.
	Quiet bool

	// patterns holds the indexes of Args that the shell may expand.
	patterns []int
}

// New creates a command for program with the given arguments.
func New(program string, args ...string) Command {
	return Command{Program: program, Args: append([]string(nil), args...)}
}

// Script creates a command from raw shell text.
func Script(text string) Command {
	return Command{Script: text}
}

// Arg returns a copy of c with args appended.
func (c Command) Arg(args ...string) Command {
	out := c
	out.Args = append(append([]string(nil), c.Args...), args...)
	return out
}

// Pattern returns a copy of c with a local path pattern appended. Unlike
// Arg, wildcards and a leading ~/ are left for the shell to expand.
func (c Command) Pattern(pattern string) Command {
	out := c.Arg(pattern)
	out.patterns = append(append([]int(nil), c.patterns...), len(c.Args))
	return out
}

func (c Command) isPattern(i int) bool {
	for _, p := range c.patterns {
		if p == i {
			return true
		}
	}
	return false
}

// In returns a copy of c that runs in dir.
func (c Command) In(dir string) Command {
	c.Dir = dir
	return c
}

// Silent returns a copy of c with standard output discarded.
func (c Command) Silent() Command {
	c.Quiet = true
	return c
}

// IsZero reports whether c holds no command at all.
func (c Command) IsZero() bool {
	return c.Program == "" && c.Script == ""
}

// String serializes the command to a single shell line. Dir is not part of
// the line; runners apply it when starting the process.
func (c Command) String() string {
	var line string
	if c.Script != "" {
		line = c.Script
	} else {
		parts := make([]string, 0, len(c.Args)+1)
		parts = append(parts, QuoteArg(c.Program))
		for i, a := range c.Args {
			if c.isPattern(i) {
				parts = append(parts, QuotePattern(a))
				continue
			}
			parts = append(parts, QuoteArg(a))
		}
		line = strings.Join(parts, " ")
	}
	if c.Quiet {
		line += " > /dev/null"
	}
	return line
}
