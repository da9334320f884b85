package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rileyhilliard/wpx/internal/alias"
	"github.com/rileyhilliard/wpx/internal/config"
	"github.com/rileyhilliard/wpx/internal/errors"
	"github.com/rileyhilliard/wpx/internal/target"
	"github.com/rileyhilliard/wpx/internal/ui"
)

// aliasOptions holds the connection flags of `wpx alias add`.
type aliasOptions struct {
	Host  string
	User  string
	Port  int
	Path  string
	Key   string
	Group []string
}

// aliasListCommand implements `wpx alias list`.
func aliasListCommand(a *app) error {
	store := a.resolver.Store
	if store == nil || len(store.Names()) == 0 {
		a.printer.Info("No aliases defined. Add one with: wpx alias add @prod user@host/path")
		return nil
	}

	var rows [][]string
	for _, name := range store.Names() {
		def, _ := store.Lookup(name)
		rows = append(rows, []string{name, def.Kind.String(), describeDefinition(def)})
	}

	columns := []ui.TableColumn{{Title: "ALIAS"}, {Title: "KIND"}, {Title: "DEFINITION"}}
	a.printer.Info("%s", strings.TrimRight(ui.RenderSimpleTable(columns, rows), "\n"))
	return nil
}

func describeDefinition(def alias.Definition) string {
	if def.Kind == alias.KindGroup {
		return strings.Join(def.Members, ", ")
	}

	f := def.Fields
	var parts []string
	if f.SSH != "" {
		parts = append(parts, f.SSH)
	}
	if f.User != "" {
		parts = append(parts, "user: "+f.User)
	}
	if f.Host != "" {
		parts = append(parts, "host: "+f.Host)
	}
	if f.Port > 0 {
		parts = append(parts, "port: "+strconv.Itoa(f.Port))
	}
	if f.Path != "" {
		parts = append(parts, "path: "+f.Path)
	}
	if f.Key != "" {
		parts = append(parts, "key: "+f.Key)
	}
	return strings.Join(parts, ", ")
}

// aliasAddCommand implements `wpx alias add <@name> [<ssh>]`.
func aliasAddCommand(a *app, args []string, opts aliasOptions) error {
	name := args[0]
	if !alias.IsAliasName(name) || name == alias.All {
		return errors.Usage(fmt.Sprintf("Invalid alias name %q", name),
			"Alias names start with @ and can't be "+alias.All+".")
	}

	var def alias.Definition
	if len(opts.Group) > 0 {
		if len(args) > 1 || opts.Host != "" || opts.User != "" || opts.Port > 0 || opts.Path != "" || opts.Key != "" {
			return errors.Usage("A group can't have connection settings",
				"Pass either --group or an endpoint with --host/--user/--port/--path/--key.")
		}
		for _, member := range opts.Group {
			if !alias.IsAliasName(member) {
				return errors.Usage(fmt.Sprintf("Group member %q isn't an alias", member),
					"Group members are @names defined in wp-cli.yml.")
			}
		}
		def = alias.Group(opts.Group...)
	} else {
		f := alias.Fields{Host: opts.Host, User: opts.User, Port: opts.Port, Path: opts.Path, Key: opts.Key}
		if len(args) > 1 {
			f.SSH = args[1]
		}
		// Reject definitions that could never become a target.
		check := f
		check.Name = name
		if _, err := target.New(check, nil); err != nil {
			return err
		}
		def = alias.Leaf(f)
	}

	path := a.aliasFile()
	if err := config.SetAlias(path, name, def); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't save "+name, "Check that "+path+" is writable and valid YAML.")
	}
	a.printer.Success("Saved %s in %s", name, path)
	return nil
}

// aliasRemoveCommand implements `wpx alias remove <@name>`.
func aliasRemoveCommand(a *app, name string) error {
	path := a.aliasFile()
	removed, err := config.RemoveAlias(path, name)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't update "+path, "Check that it is writable and valid YAML.")
	}
	if !removed {
		return errors.New(errors.ErrAlias,
			fmt.Sprintf("No alias %s in %s", name, path),
			"Run 'wpx alias list' to see the defined aliases.")
	}
	a.printer.Success("Removed %s from %s", name, path)
	return nil
}

// aliasFile is the config file alias edits go to: the project wp-cli.yml,
// or a new one in the working directory.
func (a *app) aliasFile() string {
	if a.cfg != nil && a.cfg.Files.Project != "" {
		return a.cfg.Files.Project
	}
	return filepath.Join(a.workDir, config.ProjectFileName)
}
