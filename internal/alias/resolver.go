package alias

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/wpx/internal/errors"
	"github.com/rileyhilliard/wpx/internal/logger"
)

// Resolver expands names against a Store.
type Resolver struct {
	Store  Store
	Logger logger.Logger

	// Strict turns configuration mistakes that are normally skipped
	// (unknown aliases, empty groups, cycles) into errors.
	Strict bool
}

// NewResolver creates a lenient resolver over store.
func NewResolver(store Store) *Resolver {
	return &Resolver{Store: store, Logger: logger.NewEnvLogger("[alias]")}
}

// Resolve expands name into an ordered set of endpoints.
//
// An empty name yields an empty set. A name without a leading @ is an
// endpoint string and yields a single entry with SSH set to the name.
// Unknown aliases, dangling group members and cycles contribute nothing.
func (r *Resolver) Resolve(name string) *Set {
	w := r.walker(false)
	_ = w.expand(name)
	return w.out
}

// ResolveChecked is Resolve honouring Strict: in strict mode the first
// configuration mistake met during expansion is returned as an ErrAlias error.
// In both modes an empty result for a non-empty name is an error, since no
// caller can act on zero targets.
func (r *Resolver) ResolveChecked(name string) (*Set, error) {
	w := r.walker(r.Strict)
	if err := w.expand(name); err != nil {
		return nil, err
	}
	if w.out.Len() == 0 {
		return nil, errors.New(errors.ErrAlias,
			fmt.Sprintf("No targets resolved for %q", name),
			r.knownAliasesHint())
	}
	return w.out, nil
}

func (r *Resolver) walker(strict bool) *walker {
	log := r.Logger
	if log == nil {
		log = logger.Noop()
	}
	return &walker{
		store:     r.Store,
		log:       log,
		strict:    strict,
		expanding: make(map[string]bool),
		out:       NewSet(),
	}
}

func (r *Resolver) knownAliasesHint() string {
	if r.Store == nil {
		return "Pass user@host[:port][/path] or define aliases in wp-cli.yml."
	}
	names := r.Store.Names()
	if len(names) == 0 {
		return "No aliases are configured. Pass user@host[:port][/path] or add aliases to wp-cli.yml."
	}
	return "Known aliases: " + strings.Join(names, ", ")
}

type walker struct {
	store     Store
	log       logger.Logger
	strict    bool
	expanding map[string]bool
	out       *Set
}

func (w *walker) expand(name string) error {
	if name == "" {
		return nil
	}

	if !IsAliasName(name) {
		w.out.add(name, Fields{Name: name, SSH: name})
		return nil
	}

	if w.expanding[name] {
		w.log.Debug("cycle through %s, skipping", name)
		if w.strict {
			return errors.New(errors.ErrAlias,
				fmt.Sprintf("Alias %s refers back to itself", name),
				"Remove the cycle from the group definitions in wp-cli.yml.")
		}
		return nil
	}

	var members []string
	if name == All {
		if w.store != nil {
			for _, n := range w.store.Names() {
				if n != All {
					members = append(members, n)
				}
			}
		}
	} else {
		var def Definition
		ok := false
		if w.store != nil {
			def, ok = w.store.Lookup(name)
		}
		if !ok {
			w.log.Debug("unknown alias %s", name)
			if w.strict {
				return errors.New(errors.ErrAlias,
					fmt.Sprintf("Unknown alias %s", name),
					"Define it in wp-cli.yml or fix the reference.")
			}
			return nil
		}
		if def.Kind == KindLeaf {
			f := def.Fields
			f.Name = name
			w.out.add(name, f)
			return nil
		}
		members = def.Members
	}

	if len(members) == 0 && w.strict {
		return errors.New(errors.ErrAlias,
			fmt.Sprintf("Alias %s has no members", name),
			"List at least one alias under it in wp-cli.yml.")
	}

	w.expanding[name] = true
	defer delete(w.expanding, name)

	for _, m := range members {
		if w.out.Has(m) {
			continue
		}
		if err := w.expand(m); err != nil {
			return err
		}
	}
	return nil
}
