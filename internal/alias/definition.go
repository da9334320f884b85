// Package alias reads WP-CLI aliases and expands an alias name into the
// flat, ordered set of endpoints it refers to.
//
// An alias is either a leaf, which carries connection fields directly:
//
//	@prod:
//	  ssh: deploy@example.com:2222/srv/www
//	  key: ~/.ssh/prod
//
// or a group, which lists other names to expand:
//
//	@live:
//	  - @prod
//	  - @prod-eu
//
// The reserved name @all expands to every top-level alias except itself.
package alias

import "strings"

// All is the reserved name that expands to every top-level alias.
const All = "@all"

// Kind tags a Definition as a leaf or a group.
type Kind int

const (
	// KindLeaf is a definition carrying connection fields.
	KindLeaf Kind = iota
	// KindGroup is a definition listing other alias names.
	KindGroup
)

// String returns the kind name used in messages.
func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Fields are the raw connection fields of one endpoint, before they are
// turned into a target. Zero values mean "not set".
type Fields struct {
	// Name is the alias name, or the literal endpoint string when the
	// entry did not come from an alias.
	Name string

	// SSH is an endpoint string such as user@host:port/path.
	SSH string

	Host string
	User string
	Port int
	Path string
	Key  string
}

// Definition is the value an alias name maps to.
type Definition struct {
	Kind    Kind
	Members []string
	Fields  Fields
}

// Leaf creates a leaf definition.
func Leaf(f Fields) Definition {
	return Definition{Kind: KindLeaf, Fields: f}
}

// Group creates a group definition listing members in order.
func Group(members ...string) Definition {
	return Definition{Kind: KindGroup, Members: append([]string(nil), members...)}
}

// IsAliasName reports whether name refers to an alias rather than an endpoint.
func IsAliasName(name string) bool {
	return strings.HasPrefix(name, "@")
}
