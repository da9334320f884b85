package alias

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rileyhilliard/wpx/internal/errors"
	"gopkg.in/yaml.v3"
)

// leafDoc is the on-disk shape of a leaf alias. Keys WP-CLI understands
// but wpx does not use (url, http, proxyjump) are ignored.
type leafDoc struct {
	SSH  string    `yaml:"ssh"`
	Host string    `yaml:"host"`
	User string    `yaml:"user"`
	Port portValue `yaml:"port"`
	Path string    `yaml:"path"`
	Key  string    `yaml:"key"`
}

// portValue accepts both `port: 2222` and `port: "2222"`.
type portValue int

func (p *portValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: port must be a number", node.Line)
	}
	v := strings.TrimSpace(node.Value)
	if v == "" || node.Tag == "!!null" {
		*p = 0
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("line %d: port %q is not a valid port number", node.Line, node.Value)
	}
	*p = portValue(n)
	return nil
}

// LoadFile reads the aliases defined in a wp-cli.yml style file.
func LoadFile(path string) (*MapStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't read "+path,
			"Check the file exists and is readable.")
	}
	store, err := Parse(data)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid aliases in "+path,
			"Aliases are either a map of ssh/user/port/path/key fields or a list of other @aliases.")
	}
	return store, nil
}

// LoadFiles reads every path in order and merges the results. Later files
// override aliases of the same name from earlier ones. Missing files are skipped.
func LoadFiles(paths ...string) (*MapStore, error) {
	merged := NewMapStore()
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		store, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		merged.Merge(store)
	}
	return merged, nil
}

// WP-CLI writes alias names unquoted (`@prod:`, `- @prod`), which strict
// YAML rejects because @ is a reserved indicator. These patterns find those
// bare names so they can be quoted before decoding.
var (
	bareAliasKey  = regexp.MustCompile(`^(\s*)(@[^\s:"'#]+)(\s*:)`)
	bareAliasItem = regexp.MustCompile(`^(\s*-\s+)(@[^\s:"'#,\]]+)(\s*(?:#.*)?)$`)
	bareAliasFlow = regexp.MustCompile(`([\[,]\s*)(@[^\s:"'#,\]]+)`)
)

// QuoteBareAliases rewrites unquoted @names into quoted scalars so the
// document parses as strict YAML.
func QuoteBareAliases(data []byte) []byte {
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		line = bareAliasKey.ReplaceAllString(line, `$1"$2"$3`)
		line = bareAliasItem.ReplaceAllString(line, `$1"$2"$3`)
		if strings.Contains(line, "[") {
			line = bareAliasFlow.ReplaceAllString(line, `$1"$2"`)
		}
		lines[i] = line
	}
	return []byte(strings.Join(lines, "\n"))
}

// Parse reads aliases from YAML. Only top-level keys beginning with @ are
// aliases; other keys belong to other tools and are ignored. The leaf or
// group shape of each alias is decided here, once.
func Parse(data []byte) (*MapStore, error) {
	store := NewMapStore()

	var doc yaml.Node
	if err := yaml.Unmarshal(QuoteBareAliases(data), &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return store, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		if root.Tag == "!!null" {
			return store, nil
		}
		return nil, fmt.Errorf("line %d: expected a mapping at the top level", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		name := key.Value
		if !IsAliasName(name) {
			continue
		}

		def, err := parseDefinition(name, value)
		if err != nil {
			return nil, err
		}
		store.Add(name, def)
	}

	return store, nil
}

func parseDefinition(name string, node *yaml.Node) (Definition, error) {
	switch node.Kind {
	case yaml.SequenceNode:
		members := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode || item.Value == "" {
				return Definition{}, fmt.Errorf("line %d: group %s may only list alias names", item.Line, name)
			}
			members = append(members, item.Value)
		}
		return Group(members...), nil

	case yaml.MappingNode:
		var doc leafDoc
		if err := node.Decode(&doc); err != nil {
			return Definition{}, fmt.Errorf("alias %s: %w", name, err)
		}
		return Leaf(Fields{
			Name: name,
			SSH:  doc.SSH,
			Host: doc.Host,
			User: doc.User,
			Port: int(doc.Port),
			Path: doc.Path,
			Key:  doc.Key,
		}), nil

	default:
		return Definition{}, fmt.Errorf("line %d: alias %s must be a map of fields or a list of aliases", node.Line, name)
	}
}
