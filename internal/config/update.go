package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rileyhilliard/wpx/internal/alias"
	"gopkg.in/yaml.v3"
)

// SetAlias writes def under name in the config file, keeping the rest of the
// document and its comments. An existing alias of that name is replaced in
// place; a missing file is created.
func SetAlias(configPath, name string, def alias.Definition) error {
	if !alias.IsAliasName(name) || name == alias.All {
		return fmt.Errorf("alias name %q must start with @ and can't be %s", name, alias.All)
	}

	root, err := readDocument(configPath)
	if err != nil {
		return err
	}

	docNode := root.Content[0]
	value := definitionNode(def)

	if existing := findMapValue(docNode, name); existing != nil {
		*existing = *value
	} else {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
		docNode.Content = append(docNode.Content, keyNode, value)
	}

	return writeDocument(configPath, root)
}

// RemoveAlias deletes name from the config file. It reports whether the
// alias was present.
func RemoveAlias(configPath, name string) (bool, error) {
	root, err := readDocument(configPath)
	if err != nil {
		return false, err
	}

	docNode := root.Content[0]
	for i := 0; i < len(docNode.Content)-1; i += 2 {
		if docNode.Content[i].Value == name {
			docNode.Content = append(docNode.Content[:i], docNode.Content[i+2:]...)
			return true, writeDocument(configPath, root)
		}
	}
	return false, nil
}

func readDocument(configPath string) (*yaml.Node, error) {
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var root yaml.Node
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(alias.QuoteBareAliases(data), &root); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if root.Kind == 0 {
		root = yaml.Node{Kind: yaml.DocumentNode}
	}
	if root.Kind != yaml.DocumentNode {
		return nil, fmt.Errorf("invalid YAML document structure")
	}
	if len(root.Content) == 0 {
		root.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}
	if root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected mapping at document root")
	}
	return &root, nil
}

func writeDocument(configPath string, root *yaml.Node) error {
	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(root); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()

	if err := os.WriteFile(configPath, []byte(buf.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func definitionNode(def alias.Definition) *yaml.Node {
	if def.Kind == alias.KindGroup {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, m := range def.Members {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m})
		}
		return seq
	}

	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	add := func(key, value, tag string) {
		if value == "" {
			return
		}
		m.Content = append(m.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value})
	}
	f := def.Fields
	add("ssh", f.SSH, "!!str")
	add("host", f.Host, "!!str")
	add("user", f.User, "!!str")
	if f.Port > 0 {
		add("port", strconv.Itoa(f.Port), "!!int")
	}
	add("path", f.Path, "!!str")
	add("key", f.Key, "!!str")
	return m
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}
