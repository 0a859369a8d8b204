package pkgx

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/home-lang/pantry-sub014/pkg/deps"
	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
)

// DepsYAML parses deps.yaml, deps.yml, pkgx.yaml and pkgx.yml.
type DepsYAML struct{}

func (DepsYAML) Type() string { return "deps.yaml" }

func (DepsYAML) Supports(name string) bool {
	switch strings.ToLower(name) {
	case "deps.yaml", "deps.yml", "pkgx.yaml", "pkgx.yml":
		return true
	}
	return false
}

func (p DepsYAML) Parse(path string) (*deps.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, err
	}
	m, err := ParseBytes(data)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	return m, nil
}

// ParseBytes decodes a deps.yaml document.
func ParseBytes(data []byte) (*deps.Manifest, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	m := &deps.Manifest{Raw: map[string]any{}}
	if doc.Kind == 0 {
		return m, nil
	}
	if err := doc.Decode(&m.Raw); err != nil {
		return nil, err
	}
	if m.Raw == nil {
		m.Raw = map[string]any{}
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: top level must be a mapping", root.Line)
	}

	var header struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
		Global  bool   `yaml:"global"`
	}
	if err := root.Decode(&header); err != nil {
		return nil, err
	}
	m.Name, m.Version = header.Name, header.Version

	sections := []struct {
		key  string
		kind deps.Kind
	}{
		{"dependencies", deps.Prod},
		{"devDependencies", deps.Dev},
		{"peerDependencies", deps.Peer},
		{"optionalDependencies", deps.Optional},
	}
	for _, s := range sections {
		node := lookup(root, s.key)
		if node == nil {
			continue
		}
		list, err := section(node, s.kind, header.Global)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.key, err)
		}
		m.Dependencies = append(m.Dependencies, list...)
	}
	return m, nil
}

func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func section(node *yaml.Node, kind deps.Kind, global bool) ([]deps.Dependency, error) {
	var out []deps.Dependency
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, v := node.Content[i], node.Content[i+1]
			d := deps.Dependency{Name: k.Value, Range: "*", Kind: kind, Global: global}
			switch v.Kind {
			case yaml.ScalarNode:
				if v.Value != "" {
					d.Range = v.Value
				}
			case yaml.MappingNode:
				if err := entry(v, &d); err != nil {
					return nil, err
				}
			default:
				return nil, fmt.Errorf("line %d: unsupported value for %s", v.Line, k.Value)
			}
			out = append(out, d)
		}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			d := deps.Dependency{Range: "*", Kind: kind, Global: global}
			switch item.Kind {
			case yaml.ScalarNode:
				d.Name, d.Range = SplitSpec(item.Value)
			case yaml.MappingNode:
				if err := entry(item, &d); err != nil {
					return nil, err
				}
			default:
				return nil, fmt.Errorf("line %d: unsupported list item", item.Line)
			}
			if d.Name == "" {
				return nil, fmt.Errorf("line %d: missing package name", item.Line)
			}
			out = append(out, d)
		}
	case yaml.ScalarNode:
		// "dependencies: a@1 b@2" as written by pkgx one-liners.
		for _, f := range strings.Fields(node.Value) {
			d := deps.Dependency{Kind: kind, Global: global}
			d.Name, d.Range = SplitSpec(f)
			out = append(out, d)
		}
	default:
		return nil, fmt.Errorf("line %d: expected mapping or list", node.Line)
	}
	return out, nil
}

// entry fills d from a mapping with name, version and global keys.
func entry(node *yaml.Node, d *deps.Dependency) error {
	var e struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
		Global  *bool  `yaml:"global"`
	}
	if err := node.Decode(&e); err != nil {
		return err
	}
	if e.Name != "" {
		d.Name = e.Name
	}
	if e.Version != "" {
		d.Range = e.Version
	}
	if e.Global != nil {
		d.Global = *e.Global
	}
	return nil
}

// SplitSpec splits "name@range" at the last "@" that is not the leading
// scope marker. A spec without a version gets "*".
func SplitSpec(s string) (name, rng string) {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "@"); i > 0 {
		name, rng = s[:i], s[i+1:]
	} else {
		name = s
	}
	if rng == "" {
		rng = "*"
	}
	return name, rng
}
