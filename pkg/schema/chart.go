package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names a chart encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the encoding from a file extension. Anything that is
// not .json is read as YAML.
func FormatFromPath(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return FormatJSON
	}
	return FormatYAML
}

// Chart is a complete state tree definition.
type Chart struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Root        NodeDef `yaml:"root" json:"root"`
}

// NodeDef declares one node of the tree.
type NodeDef struct {
	Name     string         `yaml:"name" json:"name"`
	Kind     string         `yaml:"kind" json:"kind"`
	Default  string         `yaml:"default,omitempty" json:"default,omitempty"`
	Behavior string         `yaml:"behavior,omitempty" json:"behavior,omitempty"`
	Params   map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
	Children []NodeDef      `yaml:"children,omitempty" json:"children,omitempty"`
}

// Load reads and parses a chart file.
func Load(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart: %w", err)
	}
	chart, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return chart, nil
}

// Parse decodes a chart document.
func Parse(data []byte, format Format) (*Chart, error) {
	var chart Chart
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &chart); err != nil {
			return nil, fmt.Errorf("failed to parse chart json: %w", err)
		}
	case FormatYAML, "":
		if err := yaml.Unmarshal(data, &chart); err != nil {
			return nil, fmt.Errorf("failed to parse chart yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported chart format %q", format)
	}
	return &chart, nil
}

// Marshal encodes a chart back into the given format.
func Marshal(chart *Chart, format Format) ([]byte, error) {
	if format == FormatJSON {
		return json.MarshalIndent(chart, "", "  ")
	}
	return yaml.Marshal(chart)
}

// Walk visits every node definition in pre-order with its dotted path.
func (c *Chart) Walk(fn func(path string, def *NodeDef) error) error {
	return walk(c.Root.Name, &c.Root, fn)
}

func walk(path string, def *NodeDef, fn func(string, *NodeDef) error) error {
	if err := fn(path, def); err != nil {
		return err
	}
	for i := range def.Children {
		child := &def.Children[i]
		if err := walk(path+"."+child.Name, child, fn); err != nil {
			return err
		}
	}
	return nil
}
