package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pulsestation/pulse/internal/series"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of Config. Durations are written as
// strings like "60s" rather than nanosecond integers.
type fileConfig struct {
	Version  int                 `yaml:"version"`
	Source   fileSource          `yaml:"source"`
	Poll     filePoll            `yaml:"poll"`
	Window   string              `yaml:"window"`
	Limits   map[string]float64  `yaml:"limits"`
	Charts   ChartsConfig        `yaml:"charts"`
	Metrics  []series.Descriptor `yaml:"metrics,omitempty"`
	Exporter ExporterConfig      `yaml:"exporter"`
	Log      LogConfig           `yaml:"log"`
}

type fileSource struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

type filePoll struct {
	Interval string `yaml:"interval"`
}

// MarshalYAML writes durations in their string form.
func (c Config) MarshalYAML() (interface{}, error) {
	return fileConfig{
		Version:  c.Version,
		Source:   fileSource{URL: c.Source.URL, Timeout: c.Source.Timeout.String()},
		Poll:     filePoll{Interval: c.Poll.Interval.String()},
		Window:   c.Window.String(),
		Limits:   c.Limits,
		Charts:   c.Charts,
		Metrics:  c.Metrics,
		Exporter: c.Exporter,
		Log:      c.Log,
	}, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write saves cfg to path, creating parent directories.
func Write(cfg *Config, path string) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	header := "# pulse configuration. Environment variables PULSE_<SECTION>_<KEY> override these values.\n"
	return os.WriteFile(path, append([]byte(header), data...), 0o644)
}

// SetValue updates one dotted key (e.g. "poll.interval") in the config file
// at path, creating intermediate mappings as needed. Other keys and
// comments are preserved.
func SetValue(path, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	if root.Kind == 0 {
		root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return fmt.Errorf("invalid YAML document structure")
	}

	node := root.Content[0]
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping at document root")
	}

	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		next := findMapValue(node, part)
		if next == nil {
			next = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: part}, next)
		}
		if next.Kind != yaml.MappingNode {
			return fmt.Errorf("'%s' is not a section", part)
		}
		node = next
	}

	leaf := parts[len(parts)-1]
	if existing := findMapValue(node, leaf); existing != nil {
		if existing.Kind != yaml.ScalarNode {
			return fmt.Errorf("'%s' is a section, not a value", key)
		}
		existing.Value = value
		existing.Tag = ""
		existing.Style = 0
	} else {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: leaf},
			&yaml.Node{Kind: yaml.ScalarNode, Value: value})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
