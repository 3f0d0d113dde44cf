package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape written by Marshal. Durations are kept
// as strings so the file stays readable.
type fileConfig struct {
	Version       int               `yaml:"version"`
	Backend       fileBackend       `yaml:"backend"`
	PollInterval  string            `yaml:"poll_interval"`
	ProbeInterval string            `yaml:"probe_interval"`
	Notifications fileNotifications `yaml:"notifications"`
	StateFile     string            `yaml:"state_file"`
	Log           LogConfig         `yaml:"log"`
}

type fileBackend struct {
	URL            string `yaml:"url"`
	HealthPath     string `yaml:"health_path"`
	RequestTimeout string `yaml:"request_timeout"`
}

type fileNotifications struct {
	Duration string `yaml:"duration"`
	History  int    `yaml:"history"`
}

// Marshal renders cfg as YAML suitable for .sdnctl.yaml.
func Marshal(cfg *Config) ([]byte, error) {
	var fc fileConfig
	fc.Version = cfg.Version
	fc.Backend = fileBackend{
		URL:            cfg.Backend.URL,
		HealthPath:     cfg.Backend.HealthPath,
		RequestTimeout: durationString(cfg.Backend.RequestTimeout),
	}
	fc.PollInterval = durationString(cfg.PollInterval)
	fc.ProbeInterval = durationString(cfg.ProbeInterval)
	fc.Notifications = fileNotifications{
		Duration: durationString(cfg.Notifications.Duration),
		History:  cfg.Notifications.History,
	}
	fc.StateFile = cfg.StateFile
	fc.Log = cfg.Log

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&fc); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()
	return []byte(buf.String()), nil
}

func durationString(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	return d.String()
}

// SetValue sets a dotted key (e.g. backend.url) in an existing config file.
// It preserves the existing YAML structure and comments, creating missing
// mappings along the way.
func SetValue(configPath, key, value string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return fmt.Errorf("invalid YAML document structure")
	}

	node := root.Content[0]
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping at document root")
	}

	parts := strings.Split(key, ".")
	for i, part := range parts {
		last := i == len(parts)-1
		child := findMapValue(node, part)

		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			if last {
				child = &yaml.Node{Kind: yaml.ScalarNode}
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: part},
				child)
		}

		if last {
			if child.Kind != yaml.ScalarNode {
				return fmt.Errorf("'%s' is a section, not a value", key)
			}
			child.Tag = ""
			child.Style = 0
			child.Value = value
			break
		}

		if child.Kind != yaml.MappingNode {
			return fmt.Errorf("'%s' is not a section", strings.Join(parts[:i+1], "."))
		}
		node = child
	}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()

	if err := os.WriteFile(configPath, []byte(buf.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
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
