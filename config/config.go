// Package config provides configuration loading and management for semcomply.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/c360studio/semcomply/graph"
	"github.com/c360studio/semcomply/inference"
	"gopkg.in/yaml.v3"
)

// Config represents the complete semcomply configuration
type Config struct {
	Engine     EngineConfig   `yaml:"engine"`
	Ontology   SourceConfig   `yaml:"ontology"`
	Rules      SourceConfig   `yaml:"rules"`
	Frameworks SourceConfig   `yaml:"frameworks"`
	Evidence   EvidenceConfig `yaml:"evidence"`
	NATS       NATSConfig     `yaml:"nats"`
}

// EngineConfig configures the inference engine
type EngineConfig struct {
	// MaxIterations caps forward-chaining passes (default: 5)
	MaxIterations int `yaml:"max_iterations"`
	// Incremental re-evaluates only rules whose inputs changed (default: true)
	Incremental *bool `yaml:"incremental,omitempty"`
}

// IncrementalEnabled reports whether incremental evaluation is on. An unset
// value means on.
func (e EngineConfig) IncrementalEnabled() bool {
	return e.Incremental == nil || *e.Incremental
}

// SourceConfig points at a directory of definition files. An empty Dir uses
// the embedded defaults.
type SourceConfig struct {
	Dir      string   `yaml:"dir,omitempty"`
	Patterns []string `yaml:"patterns,omitempty"`
}

// EvidenceConfig tunes the keyword evidence classifier
type EvidenceConfig struct {
	// Phrases adds evidence phrases per requirement identifier
	Phrases map[string][]string `yaml:"phrases,omitempty"`
}

// NATSConfig configures publishing derived facts
type NATSConfig struct {
	// URL is the NATS server URL (empty = publishing disabled)
	URL string `yaml:"url"`
	// Subject is the subject entity payloads are published on
	Subject string `yaml:"subject"`
	// Source is recorded on every published triple
	Source string `yaml:"source"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxIterations: inference.DefaultMaxIterations,
			Incremental:   boolPtr(true),
		},
		NATS: NATSConfig{
			Subject: graph.GraphIngestSubject,
			Source:  "semcomply",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Engine.MaxIterations < 1 {
		return errors.New("engine.max_iterations must be at least 1")
	}
	for name, src := range map[string]SourceConfig{
		"ontology":   c.Ontology,
		"rules":      c.Rules,
		"frameworks": c.Frameworks,
	} {
		if src.Dir == "" {
			continue
		}
		info, err := os.Stat(src.Dir)
		if err != nil {
			return fmt.Errorf("%s.dir: %w", name, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s.dir %s is not a directory", name, src.Dir)
		}
	}
	if c.NATS.URL != "" && c.NATS.Subject == "" {
		return errors.New("nats.subject is required when nats.url is set")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file over the defaults
func LoadFromFile(path string) (*Config, error) {
	layer, err := readLayer(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	config.Merge(layer)
	return config, nil
}

// readLayer parses a config file without defaults, so unset keys stay zero
// and do not override lower layers when merged.
func readLayer(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	layer := &Config{}
	if err := yaml.Unmarshal(data, layer); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return layer, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Engine.MaxIterations != 0 {
		c.Engine.MaxIterations = other.Engine.MaxIterations
	}
	if other.Engine.Incremental != nil {
		c.Engine.Incremental = boolPtr(*other.Engine.Incremental)
	}

	c.Ontology.merge(other.Ontology)
	c.Rules.merge(other.Rules)
	c.Frameworks.merge(other.Frameworks)

	if len(other.Evidence.Phrases) > 0 {
		if c.Evidence.Phrases == nil {
			c.Evidence.Phrases = make(map[string][]string, len(other.Evidence.Phrases))
		}
		for req, phrases := range other.Evidence.Phrases {
			c.Evidence.Phrases[req] = phrases
		}
	}

	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}
	if other.NATS.Source != "" {
		c.NATS.Source = other.NATS.Source
	}
}

func (s *SourceConfig) merge(other SourceConfig) {
	if other.Dir != "" {
		s.Dir = other.Dir
	}
	if len(other.Patterns) > 0 {
		s.Patterns = other.Patterns
	}
}

func boolPtr(b bool) *bool { return &b }
