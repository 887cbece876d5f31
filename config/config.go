// Package config provides configuration loading and management for docbridge.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Severity is the configured severity for a compliance rule.
type Severity string

const (
	// SeverityError marks violations as errors (blocks CI).
	SeverityError Severity = "error"
	// SeverityWarning marks violations as warnings.
	SeverityWarning Severity = "warning"
	// SeverityInfo marks violations as informational.
	SeverityInfo Severity = "info"
	// SeverityIgnore disables the rule entirely.
	SeverityIgnore Severity = "ignore"
)

// Valid reports whether s is one of the recognized severity values.
func (s Severity) Valid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo, SeverityIgnore:
		return true
	}
	return false
}

// Enabled reports whether a rule with this severity should run.
func (s Severity) Enabled() bool {
	return s != SeverityIgnore
}

// Config represents the complete docbridge configuration
type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace"`
	Rules     RulesConfig     `yaml:"rules"`
	NATS      NATSConfig      `yaml:"nats"`
}

// WorkspaceConfig configures workspace discovery
type WorkspaceConfig struct {
	// Root is the documentation root path (auto-detected from git if empty)
	Root string `yaml:"root"`
	// Include lists doublestar glob patterns for documents to index
	Include []string `yaml:"include"`
	// EntryPoints lists filename patterns treated as documentation roots.
	// Plain entries match as case-insensitive filename suffixes; entries
	// with glob metacharacters match the basename via doublestar.
	EntryPoints []string `yaml:"entry_points"`
}

// RulesConfig configures per-rule severities
type RulesConfig struct {
	// SupersededStatus is the severity for BRIDGE001 (invalid status on a
	// superseded document)
	SupersededStatus Severity `yaml:"superseded_status"`
	// Orphans is the severity for BRIDGE003 (unreachable documents)
	Orphans Severity `yaml:"orphans"`
}

// NATSConfig configures optional diagnostics publishing
type NATSConfig struct {
	// URL is the NATS server URL (empty = publishing disabled)
	URL string `yaml:"url"`
	// SubjectPrefix is the subject prefix for diagnostics messages
	SubjectPrefix string `yaml:"subject_prefix"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			Root:    "", // Auto-detect
			Include: []string{"**/*.adoc", "**/*.asciidoc"},
			EntryPoints: []string{
				"index.adoc",
				"readme.adoc",
				"index.asciidoc",
				"readme.asciidoc",
				"readme.md",
				"index.md",
			},
		},
		Rules: RulesConfig{
			SupersededStatus: SeverityError,
			Orphans:          SeverityWarning,
		},
		NATS: NATSConfig{
			URL:           "",
			SubjectPrefix: "docbridge.diagnostics",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if !c.Rules.SupersededStatus.Valid() {
		return fmt.Errorf("rules.superseded_status: invalid severity %q (want error, warning, info, or ignore)", c.Rules.SupersededStatus)
	}
	if !c.Rules.Orphans.Valid() {
		return fmt.Errorf("rules.orphans: invalid severity %q (want error, warning, info, or ignore)", c.Rules.Orphans)
	}
	if len(c.Workspace.Include) == 0 {
		return fmt.Errorf("workspace.include must not be empty")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
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

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Workspace
	if other.Workspace.Root != "" {
		c.Workspace.Root = other.Workspace.Root
	}
	if len(other.Workspace.Include) > 0 {
		c.Workspace.Include = other.Workspace.Include
	}
	if len(other.Workspace.EntryPoints) > 0 {
		c.Workspace.EntryPoints = other.Workspace.EntryPoints
	}

	// Rules
	if other.Rules.SupersededStatus != "" {
		c.Rules.SupersededStatus = other.Rules.SupersededStatus
	}
	if other.Rules.Orphans != "" {
		c.Rules.Orphans = other.Rules.Orphans
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.SubjectPrefix != "" {
		c.NATS.SubjectPrefix = other.NATS.SubjectPrefix
	}
}
