// Package config loads .tatu.yml / .tatu.toml configuration files describing
// the analysis tool to invoke, the check groups, and their exclusions.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Exclusion is a path deliberately withheld from the tool, with an optional
// human-readable reason (typically an upstream bug reference).
type Exclusion struct {
	Path   string `yaml:"path" toml:"path" json:"path" validate:"required"`
	Reason string `yaml:"reason,omitempty" toml:"reason,omitempty" json:"reason,omitempty"`
}

// Group is a named, independently runnable set of targets.
type Group struct {
	Name       string      `yaml:"name" toml:"name" json:"name" validate:"required"`
	Enabled    *bool       `yaml:"enabled,omitempty" toml:"enabled,omitempty" json:"enabled,omitempty"`
	Targets    []string    `yaml:"targets" toml:"targets" json:"targets"`
	Exclusions []Exclusion `yaml:"exclude,omitempty" toml:"exclude,omitempty" json:"exclude,omitempty" validate:"dive"`
}

// Tool identifies the external static-analysis executable and its fixed
// arguments. Target paths are appended after Args at invocation time.
type Tool struct {
	Command string   `yaml:"command" toml:"command" json:"command" validate:"required"`
	Args    []string `yaml:"args,omitempty" toml:"args,omitempty" json:"args,omitempty"`
}

// Config represents the .tatu.yml / .tatu.toml configuration file.
//
// Enabled is the master switch; Default governs groups that carry no
// explicit enabled flag of their own.
type Config struct {
	Tool    Tool    `yaml:"tool" toml:"tool" json:"tool"`
	Enabled *bool   `yaml:"enabled,omitempty" toml:"enabled,omitempty" json:"enabled,omitempty"`
	Default *bool   `yaml:"default,omitempty" toml:"default,omitempty" json:"default,omitempty"`
	Groups  []Group `yaml:"groups" toml:"groups" json:"groups" validate:"dive"`
	Timeout string  `yaml:"timeout,omitempty" toml:"timeout,omitempty" json:"timeout,omitempty"`
	Format  string  `yaml:"format,omitempty" toml:"format,omitempty" json:"format,omitempty" validate:"omitempty,oneof=terminal json sarif markdown md"`
	NoColor bool    `yaml:"no_color,omitempty" toml:"no_color,omitempty" json:"no_color,omitempty"`
}

// fileNames in precedence order.
var fileNames = []string{".tatu.yml", ".tatu.yaml", ".tatu.toml"}

const maxConfigSize = 1 << 20

// Load reads the tatu config file from the given path. If path is a file,
// its parent directory is used unless it is itself a config file. If no
// config file is found, it returns a zero Config (not an error).
func Load(dir string) (Config, error) {
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		if isConfigName(dir) {
			return LoadFile(dir)
		}
		dir = filepath.Dir(dir)
	}
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
		if info.Size() > maxConfigSize {
			return Config{}, fmt.Errorf("config file too large: %s (%d bytes, max 1 MB)", path, info.Size())
		}
		return LoadFile(path)
	}
	return Config{}, nil
}

// LoadFile reads a specific config file, choosing the decoder by extension
// (.toml for TOML, anything else YAML).
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	return cfg, nil
}

func isConfigName(path string) bool {
	base := filepath.Base(path)
	for _, name := range fileNames {
		if base == name {
			return true
		}
	}
	return strings.EqualFold(filepath.Ext(path), ".toml") ||
		strings.EqualFold(filepath.Ext(path), ".yml") ||
		strings.EqualFold(filepath.Ext(path), ".yaml")
}

// Validate checks the config is runnable: a tool command is set, required
// fields are present, and group names are unique.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	seen := make(map[string]bool, len(c.Groups))
	for _, g := range c.Groups {
		if seen[g.Name] {
			return fmt.Errorf("invalid config: duplicate group %q", g.Name)
		}
		seen[g.Name] = true
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// EnabledGroups resolves the master switch, the default flag, and per-group
// overrides, returning the groups that should run in config order.
func (c Config) EnabledGroups() []Group {
	if c.Enabled != nil && !*c.Enabled {
		return nil
	}
	def := true
	if c.Default != nil {
		def = *c.Default
	}
	var out []Group
	for _, g := range c.Groups {
		enabled := def
		if g.Enabled != nil {
			enabled = *g.Enabled
		}
		if enabled {
			out = append(out, g)
		}
	}
	return out
}

// FindGroup returns the group with the given name, enabled or not.
func (c Config) FindGroup(name string) (Group, bool) {
	for _, g := range c.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// TimeoutDuration parses the configured timeout. A zero value means no timeout.
func (c Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: must not be negative", c.Timeout)
	}
	return d, nil
}
