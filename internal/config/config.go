package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/HueCodes/hornet/internal/rules"
)

// DefaultFile is the config file looked up in the working directory
const DefaultFile = ".hornet.yaml"

// Config is the contents of a .hornet.yaml file
type Config struct {
	BuildRoot          string                `yaml:"build_root"`
	ManifestRoot       string                `yaml:"manifest_root"`
	Output             string                `yaml:"output"`
	Workers            int                   `yaml:"workers"`
	BuildFileNames     []string              `yaml:"build_file_names"`
	ManifestExtensions []string              `yaml:"manifest_extensions"`
	IgnorePaths        []string              `yaml:"ignore_paths"`
	Rules              map[string]RuleConfig `yaml:"rules"`
	CustomRules        []rules.Spec          `yaml:"custom_rules"`
}

// RuleConfig toggles a single rule
type RuleConfig struct {
	Enabled *bool `yaml:"enabled"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		BuildRoot:    ".",
		ManifestRoot: ".",
		Output:       "terminal",
	}
}

// Load reads path and overlays it on the defaults. A missing file is not
// an error when optional is true.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Disabled returns the IDs switched off with enabled: false
func (c *Config) Disabled() []string {
	var ids []string
	for id, rc := range c.Rules {
		if rc.Enabled != nil && !*rc.Enabled {
			ids = append(ids, id)
		}
	}
	return ids
}

// RuleSet builds the default rules followed by any custom rules
func (c *Config) RuleSet() (rules.Set, error) {
	set := rules.Default()
	for _, spec := range c.CustomRules {
		r, err := rules.New(spec)
		if err != nil {
			return nil, err
		}
		set = set.With(r)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(c.Rules))
	for id := range c.Rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if err := set.CheckIDs(ids...); err != nil {
		return nil, err
	}
	return set, nil
}

// Template is written by `hornet init`
const Template = `# Hornet configuration file

# Directories searched recursively for build files and manifests
build_root: .
manifest_root: .

# Output format: terminal, json, markdown, github, sarif
output: terminal

# Rules are evaluated concurrently; 1 gives sequential evaluation
# workers: 4

# Base names treated as build files
build_file_names:
  - Dockerfile

# Extensions treated as manifests
manifest_extensions:
  - .yml
  - .yaml

# Ignore patterns (glob syntax, relative to the root)
ignore_paths:
  - "vendor"
  - "node_modules"

# Rules configuration
rules:
  rule_2:
    enabled: true
  rule_3:
    enabled: true
  rule_4:
    enabled: true
  rule_7:
    enabled: true
  rule_8:
    enabled: true

# Additional rules
# custom_rules:
#   - id: no_latest
#     name: pinned-base-image
#     target: buildfile
#     quantifier: all
#     pattern: 'FROM\s+\S+:\S+'
`
