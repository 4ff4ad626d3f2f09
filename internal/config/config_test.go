package config

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/HueCodes/hornet/internal/rules"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMissingOptional(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFile), true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingRequired(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), false)
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
build_root: ./docker
manifest_root: ./deploy
output: json
workers: 2
ignore_paths: [vendor]
rules:
  rule_3:
    enabled: false
  rule_4:
    enabled: true
custom_rules:
  - id: healthcheck
    target: buildfile
    quantifier: all
    pattern: HEALTHCHECK
`)

	cfg, err := Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, "./docker", cfg.BuildRoot)
	assert.Equal(t, "./deploy", cfg.ManifestRoot)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, []string{"vendor"}, cfg.IgnorePaths)
	assert.Equal(t, []string{"rule_3"}, cfg.Disabled())

	set, err := cfg.RuleSet()
	require.NoError(t, err)
	assert.Equal(t, []string{"rule_2", "rule_3", "rule_4", "rule_7", "rule_8", "healthcheck"}, set.IDs())
}

func TestLoadKeepsDefaultsForUnsetKeys(t *testing.T) {
	cfg, err := Load(writeConfig(t, "workers: 3\n"), false)
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.BuildRoot)
	assert.Equal(t, ".", cfg.ManifestRoot)
	assert.Equal(t, "terminal", cfg.Output)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(writeConfig(t, "rules: [this is: not a map"), false)
	assert.Error(t, err)
}

func TestRuleSetInvalidCustomRule(t *testing.T) {
	tests := map[string]string{
		"unknown target": `
custom_rules:
  - id: x
    target: helmchart
    quantifier: any
    pattern: foo
`,
		"duplicate id": `
custom_rules:
  - id: rule_2
    target: buildfile
    quantifier: all
    pattern: USER
`,
		"bad regex": `
custom_rules:
  - id: y
    target: manifest
    quantifier: any
    pattern: "(["
`,
		"unknown rule toggle": `
rules:
  rule_99:
    enabled: false
`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, content), false)
			require.NoError(t, err)
			_, err = cfg.RuleSet()
			assert.ErrorIs(t, err, rules.ErrInvalidRule)
		})
	}
}

func TestRuleSetTogglesCustomRule(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
rules:
  no-latest:
    enabled: false
custom_rules:
  - id: no-latest
    target: buildfile
    quantifier: all
    pattern: "FROM [^:]+:[0-9]"
`), false)
	require.NoError(t, err)

	set, err := cfg.RuleSet()
	require.NoError(t, err)
	assert.Len(t, set, 6)
	assert.Equal(t, []string{"no-latest"}, cfg.Disabled())
}

func TestTemplateParses(t *testing.T) {
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(Template), &cfg))
	assert.Empty(t, cfg.Disabled())

	ids := make([]string, 0, len(cfg.Rules))
	for id := range cfg.Rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	assert.Equal(t, rules.Default().IDs(), ids)
}
