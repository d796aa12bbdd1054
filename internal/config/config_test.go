package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/garagon/tatu/internal/config"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`
tool:
  command: mypy
  args: ["--strict"]
timeout: 2m
format: json
groups:
  - name: library
    targets:
      - enforce/enforcers.py
      - enforce/settings.py
    exclude:
      - path: enforce/decorators.py
        reason: "checker crashes on this file"
  - name: extras
    enabled: false
    targets:
      - scratch.py
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tatu.yml"), data, 0644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.Equal(t, "mypy", cfg.Tool.Command)
	require.Equal(t, []string{"--strict"}, cfg.Tool.Args)
	require.Equal(t, "json", cfg.Format)
	require.Len(t, cfg.Groups, 2)
	require.Equal(t, "library", cfg.Groups[0].Name)
	require.Len(t, cfg.Groups[0].Targets, 2)
	require.Len(t, cfg.Groups[0].Exclusions, 1)
	require.Equal(t, "enforce/decorators.py", cfg.Groups[0].Exclusions[0].Path)
	require.Equal(t, "checker crashes on this file", cfg.Groups[0].Exclusions[0].Reason)

	d, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	require.Equal(t, 2*time.Minute, d)
}

func TestLoadConfigTOML(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`
[tool]
command = "mypy"
args = ["--ignore-missing-imports"]

[[groups]]
name = "library"
targets = ["a.py", "b.py"]

[[groups.exclude]]
path = "c.py"
reason = "segfaults the checker"
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tatu.toml"), data, 0644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.Equal(t, "mypy", cfg.Tool.Command)
	require.Len(t, cfg.Groups, 1)
	require.Equal(t, "c.py", cfg.Groups[0].Exclusions[0].Path)
}

func TestLoadConfigYAMLPrecedenceOverTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tatu.yml"), []byte("tool:\n  command: yamltool\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tatu.toml"), []byte("[tool]\ncommand = \"tomltool\"\n"), 0644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.Equal(t, "yamltool", cfg.Tool.Command)
}

func TestLoadConfigMissing(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.Equal(t, config.Config{}, cfg)
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tatu.yml"), []byte("{{invalid yaml"), 0644))

	_, err := config.Load(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing")
}

func TestLoadConfigExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".tatu.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tool:\n  command: mypy\n"), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "mypy", cfg.Tool.Command)
}

func TestValidate(t *testing.T) {
	cfg := config.Config{
		Tool:   config.Tool{Command: "mypy"},
		Groups: []config.Group{{Name: "library", Targets: []string{"a.py"}}},
	}
	require.NoError(t, cfg.Validate())
}

func TestValidateMissingCommand(t *testing.T) {
	cfg := config.Config{
		Groups: []config.Group{{Name: "library"}},
	}
	require.Error(t, cfg.Validate())
}

func TestValidateDuplicateGroups(t *testing.T) {
	cfg := config.Config{
		Tool: config.Tool{Command: "mypy"},
		Groups: []config.Group{
			{Name: "library"},
			{Name: "library"},
		},
	}
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate group")
}

func TestValidateBadFormat(t *testing.T) {
	cfg := config.Config{
		Tool:   config.Tool{Command: "mypy"},
		Format: "xml",
	}
	require.Error(t, cfg.Validate())
}

func TestValidateBadTimeout(t *testing.T) {
	cfg := config.Config{
		Tool:    config.Tool{Command: "mypy"},
		Timeout: "soon",
	}
	require.Error(t, cfg.Validate())
}

func TestEnabledGroups(t *testing.T) {
	cfg := config.Config{
		Groups: []config.Group{
			{Name: "a"},
			{Name: "b", Enabled: boolPtr(false)},
			{Name: "c", Enabled: boolPtr(true)},
		},
	}

	names := func(groups []config.Group) []string {
		var out []string
		for _, g := range groups {
			out = append(out, g.Name)
		}
		return out
	}

	// No default set: unlisted groups run.
	require.Equal(t, []string{"a", "c"}, names(cfg.EnabledGroups()))

	// default: false flips groups without an explicit enabled.
	cfg.Default = boolPtr(false)
	require.Equal(t, []string{"c"}, names(cfg.EnabledGroups()))

	// Master switch off disables everything.
	cfg.Enabled = boolPtr(false)
	require.Empty(t, cfg.EnabledGroups())
}

func TestFindGroup(t *testing.T) {
	cfg := config.Config{
		Groups: []config.Group{{Name: "library"}, {Name: "extras", Enabled: boolPtr(false)}},
	}
	g, ok := cfg.FindGroup("extras")
	require.True(t, ok)
	require.Equal(t, "extras", g.Name)

	_, ok = cfg.FindGroup("nope")
	require.False(t, ok)
}
