package runner_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/garagon/tatu/internal/config"
	"github.com/garagon/tatu/internal/runner"
	"github.com/garagon/tatu/internal/types"
	"github.com/stretchr/testify/require"
)

func sessionConfig(t *testing.T, script string, groups []config.Group) config.Config {
	t.Helper()
	return config.Config{
		Tool:   config.Tool{Command: stubTool(t, script)},
		Groups: groups,
	}
}

func TestSessionRun(t *testing.T) {
	cfg := sessionConfig(t, `echo "$@"; exit 0`, []config.Group{
		{
			Name:    "library",
			Targets: []string{"a.py", "b.py", "c.py"},
			Exclusions: []config.Exclusion{
				{Path: "c.py", Reason: "segfaults the checker"},
			},
		},
		{
			Name:    "extras",
			Targets: []string{"d.py"},
		},
	})

	s, err := runner.NewSession(cfg)
	require.NoError(t, err)

	report := s.Run(context.Background(), cfg.EnabledGroups())
	require.Equal(t, types.StatusClean, report.Status)
	require.Equal(t, 0, report.ExitCode)
	require.NotEmpty(t, report.RunID)
	require.Len(t, report.Groups, 2)

	lib := report.Groups[0]
	require.Equal(t, "library", lib.Group)
	require.Equal(t, []string{"a.py", "b.py"}, lib.Accepted)
	require.Len(t, lib.Skipped, 1)
	require.Equal(t, "c.py", lib.Skipped[0].Path)
	// The excluded path must never reach the subprocess.
	require.NotContains(t, lib.Result.Output, "c.py")
	require.Contains(t, lib.Result.Output, "a.py b.py")
}

func TestSessionRunAggregatesWorstStatus(t *testing.T) {
	// The stub fails only when asked about bad.py.
	script := `
for arg in "$@"; do
  if [ "$arg" = "bad.py" ]; then
    echo "bad.py:1: error"
    exit 1
  fi
done
exit 0`
	cfg := sessionConfig(t, script, []config.Group{
		{Name: "clean", Targets: []string{"a.py"}},
		{Name: "dirty", Targets: []string{"bad.py"}},
	})

	s, err := runner.NewSession(cfg)
	require.NoError(t, err)

	report := s.Run(context.Background(), cfg.EnabledGroups())
	require.Equal(t, types.StatusFindingsReported, report.Status)
	require.Equal(t, 1, report.ExitCode)
	require.Equal(t, types.StatusClean, report.Groups[0].Result.Status)
	require.Equal(t, types.StatusFindingsReported, report.Groups[1].Result.Status)
}

func TestSessionRunParallelPreservesGroupOrder(t *testing.T) {
	cfg := sessionConfig(t, "exit 0", []config.Group{
		{Name: "one", Targets: []string{"a.py"}},
		{Name: "two", Targets: []string{"b.py"}},
		{Name: "three", Targets: []string{"c.py"}},
	})

	s, err := runner.NewSession(cfg)
	require.NoError(t, err)
	s.SetParallel(true)

	report := s.Run(context.Background(), cfg.EnabledGroups())
	require.Len(t, report.Groups, 3)
	require.Equal(t, "one", report.Groups[0].Group)
	require.Equal(t, "two", report.Groups[1].Group)
	require.Equal(t, "three", report.Groups[2].Group)
	require.Equal(t, types.StatusClean, report.Status)
}

func TestSessionRunToolUnavailable(t *testing.T) {
	cfg := config.Config{
		Tool:   config.Tool{Command: filepath.Join(t.TempDir(), "no-such-tool")},
		Groups: []config.Group{{Name: "library", Targets: []string{"a.py"}}},
	}

	s, err := runner.NewSession(cfg)
	require.NoError(t, err)

	report := s.Run(context.Background(), cfg.EnabledGroups())
	require.Equal(t, types.StatusToolUnavailable, report.Status)
	require.Equal(t, 127, report.ExitCode)
}

func TestSessionRunBadTimeout(t *testing.T) {
	cfg := config.Config{
		Tool:    config.Tool{Command: "mypy"},
		Timeout: "eventually",
	}
	_, err := runner.NewSession(cfg)
	require.Error(t, err)
}

func TestRecheck(t *testing.T) {
	// bad.py still reproduces a failure; fine.py no longer does.
	script := `
for arg in "$@"; do
  if [ "$arg" = "bad.py" ]; then
    exit 1
  fi
done
exit 0`
	cfg := sessionConfig(t, script, []config.Group{
		{
			Name:    "library",
			Targets: []string{"a.py"},
			Exclusions: []config.Exclusion{
				{Path: "bad.py", Reason: "still broken"},
				{Path: "fine.py", Reason: "fixed upstream ages ago"},
			},
		},
	})

	s, err := runner.NewSession(cfg)
	require.NoError(t, err)

	entries, err := s.Recheck(context.Background(), cfg.Groups)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, "bad.py", entries[0].Path)
	require.False(t, entries[0].Stale)
	require.Equal(t, types.StatusFindingsReported, entries[0].Status)

	require.Equal(t, "fine.py", entries[1].Path)
	require.True(t, entries[1].Stale)
	require.Equal(t, types.StatusClean, entries[1].Status)
}

func TestRecheckToolUnavailable(t *testing.T) {
	cfg := config.Config{
		Tool: config.Tool{Command: filepath.Join(t.TempDir(), "no-such-tool")},
		Groups: []config.Group{
			{Name: "library", Exclusions: []config.Exclusion{{Path: "c.py"}}},
		},
	}

	s, err := runner.NewSession(cfg)
	require.NoError(t, err)

	_, err = s.Recheck(context.Background(), cfg.Groups)
	require.ErrorIs(t, err, runner.ErrToolUnavailable)
}
