package runner_test

import (
	"testing"

	"github.com/garagon/tatu/internal/config"
	"github.com/garagon/tatu/internal/runner"
	"github.com/stretchr/testify/require"
)

func TestFilterRemovesExcluded(t *testing.T) {
	targets := []string{"a.src", "b.src", "c.src"}
	exclusions := []config.Exclusion{{Path: "c.src", Reason: "crashes the checker"}}

	accepted, skipped := runner.Filter(targets, exclusions)
	require.Equal(t, []string{"a.src", "b.src"}, accepted)
	require.Len(t, skipped, 1)
	require.Equal(t, "c.src", skipped[0].Path)
	require.Equal(t, "crashes the checker", skipped[0].Reason)
}

func TestFilterPreservesOrder(t *testing.T) {
	targets := []string{"z.py", "a.py", "m.py", "b.py"}
	exclusions := []config.Exclusion{{Path: "m.py"}}

	accepted, _ := runner.Filter(targets, exclusions)
	require.Equal(t, []string{"z.py", "a.py", "b.py"}, accepted)
}

func TestFilterDeduplicates(t *testing.T) {
	targets := []string{"a.py", "b.py", "a.py", "a.py", "b.py"}

	accepted, skipped := runner.Filter(targets, nil)
	require.Equal(t, []string{"a.py", "b.py"}, accepted)
	require.Empty(t, skipped)
}

func TestFilterIdempotent(t *testing.T) {
	targets := []string{"a.py", "b.py", "c.py", "b.py"}
	exclusions := []config.Exclusion{{Path: "c.py"}}

	once, _ := runner.Filter(targets, exclusions)
	twice, skipped := runner.Filter(once, exclusions)
	require.Equal(t, once, twice)
	require.Empty(t, skipped)
}

func TestFilterEmptyTargets(t *testing.T) {
	accepted, skipped := runner.Filter(nil, []config.Exclusion{{Path: "c.py"}})
	require.Empty(t, accepted)
	require.Empty(t, skipped)
}

func TestFilterUnrequestedExclusionNotReported(t *testing.T) {
	// An exclusion for a path nobody asked for leaves no trace.
	accepted, skipped := runner.Filter([]string{"a.py"}, []config.Exclusion{{Path: "ghost.py"}})
	require.Equal(t, []string{"a.py"}, accepted)
	require.Empty(t, skipped)
}

func TestFilterFirstExclusionReasonWins(t *testing.T) {
	exclusions := []config.Exclusion{
		{Path: "c.py", Reason: "first"},
		{Path: "c.py", Reason: "second"},
	}
	_, skipped := runner.Filter([]string{"c.py"}, exclusions)
	require.Len(t, skipped, 1)
	require.Equal(t, "first", skipped[0].Reason)
}
