package runner

import (
	"github.com/garagon/tatu/internal/config"
	"github.com/garagon/tatu/internal/types"
)

// Filter removes excluded paths from the target list, deduplicating targets
// while preserving the order of first occurrence. Excluded paths that were
// actually requested are recorded with their reasons so reporting can show
// what was withheld. Filter is pure: no I/O, deterministic, idempotent.
func Filter(targets []string, exclusions []config.Exclusion) ([]string, []types.SkippedTarget) {
	excluded := make(map[string]string, len(exclusions))
	for _, e := range exclusions {
		if _, ok := excluded[e.Path]; !ok {
			excluded[e.Path] = e.Reason
		}
	}

	seen := make(map[string]bool, len(targets))
	var accepted []string
	var skipped []types.SkippedTarget
	for _, target := range targets {
		if seen[target] {
			continue
		}
		seen[target] = true
		if reason, ok := excluded[target]; ok {
			skipped = append(skipped, types.SkippedTarget{Path: target, Reason: reason})
			continue
		}
		accepted = append(accepted, target)
	}
	return accepted, skipped
}
