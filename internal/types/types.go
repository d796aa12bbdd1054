// Package types defines shared data structures (Status, RunResult, Report)
// used across runner, output, and command packages to prevent import cycles.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status classifies the outcome of one tool invocation.
type Status int

// Statuses are ordered by severity; aggregating multiple group runs takes
// the highest value.
const (
	StatusClean Status = iota
	StatusFindingsReported
	StatusCancelled
	StatusToolCrashed
	StatusToolUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusClean:
		return "clean"
	case StatusFindingsReported:
		return "findings-reported"
	case StatusCancelled:
		return "cancelled"
	case StatusToolCrashed:
		return "tool-crashed"
	case StatusToolUnavailable:
		return "tool-unavailable"
	default:
		return "unknown"
	}
}

// ParseStatus converts a string to a Status.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "clean":
		return StatusClean, nil
	case "findings-reported":
		return StatusFindingsReported, nil
	case "cancelled":
		return StatusCancelled, nil
	case "tool-crashed":
		return StatusToolCrashed, nil
	case "tool-unavailable":
		return StatusToolUnavailable, nil
	default:
		return StatusClean, fmt.Errorf("unknown status: %q", s)
	}
}

// MarshalJSON serializes the status as its string form.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the string form back into a Status.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ExitCode maps a status to the process exit code the CLI reports.
// FindingsReported passes the tool's own exit code through so calling
// automation sees the convention it already knows.
func (s Status) ExitCode(toolExit int) int {
	switch s {
	case StatusClean:
		return 0
	case StatusFindingsReported:
		if toolExit > 0 {
			return toolExit
		}
		return 1
	case StatusCancelled, StatusToolCrashed:
		return 2
	case StatusToolUnavailable:
		return 127
	default:
		return 2
	}
}

// WorseOf returns the more severe of two statuses.
func WorseOf(a, b Status) Status {
	if b > a {
		return b
	}
	return a
}

// RunResult holds the raw outcome of a single tool invocation.
type RunResult struct {
	Status   Status        `json:"status"`
	ExitCode int           `json:"exit_code"`
	Output   string        `json:"output,omitempty"`
	Duration time.Duration `json:"-"`
}

// MarshalJSON implements custom JSON marshaling so Duration serializes as milliseconds.
func (r RunResult) MarshalJSON() ([]byte, error) {
	type Alias RunResult
	return json.Marshal(struct {
		Alias
		DurationMS int64 `json:"duration_ms"`
	}{
		Alias:      Alias(r),
		DurationMS: r.Duration.Milliseconds(),
	})
}

// SkippedTarget records a path withheld from the tool and why.
type SkippedTarget struct {
	Path   string `json:"path"`
	Reason string `json:"reason,omitempty"`
}

// GroupReport is the outcome of one check group: what was submitted,
// what was withheld, and what the tool said.
type GroupReport struct {
	Group    string          `json:"group"`
	Accepted []string        `json:"accepted"`
	Skipped  []SkippedTarget `json:"skipped,omitempty"`
	Result   RunResult       `json:"result"`
}

// Report holds the complete results of a check run across all groups.
type Report struct {
	RunID    string        `json:"run_id"`
	Tool     string        `json:"tool"`
	Groups   []GroupReport `json:"groups"`
	Status   Status        `json:"status"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"-"`
}

// Aggregate recomputes the report-level status and exit code from the
// per-group results. The worst group status wins; for findings the highest
// tool exit code across groups is passed through.
func (r *Report) Aggregate() {
	status := StatusClean
	toolExit := 0
	for _, g := range r.Groups {
		status = WorseOf(status, g.Result.Status)
		if g.Result.Status == StatusFindingsReported && g.Result.ExitCode > toolExit {
			toolExit = g.Result.ExitCode
		}
	}
	r.Status = status
	r.ExitCode = status.ExitCode(toolExit)
}

// MarshalJSON implements custom JSON marshaling so Duration serializes as milliseconds.
func (r Report) MarshalJSON() ([]byte, error) {
	type Alias Report
	return json.Marshal(struct {
		Alias
		DurationMS int64 `json:"duration_ms"`
	}{
		Alias:      Alias(r),
		DurationMS: r.Duration.Milliseconds(),
	})
}
