// Package runner filters target lists against exclusion sets and invokes
// the external static-analysis tool as a subprocess, classifying its exit
// status. Tool output is captured verbatim and never interpreted.
package runner

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/garagon/tatu/internal/types"
)

// ErrToolUnavailable is reported when the configured executable cannot be
// located or started.
var ErrToolUnavailable = errors.New("analysis tool not available")

// Runner invokes the external analysis tool. Target paths are appended
// after Args. One Invoke call spawns exactly one subprocess.
type Runner struct {
	Command string
	Args    []string
	Timeout time.Duration // zero means no timeout
}

// Invoke runs the tool over the accepted targets and classifies the outcome.
// Every outcome is a value: lookup failures, crashes, and cancellation are
// statuses on the result, not Go errors. The tool is invoked even when
// targets is empty.
func (r *Runner) Invoke(ctx context.Context, targets []string) *types.RunResult {
	start := time.Now()

	if _, err := exec.LookPath(r.Command); err != nil {
		return &types.RunResult{
			Status:   types.StatusToolUnavailable,
			ExitCode: -1,
			Output:   err.Error(),
			Duration: time.Since(start),
		}
	}

	runCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	args := make([]string, 0, len(r.Args)+len(targets))
	args = append(args, r.Args...)
	args = append(args, targets...)

	cmd := exec.CommandContext(runCtx, r.Command, args...)
	out, err := cmd.CombinedOutput()

	result := &types.RunResult{
		Output:   string(out),
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
		result.ExitCode = 0
		result.Status = Classify(0)
	case runCtx.Err() != nil:
		result.ExitCode = -1
		result.Status = types.StatusCancelled
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			result.ExitCode = code
			if code < 0 {
				// Terminated by a signal rather than exiting.
				result.Status = types.StatusToolCrashed
			} else {
				result.Status = Classify(code)
			}
		} else {
			// Found on PATH but could not be started.
			result.ExitCode = -1
			result.Status = types.StatusToolUnavailable
			result.Output = err.Error()
		}
	}
	return result
}

// Classify maps a tool exit code to a status using the conventional
// contract: zero means clean, anything else means findings were reported.
// Exclusion of known-bad paths is a filtering decision, not a
// classification one, so no special-casing happens here.
func Classify(exitCode int) types.Status {
	if exitCode == 0 {
		return types.StatusClean
	}
	return types.StatusFindingsReported
}
