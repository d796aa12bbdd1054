package runner

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"github.com/garagon/tatu/internal/config"
	"github.com/garagon/tatu/internal/logging"
	"github.com/garagon/tatu/internal/types"
)

// Session runs check groups against one tool configuration. Each group is
// an independent, non-interacting invocation, so parallel mode needs no
// synchronization beyond collecting the per-group reports.
type Session struct {
	cfg      config.Config
	timeout  time.Duration
	parallel bool
	logger   *log.Logger
}

// NewSession creates a Session for the given config.
func NewSession(cfg config.Config) (*Session, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	return &Session{
		cfg:     cfg,
		timeout: timeout,
		logger:  logging.New(false),
	}, nil
}

// SetParallel enables fan-out of groups across goroutines.
func (s *Session) SetParallel(parallel bool) {
	s.parallel = parallel
}

// SetTimeout overrides the configured per-invocation timeout.
func (s *Session) SetTimeout(d time.Duration) {
	s.timeout = d
}

// SetLogger replaces the default quiet logger.
func (s *Session) SetLogger(logger *log.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Run checks every group and returns a consolidated report. Group order in
// the report matches the input order regardless of parallelism.
func (s *Session) Run(ctx context.Context, groups []config.Group) *types.Report {
	start := time.Now()
	report := &types.Report{
		RunID:  uuid.NewString(),
		Tool:   s.cfg.Tool.Command,
		Groups: make([]types.GroupReport, len(groups)),
	}

	r := &Runner{
		Command: s.cfg.Tool.Command,
		Args:    s.cfg.Tool.Args,
		Timeout: s.timeout,
	}

	if s.parallel && len(groups) > 1 {
		var wg sync.WaitGroup
		for i, g := range groups {
			wg.Go(func() {
				report.Groups[i] = s.runGroup(ctx, r, g)
			})
		}
		wg.Wait()
	} else {
		for i, g := range groups {
			report.Groups[i] = s.runGroup(ctx, r, g)
		}
	}

	report.Duration = time.Since(start)
	report.Aggregate()
	return report
}

func (s *Session) runGroup(ctx context.Context, r *Runner, g config.Group) types.GroupReport {
	accepted, skipped := Filter(g.Targets, g.Exclusions)

	s.logger.Debug().
		Str("group", g.Name).
		Int("accepted", len(accepted)).
		Int("skipped", len(skipped)).
		Str("tool", r.Command).
		Msg("invoking tool")

	result := r.Invoke(ctx, accepted)

	s.logger.Debug().
		Str("group", g.Name).
		Str("status", result.Status.String()).
		Int("exit_code", result.ExitCode).
		Dur("duration", result.Duration).
		Msg("tool finished")

	return types.GroupReport{
		Group:    g.Name,
		Accepted: accepted,
		Skipped:  skipped,
		Result:   *result,
	}
}

// RecheckEntry records whether a single exclusion still reproduces a tool
// failure. Stale means the tool now runs clean on the excluded path, so the
// exclusion may have outlived the bug it worked around.
type RecheckEntry struct {
	Group  string       `json:"group"`
	Path   string       `json:"path"`
	Reason string       `json:"reason,omitempty"`
	Status types.Status `json:"status"`
	Stale  bool         `json:"stale"`
}

// Recheck invokes the tool on every excluded path individually, one
// subprocess per path, and flags exclusions whose failure no longer
// reproduces. Nothing is persisted; the verdict is informational.
func (s *Session) Recheck(ctx context.Context, groups []config.Group) ([]RecheckEntry, error) {
	if _, err := exec.LookPath(s.cfg.Tool.Command); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrToolUnavailable, s.cfg.Tool.Command)
	}

	r := &Runner{
		Command: s.cfg.Tool.Command,
		Args:    s.cfg.Tool.Args,
		Timeout: s.timeout,
	}

	var entries []RecheckEntry
	for _, g := range groups {
		for _, e := range g.Exclusions {
			if ctx.Err() != nil {
				return entries, ctx.Err()
			}

			s.logger.Debug().
				Str("group", g.Name).
				Str("path", e.Path).
				Msg("rechecking exclusion")

			result := r.Invoke(ctx, []string{e.Path})
			entries = append(entries, RecheckEntry{
				Group:  g.Name,
				Path:   e.Path,
				Reason: e.Reason,
				Status: result.Status,
				Stale:  result.Status == types.StatusClean,
			})
		}
	}
	return entries, nil
}
