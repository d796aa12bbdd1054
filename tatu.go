// Package tatu provides a public API for running an external static-analysis
// tool over explicit allow-lists of files, withholding paths known to crash
// the tool.
//
// This is the library entry point. For the CLI tool, see cmd/tatu/.
package tatu

import (
	"context"
	"fmt"

	"github.com/garagon/tatu/internal/config"
	"github.com/garagon/tatu/internal/runner"
	"github.com/garagon/tatu/internal/types"
)

// Re-export core types from internal packages so consumers don't need to
// import them directly.
type (
	Status        = types.Status
	RunResult     = types.RunResult
	SkippedTarget = types.SkippedTarget
	GroupReport   = types.GroupReport
	Report        = types.Report
	Config        = config.Config
	Tool          = config.Tool
	Group         = config.Group
	Exclusion     = config.Exclusion
	RecheckEntry  = runner.RecheckEntry
)

const (
	StatusClean            = types.StatusClean
	StatusFindingsReported = types.StatusFindingsReported
	StatusCancelled        = types.StatusCancelled
	StatusToolCrashed      = types.StatusToolCrashed
	StatusToolUnavailable  = types.StatusToolUnavailable
)

// ErrToolUnavailable is reported when the configured executable cannot be
// located or started.
var ErrToolUnavailable = runner.ErrToolUnavailable

// Check loads the tatu config at dir and runs every enabled check group.
func Check(ctx context.Context, dir string, opts ...Option) (*Report, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	return CheckConfig(ctx, cfg, opts...)
}

// CheckConfig runs every enabled check group of an in-memory config.
// A config with no groups still produces one invocation with an empty
// target list.
func CheckConfig(ctx context.Context, cfg Config, opts ...Option) (*Report, error) {
	o := applyOpts(opts)
	if o.tool != "" {
		cfg.Tool.Command = o.tool
	}
	if cfg.Tool.Command == "" {
		return nil, fmt.Errorf("no tool configured")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	groups := cfg.EnabledGroups()
	if o.group != "" {
		g, ok := cfg.FindGroup(o.group)
		if !ok {
			return nil, fmt.Errorf("group %q not found in config", o.group)
		}
		groups = []Group{g}
	} else if len(cfg.Groups) == 0 {
		groups = []Group{{Name: "default"}}
	}

	session, err := buildSession(cfg, o)
	if err != nil {
		return nil, err
	}
	return session.Run(ctx, groups), nil
}

// Recheck probes every exclusion at dir individually and reports which ones
// no longer reproduce a tool failure.
func Recheck(ctx context.Context, dir string, opts ...Option) ([]RecheckEntry, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	o := applyOpts(opts)
	if o.tool != "" {
		cfg.Tool.Command = o.tool
	}
	if cfg.Tool.Command == "" {
		return nil, fmt.Errorf("no tool configured")
	}

	session, err := buildSession(cfg, o)
	if err != nil {
		return nil, err
	}
	return session.Recheck(ctx, cfg.Groups)
}

// Groups returns the check groups configured at dir, enabled or not.
func Groups(dir string) ([]Group, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	return cfg.Groups, nil
}

// Filter removes excluded paths from a target list, preserving order and
// deduplicating. Exposed for callers that drive the tool themselves.
func Filter(targets []string, exclusions []Exclusion) ([]string, []SkippedTarget) {
	return runner.Filter(targets, exclusions)
}

// Classify maps a tool exit code to a status: zero means clean, anything
// else means findings were reported.
func Classify(exitCode int) Status {
	return runner.Classify(exitCode)
}

// --- internal helpers ---

func applyOpts(opts []Option) *checkConfig {
	o := &checkConfig{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func buildSession(cfg Config, o *checkConfig) (*runner.Session, error) {
	session, err := runner.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	if o.hasTimeout {
		session.SetTimeout(o.timeout)
	}
	session.SetParallel(o.parallel)
	session.SetLogger(o.logger)
	return session, nil
}
