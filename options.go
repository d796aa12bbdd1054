package tatu

import (
	"time"

	"github.com/phuslu/log"
)

// checkConfig holds the resolved options for a check run.
type checkConfig struct {
	timeout    time.Duration
	hasTimeout bool
	tool       string
	group      string
	parallel   bool
	logger     *log.Logger
}

// Option configures a check or recheck operation.
type Option func(*checkConfig)

// WithTimeout caps each tool invocation, overriding the config file value.
func WithTimeout(d time.Duration) Option {
	return func(c *checkConfig) {
		c.timeout = d
		c.hasTimeout = true
	}
}

// WithTool overrides the configured tool executable.
func WithTool(command string) Option {
	return func(c *checkConfig) {
		c.tool = command
	}
}

// WithGroup restricts the run to a single named group, enabled or not.
func WithGroup(name string) Option {
	return func(c *checkConfig) {
		c.group = name
	}
}

// WithParallel fans groups out across goroutines.
func WithParallel(parallel bool) Option {
	return func(c *checkConfig) {
		c.parallel = parallel
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(c *checkConfig) {
		c.logger = logger
	}
}
