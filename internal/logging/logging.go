// Package logging configures the structured logger used for diagnostic
// output. The runner is quiet by default; debug mode surfaces filter
// decisions and subprocess lifecycle events on stderr.
package logging

import (
	"os"

	"github.com/phuslu/log"
)

// New returns a console logger writing to stderr. With debug false only
// warnings and errors are emitted.
func New(debug bool) *log.Logger {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	return &log.Logger{
		Level:      level,
		TimeFormat: "15:04:05",
		Writer: &log.ConsoleWriter{
			Writer:         os.Stderr,
			ColorOutput:    false,
			EndWithMessage: true,
		},
	}
}
