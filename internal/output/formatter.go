// Package output formats check reports for terminal (ANSI), JSON, SARIF,
// and Markdown output.
package output

import (
	"io"

	"github.com/garagon/tatu/internal/types"
)

// ToolVersion is the tatu version reported in SARIF and Markdown output.
var ToolVersion = "dev"

// Formatter is the interface for outputting check reports.
type Formatter interface {
	Format(w io.Writer, report *types.Report) error
}
