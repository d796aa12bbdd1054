package output

import (
	"encoding/json"
	"io"

	"github.com/garagon/tatu/internal/types"
)

// JSONFormatter outputs the full report as indented JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(w io.Writer, report *types.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
