package output

import (
	"encoding/json"
	"io"

	"github.com/garagon/tatu/internal/types"
)

// SARIFFormatter outputs the report in SARIF 2.1.0 format. Because the
// runner never parses the tool's diagnostics, the report is expressed at
// the invocation level: one invocation per group, carrying exit code and
// execution success, with no results array entries of its own.
type SARIFFormatter struct{}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations"`
	Results     []any             `json:"results"`
	Properties  map[string]any    `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string `json:"name"`
	Version        string `json:"version"`
	InformationURI string `json:"informationUri"`
}

type sarifInvocation struct {
	CommandLine         string         `json:"commandLine,omitempty"`
	Arguments           []string       `json:"arguments,omitempty"`
	ExitCode            int            `json:"exitCode"`
	ExecutionSuccessful bool           `json:"executionSuccessful"`
	Properties          map[string]any `json:"properties,omitempty"`
}

func (f *SARIFFormatter) Format(w io.Writer, report *types.Report) error {
	invocations := make([]sarifInvocation, 0, len(report.Groups))
	for _, g := range report.Groups {
		props := map[string]any{
			"group":  g.Group,
			"status": g.Result.Status.String(),
		}
		if len(g.Skipped) > 0 {
			skipped := make([]string, len(g.Skipped))
			for i, s := range g.Skipped {
				skipped[i] = s.Path
			}
			props["excluded"] = skipped
		}
		invocations = append(invocations, sarifInvocation{
			CommandLine: report.Tool,
			Arguments:   g.Accepted,
			ExitCode:    g.Result.ExitCode,
			// Successful means the tool ran to completion; findings do
			// not make an invocation unsuccessful in SARIF terms.
			ExecutionSuccessful: g.Result.Status == types.StatusClean ||
				g.Result.Status == types.StatusFindingsReported,
			Properties: props,
		})
	}

	log := sarifLog{
		Schema:  "https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           "tatu",
						Version:        ToolVersion,
						InformationURI: "https://github.com/garagon/tatu",
					},
				},
				Invocations: invocations,
				Results:     []any{},
				Properties: map[string]any{
					"run_id":      report.RunID,
					"status":      report.Status.String(),
					"duration_ms": report.Duration.Milliseconds(),
				},
			},
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}
