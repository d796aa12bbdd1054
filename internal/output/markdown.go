package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/garagon/tatu/internal/types"
)

// MarkdownFormatter outputs the report as GitHub-flavored markdown,
// designed for GitHub Actions Job Summaries and PR comments.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) Format(w io.Writer, report *types.Report) error {
	if report.Status == types.StatusClean {
		fmt.Fprintf(w, "### :white_check_mark: Tatu Check — clean\n\n")
	} else {
		fmt.Fprintf(w, "### %s Tatu Check — %s\n\n", statusEmoji(report.Status), report.Status.String())
	}
	fmt.Fprintf(w, "> **Tool:** `%s` · %d groups · %.2fs\n\n",
		report.Tool, len(report.Groups), report.Duration.Seconds())

	fmt.Fprintf(w, "| Group | Status | Exit | Checked | Excluded |\n")
	fmt.Fprintf(w, "|-------|--------|------|---------|----------|\n")
	for _, g := range report.Groups {
		fmt.Fprintf(w, "| `%s` | %s %s | %d | %d | %d |\n",
			g.Group, statusEmoji(g.Result.Status), g.Result.Status.String(),
			g.Result.ExitCode, len(g.Accepted), len(g.Skipped))
	}
	fmt.Fprintf(w, "\n")

	f.printExclusions(w, report)
	f.printOutputs(w, report)

	fmt.Fprintf(w, "---\n")
	fmt.Fprintf(w, "*Checked by [Tatu](https://github.com/garagon/tatu) %s*\n", ToolVersion)
	return nil
}

func (f *MarkdownFormatter) printExclusions(w io.Writer, report *types.Report) {
	var rows []string
	for _, g := range report.Groups {
		for _, s := range g.Skipped {
			rows = append(rows, fmt.Sprintf("| `%s` | `%s` | %s |", g.Group, s.Path, escapeMarkdown(s.Reason)))
		}
	}
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(w, "<details>\n<summary>:no_entry_sign: <strong>Excluded paths (%d)</strong></summary>\n\n", len(rows))
	fmt.Fprintf(w, "| Group | Path | Reason |\n")
	fmt.Fprintf(w, "|-------|------|--------|\n")
	for _, row := range rows {
		fmt.Fprintln(w, row)
	}
	fmt.Fprintf(w, "\n</details>\n\n")
}

func (f *MarkdownFormatter) printOutputs(w io.Writer, report *types.Report) {
	for _, g := range report.Groups {
		if g.Result.Status == types.StatusClean || g.Result.Output == "" {
			continue
		}
		fmt.Fprintf(w, "<details open>\n<summary><strong>`%s` tool output</strong></summary>\n\n", g.Group)
		fmt.Fprintf(w, "```\n%s\n```\n\n</details>\n\n", strings.TrimRight(g.Result.Output, "\n"))
	}
}

func statusEmoji(s types.Status) string {
	switch s {
	case types.StatusClean:
		return ":white_check_mark:"
	case types.StatusFindingsReported:
		return ":x:"
	case types.StatusCancelled:
		return ":hourglass:"
	case types.StatusToolCrashed:
		return ":boom:"
	case types.StatusToolUnavailable:
		return ":question:"
	default:
		return ":black_circle:"
	}
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
