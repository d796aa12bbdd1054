package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/garagon/tatu/internal/types"
)

// ANSI color codes
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

const (
	lineWidth     = 72
	outputTailMax = 20
)

// TerminalFormatter outputs the report in a human-readable console format.
type TerminalFormatter struct {
	NoColor bool
	Verbose bool
}

func (f *TerminalFormatter) color(code, text string) string {
	if f.NoColor {
		return text
	}
	return code + text + reset
}

func (f *TerminalFormatter) Format(w io.Writer, report *types.Report) error {
	if !f.NoColor {
		if os.Getenv("NO_COLOR") != "" {
			f.NoColor = true
		}
	}

	f.printHeader(w, report)

	for _, g := range report.Groups {
		f.printGroup(w, g)
	}

	f.printFooter(w, report)
	return nil
}

func (f *TerminalFormatter) separator() string {
	return strings.Repeat("─", lineWidth)
}

func (f *TerminalFormatter) sectionHeader(title string) string {
	prefix := "── " + title + " "
	displayLen := utf8.RuneCountInString(prefix)
	remaining := max(lineWidth-displayLen, 0)
	return prefix + strings.Repeat("─", remaining)
}

func (f *TerminalFormatter) printHeader(w io.Writer, report *types.Report) {
	sep := f.separator()
	fmt.Fprintf(w, "\n%s\n", f.color(dim, sep))
	fmt.Fprintf(w, "  %s\n", f.color(bold, "TATU CHECK RESULTS"))

	parts := []string{fmt.Sprintf("Tool: %s", report.Tool)}
	parts = append(parts, fmt.Sprintf("%d groups", len(report.Groups)))
	if report.Duration > 0 {
		parts = append(parts, fmt.Sprintf("%.2fs", report.Duration.Seconds()))
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(parts, "  ·  "))
	if f.Verbose && report.RunID != "" {
		fmt.Fprintf(w, "  %s\n", f.color(dim, "run "+report.RunID))
	}
	fmt.Fprintf(w, "%s\n", f.color(dim, sep))
}

func (f *TerminalFormatter) printGroup(w io.Writer, g types.GroupReport) {
	fmt.Fprintf(w, "\n%s\n", f.color(bold, f.sectionHeader(g.Group)))

	icon, code := f.statusStyle(g.Result.Status)
	line := fmt.Sprintf("%s %s", icon, g.Result.Status.String())
	if g.Result.Status == types.StatusFindingsReported {
		line += fmt.Sprintf(" (exit %d)", g.Result.ExitCode)
	}
	line += fmt.Sprintf(" — %d targets checked", len(g.Accepted))
	if len(g.Skipped) > 0 {
		line += fmt.Sprintf(", %d excluded", len(g.Skipped))
	}
	fmt.Fprintf(w, "\n  %s\n", f.color(code, line))

	if f.Verbose {
		for _, s := range g.Skipped {
			entry := s.Path
			if s.Reason != "" {
				entry += " (" + s.Reason + ")"
			}
			fmt.Fprintf(w, "    %s\n", f.color(dim, "excluded: "+entry))
		}
	}

	if g.Result.Status != types.StatusClean && g.Result.Output != "" {
		f.printOutputTail(w, g.Result.Output)
	}
}

// printOutputTail shows the last lines of the tool's combined output,
// which is where checkers put their summaries.
func (f *TerminalFormatter) printOutputTail(w io.Writer, output string) {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) > outputTailMax {
		fmt.Fprintf(w, "    %s\n", f.color(dim, fmt.Sprintf("… %d earlier lines omitted", len(lines)-outputTailMax)))
		lines = lines[len(lines)-outputTailMax:]
	}
	for _, line := range lines {
		fmt.Fprintf(w, "    %s %s\n", f.color(dim, "│"), line)
	}
}

func (f *TerminalFormatter) printFooter(w io.Writer, report *types.Report) {
	sep := f.separator()
	fmt.Fprintf(w, "\n%s\n", f.color(dim, sep))

	icon, code := f.statusStyle(report.Status)
	fmt.Fprintf(w, "  %s\n", f.color(code, fmt.Sprintf("%s Overall: %s (exit code %d)",
		icon, report.Status.String(), report.ExitCode)))
}

func (f *TerminalFormatter) statusStyle(s types.Status) (icon, code string) {
	switch s {
	case types.StatusClean:
		return "✔", green
	case types.StatusFindingsReported:
		return "✖", red
	case types.StatusCancelled:
		return "⊘", yellow
	case types.StatusToolCrashed:
		return "✖", red
	case types.StatusToolUnavailable:
		return "?", yellow
	default:
		return "?", cyan
	}
}
