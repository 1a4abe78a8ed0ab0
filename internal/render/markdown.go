package render

import (
	"fmt"
	"strings"

	"github.com/s22625/planwatch/internal/timeline"
)

const markdownDetailWidth = 30

// Markdown renders a statistics summary followed by one table row per
// event. Pipe characters inside cell text are escaped so the table
// survives arbitrary tool output.
func Markdown(events []timeline.Event, stats timeline.Stats, meta Meta) string {
	var b strings.Builder

	b.WriteString("# Agent Execution Report\n\n")
	if meta.PlanID != "" {
		fmt.Fprintf(&b, "- **Plan**: %s\n", meta.PlanID)
	}
	if meta.Title != "" {
		fmt.Fprintf(&b, "- **Title**: %s\n", meta.Title)
	}
	fmt.Fprintf(&b, "- **Status**: %s\n", meta.StatusText())
	if meta.HasDuration {
		fmt.Fprintf(&b, "- **Duration**: %s\n", FormatDuration(meta.Duration))
	}
	b.WriteString("\n## Statistics\n\n")
	fmt.Fprintf(&b, "- Steps: %d\n", stats.Steps)
	fmt.Fprintf(&b, "- Thinks: %d\n", stats.Thinks)
	fmt.Fprintf(&b, "- Tool calls: %d\n", stats.ToolCalls)
	fmt.Fprintf(&b, "- Errors: %d\n", stats.Errors)
	fmt.Fprintf(&b, "- Recoveries: %d\n", stats.Recoveries)

	b.WriteString("\n## Timeline\n\n")
	b.WriteString("| Time | Event | Status | Detail |\n")
	b.WriteString("|------|-------|--------|--------|\n")

	for _, e := range events {
		fmt.Fprintf(&b, "| %s | %s | %s %s | %s |\n",
			e.Timestamp.Clock(ClockPlaceholder),
			mdCell(e.Description),
			statusIcon(e.Status), e.Status,
			mdCell(shortDetail(e.Detail)))
	}

	return b.String()
}

// shortDetail picks the table's detail cell: the first non-empty of
// think input, think output, and tool result. Empty detail yields an
// empty cell, not a placeholder.
func shortDetail(d timeline.Detail) string {
	for _, s := range []string{d.ThinkInput, d.ThinkOutput, d.Result} {
		if s != "" {
			return timeline.Truncate(s, markdownDetailWidth)
		}
	}
	return ""
}

// mdCell makes text safe inside a pipe table cell.
func mdCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
