package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/s22625/planwatch/internal/timeline"
)

const (
	frameWidth  = 80
	descWidth   = 50
	detailWidth = 60
)

// ASCII renders the timeline as a fixed 80-column box-drawn frame,
// one line per event plus up to three detail lines (think input,
// think output, tool result).
func ASCII(events []timeline.Event, stats timeline.Stats, meta Meta) string {
	if len(events) == 0 {
		return "📭 No recorded events"
	}

	inner := frameWidth - 2
	var b strings.Builder

	rule := strings.Repeat("═", inner)
	b.WriteString("╔" + rule + "╗\n")
	writeBoxLine(&b, inner, center("📊 Agent Execution Timeline", inner))
	b.WriteString("╠" + rule + "╣\n")

	header := fmt.Sprintf(" Plan: %s │ %s", meta.PlanID, meta.StatusText())
	if meta.HasDuration {
		header += " │ " + FormatDuration(meta.Duration)
	}
	writeBoxLine(&b, inner, header)
	writeBoxLine(&b, inner, fmt.Sprintf(" Steps: %d │ Thinks: %d │ Tools: %d │ Errors: %d │ Recoveries: %d",
		stats.Steps, stats.Thinks, stats.ToolCalls, stats.Errors, stats.Recoveries))
	writeBoxLine(&b, inner, "")

	for _, e := range events {
		line := fmt.Sprintf(" %s %s │ %s", statusIcon(e.Status), e.Timestamp.Clock(ClockPlaceholder), timeline.Truncate(e.Description, descWidth))
		writeBoxLine(&b, inner, line)

		if e.Detail.ThinkInput != "" {
			writeBoxLine(&b, inner, "     💭 think: "+timeline.Truncate(e.Detail.ThinkInput, detailWidth))
		}
		if e.Detail.ThinkOutput != "" {
			writeBoxLine(&b, inner, "     💡 output: "+timeline.Truncate(e.Detail.ThinkOutput, detailWidth))
		}
		if e.Detail.Result != "" {
			writeBoxLine(&b, inner, "     📄 result: "+timeline.Truncate(e.Detail.Result, detailWidth))
		}
	}

	b.WriteString("╚" + rule + "╝")
	return b.String()
}

// writeBoxLine pads content to the frame's inner width. Detail text
// can contain wide glyphs and newlines; the line is flattened and
// measured by display width so the frame stays aligned.
func writeBoxLine(b *strings.Builder, inner int, content string) {
	content = strings.ReplaceAll(content, "\n", " ")
	w := runewidth.StringWidth(content)
	if w > inner {
		content = runewidth.Truncate(content, inner, "...")
		w = runewidth.StringWidth(content)
	}
	b.WriteString("║")
	b.WriteString(content)
	b.WriteString(strings.Repeat(" ", inner-w))
	b.WriteString("║\n")
}

func center(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", (width-w)/2) + s
}
