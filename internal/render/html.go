package render

import (
	"fmt"
	"strings"

	"github.com/s22625/planwatch/internal/timeline"
)

// escapeHTML covers the characters that can break out of text
// context. Every piece of user-supplied text goes through this before
// being embedded.
var escapeHTML = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

const htmlStyles = `        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 20px; min-height: 100vh; }
        .container { max-width: 1200px; margin: 0 auto; background: white; border-radius: 12px; box-shadow: 0 10px 40px rgba(0,0,0,0.2); overflow: hidden; }
        .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; text-align: center; }
        .header h1 { font-size: 28px; margin-bottom: 10px; }
        .stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(150px, 1fr)); gap: 15px; padding: 20px 30px; background: #f8f9fa; }
        .stat-card { background: white; padding: 15px; border-radius: 8px; text-align: center; box-shadow: 0 2px 8px rgba(0,0,0,0.1); }
        .stat-card .number { font-size: 32px; font-weight: bold; color: #667eea; }
        .stat-card .label { font-size: 14px; color: #666; margin-top: 5px; }
        .timeline { padding: 30px; }
        .timeline-item { position: relative; padding-left: 40px; margin-bottom: 25px; }
        .timeline-item::before { content: ""; position: absolute; left: 10px; top: 0; bottom: -25px; width: 2px; background: #e9ecef; }
        .timeline-item:last-child::before { display: none; }
        .timeline-dot { position: absolute; left: 3px; top: 5px; width: 16px; height: 16px; border-radius: 50%; background: #667eea; border: 3px solid white; box-shadow: 0 0 0 2px #667eea; }
        .timeline-item.error .timeline-dot { background: #dc3545; box-shadow: 0 0 0 2px #dc3545; }
        .timeline-item.recovery .timeline-dot { background: #ffc107; box-shadow: 0 0 0 2px #ffc107; }
        .timeline-item.success .timeline-dot { background: #28a745; box-shadow: 0 0 0 2px #28a745; }
        .timeline-time { font-size: 12px; color: #6c757d; margin-bottom: 5px; }
        .timeline-content { background: #f8f9fa; padding: 15px; border-radius: 8px; }
        .event-type { display: inline-block; padding: 3px 10px; border-radius: 12px; font-size: 12px; font-weight: bold; margin-bottom: 8px; }
        .event-type.step { background: #e7f3ff; color: #0066cc; }
        .event-type.think { background: #fff3cd; color: #856404; }
        .event-type.tool { background: #d4edda; color: #155724; }
        .event-description { font-weight: 500; color: #333; margin-bottom: 8px; }
        .event-details { font-size: 13px; color: #666; background: white; padding: 10px; border-radius: 6px; margin-top: 8px; }
        .event-details strong { color: #495057; }
        .thinking-process { background: #fffbeb; border-left: 3px solid #f59e0b; padding: 10px; margin-top: 8px; border-radius: 4px; }
        .thinking-process .label { font-size: 11px; color: #92400e; font-weight: bold; margin-bottom: 5px; }
        .thinking-process .content { font-size: 13px; color: #78350f; font-style: italic; }`

// kindLabels maps event kinds to their badge text.
var kindLabels = map[timeline.Kind]string{
	timeline.KindStepStart: "Step start",
	timeline.KindStepEnd:   "Step end",
	timeline.KindThink:     "💭 Think",
	timeline.KindToolCall:  "🔧 Tool",
}

// HTML renders a complete standalone document: a summary card grid
// followed by a vertical timeline. No external assets.
func HTML(events []timeline.Event, stats timeline.Stats, meta Meta) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html lang=\"en\">\n<head>\n")
	b.WriteString("    <meta charset=\"UTF-8\">\n")
	b.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	b.WriteString("    <title>Agent Execution Timeline</title>\n")
	b.WriteString("    <style>\n" + htmlStyles + "\n    </style>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString("    <div class=\"container\">\n")
	b.WriteString("        <div class=\"header\">\n")
	b.WriteString("            <h1>🚀 Agent Execution Timeline</h1>\n")
	subtitle := meta.StatusText()
	if meta.PlanID != "" {
		subtitle = meta.PlanID + " · " + subtitle
	}
	if meta.HasDuration {
		subtitle += " · " + FormatDuration(meta.Duration)
	}
	fmt.Fprintf(&b, "            <p>%s</p>\n", escapeHTML.Replace(subtitle))
	b.WriteString("        </div>\n")

	b.WriteString("        <div class=\"stats\">\n")
	writeStatCard(&b, stats.Steps, "Steps")
	writeStatCard(&b, stats.Thinks, "Thinks")
	writeStatCard(&b, stats.ToolCalls, "Tool calls")
	writeStatCard(&b, stats.Errors, "Errors")
	writeStatCard(&b, stats.Recoveries, "Recoveries")
	b.WriteString("        </div>\n")

	b.WriteString("        <div class=\"timeline\">\n")
	for _, e := range events {
		writeTimelineItem(&b, e)
	}
	b.WriteString("        </div>\n")
	b.WriteString("    </div>\n</body>\n</html>\n")

	return b.String()
}

func writeStatCard(b *strings.Builder, number int, label string) {
	fmt.Fprintf(b, "            <div class=\"stat-card\"><div class=\"number\">%d</div><div class=\"label\">%s</div></div>\n", number, label)
}

func writeTimelineItem(b *strings.Builder, e timeline.Event) {
	itemClass := "timeline-item"
	switch e.Status {
	case timeline.StatusError:
		itemClass += " error"
	case timeline.StatusRecovery:
		itemClass += " recovery"
	case timeline.StatusSuccess:
		itemClass += " success"
	}

	fmt.Fprintf(b, "            <div class=\"%s\">\n", itemClass)
	b.WriteString("                <div class=\"timeline-dot\"></div>\n")
	if e.Timestamp.Valid {
		fmt.Fprintf(b, "                <div class=\"timeline-time\">%s</div>\n", e.Timestamp.Clock(ClockPlaceholder))
	}
	b.WriteString("                <div class=\"timeline-content\">\n")

	typeClass := "step"
	switch e.Kind {
	case timeline.KindThink:
		typeClass = "think"
	case timeline.KindToolCall:
		typeClass = "tool"
	}
	label := kindLabels[e.Kind]
	if label == "" {
		label = string(e.Kind)
	}
	fmt.Fprintf(b, "                    <span class=\"event-type %s\">%s</span>\n", typeClass, escapeHTML.Replace(label))
	fmt.Fprintf(b, "                    <div class=\"event-description\">%s</div>\n", escapeHTML.Replace(e.Description))

	if e.Detail.ThinkInput != "" {
		writeThinking(b, "Think input", e.Detail.ThinkInput)
	}
	if e.Detail.ThinkOutput != "" {
		writeThinking(b, "Think output", e.Detail.ThinkOutput)
	}
	if e.Detail.Result != "" {
		b.WriteString("                    <div class=\"event-details\">\n")
		fmt.Fprintf(b, "                        <strong>Result:</strong> %s\n", escapeHTML.Replace(e.Detail.Result))
		b.WriteString("                    </div>\n")
	}

	b.WriteString("                </div>\n")
	b.WriteString("            </div>\n")
}

func writeThinking(b *strings.Builder, label, content string) {
	b.WriteString("                    <div class=\"thinking-process\">\n")
	fmt.Fprintf(b, "                        <div class=\"label\">%s</div>\n", label)
	fmt.Fprintf(b, "                        <div class=\"content\">%s</div>\n", escapeHTML.Replace(content))
	b.WriteString("                    </div>\n")
}
