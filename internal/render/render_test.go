package render

import (
	"strings"
	"testing"
	"time"

	"github.com/s22625/planwatch/internal/model"
	"github.com/s22625/planwatch/internal/timeline"
)

func sampleEvents() []timeline.Event {
	at := func(s int) model.Instant {
		return model.InstantOf(time.Date(2026, 1, 21, 12, 0, s, 0, time.UTC))
	}
	return []timeline.Event{
		{
			Kind:        timeline.KindStepStart,
			Timestamp:   at(0),
			Description: "Step 1: Read input",
			Status:      timeline.StatusRunning,
		},
		{
			Kind:        timeline.KindThink,
			Timestamp:   at(0),
			Description: "Thinking (turn 1)",
			Status:      timeline.StatusInfo,
			Detail:      timeline.Detail{ThinkInput: "need the file | with <markup>"},
		},
		{
			Kind:        timeline.KindToolCall,
			Timestamp:   at(1),
			Description: "Tool call: fs-read-file-operator",
			Status:      timeline.StatusError,
			Detail: timeline.Detail{
				ToolName: "fs-read-file-operator",
				Result:   "<script>alert('x')</script> & more",
			},
		},
		{
			Kind:        timeline.KindStepEnd,
			Timestamp:   at(2),
			Description: "Step 1 completed",
			Status:      timeline.StatusSuccess,
		},
	}
}

func sampleMeta() Meta {
	return Meta{
		PlanID:      "plan-123",
		Title:       "Data repair",
		Completed:   true,
		Duration:    2 * time.Second,
		HasDuration: true,
	}
}

func sampleStats() timeline.Stats {
	return timeline.Stats{Steps: 1, Thinks: 1, ToolCalls: 1, Errors: 1}
}

func TestRenderersDeterministic(t *testing.T) {
	events, stats, meta := sampleEvents(), sampleStats(), sampleMeta()

	renderers := map[string]func([]timeline.Event, timeline.Stats, Meta) string{
		"ascii":    ASCII,
		"markdown": Markdown,
		"html":     HTML,
	}
	for name, fn := range renderers {
		if fn(events, stats, meta) != fn(events, stats, meta) {
			t.Fatalf("%s renderer is not deterministic", name)
		}
	}
}

func TestASCIIFrame(t *testing.T) {
	out := ASCII(sampleEvents(), sampleStats(), sampleMeta())

	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[0], "╔") || !strings.HasPrefix(lines[len(lines)-1], "╚") {
		t.Fatalf("frame edges missing:\n%s", out)
	}
	if !strings.Contains(out, "Plan: plan-123") {
		t.Fatalf("header missing plan id:\n%s", out)
	}
	if !strings.Contains(out, "2.0s") {
		t.Fatal("header missing duration")
	}
	if !strings.Contains(out, "Step 1: Read input") {
		t.Fatal("step description missing")
	}
	if !strings.Contains(out, "💭 think:") || !strings.Contains(out, "📄 result:") {
		t.Fatal("detail lines missing")
	}
}

func TestASCIIEventOrderPreserved(t *testing.T) {
	out := ASCII(sampleEvents(), sampleStats(), sampleMeta())
	first := strings.Index(out, "Step 1: Read input")
	mid := strings.Index(out, "Tool call: fs-read-file-operator")
	last := strings.Index(out, "Step 1 completed")
	if !(first < mid && mid < last) {
		t.Fatalf("event order not preserved: %d %d %d", first, mid, last)
	}
}

func TestASCIIEmpty(t *testing.T) {
	out := ASCII(nil, timeline.Stats{}, Meta{})
	if out != "📭 No recorded events" {
		t.Fatalf("empty render = %q", out)
	}
}

func TestASCIIPlaceholderClock(t *testing.T) {
	events := []timeline.Event{{
		Kind:        timeline.KindThink,
		Description: "Thinking (turn 1)",
		Status:      timeline.StatusInfo,
	}}
	out := ASCII(events, timeline.Stats{Thinks: 1}, Meta{})
	if !strings.Contains(out, ClockPlaceholder) {
		t.Fatalf("absent timestamp should render as %s:\n%s", ClockPlaceholder, out)
	}
}

func TestMarkdownTable(t *testing.T) {
	out := Markdown(sampleEvents(), sampleStats(), sampleMeta())

	if !strings.Contains(out, "| Time | Event | Status | Detail |") {
		t.Fatalf("table header missing:\n%s", out)
	}
	if !strings.Contains(out, "- Steps: 1") || !strings.Contains(out, "- Errors: 1") {
		t.Fatal("statistics block missing")
	}
	// Pipe inside detail text must be escaped or the table breaks.
	if !strings.Contains(out, `need the file \| with`) {
		t.Fatalf("pipe not escaped in cell:\n%s", out)
	}
	if !strings.Contains(out, "| 12:00:01 |") {
		t.Fatal("event time missing from table")
	}
}

func TestMarkdownEmptyDetailCell(t *testing.T) {
	events := []timeline.Event{{
		Kind:        timeline.KindStepEnd,
		Timestamp:   model.InstantOf(time.Date(2026, 1, 21, 12, 0, 2, 0, time.UTC)),
		Description: "Step 1 completed",
		Status:      timeline.StatusSuccess,
	}}
	out := Markdown(events, timeline.Stats{Steps: 1}, Meta{})
	if !strings.Contains(out, "| 12:00:02 | Step 1 completed | ✅ success |  |") {
		t.Fatalf("empty detail should be an empty cell:\n%s", out)
	}
}

func TestHTMLEscaping(t *testing.T) {
	out := HTML(sampleEvents(), sampleStats(), sampleMeta())

	if strings.Contains(out, "<script>alert") {
		t.Fatal("tool result embedded unescaped")
	}
	if !strings.Contains(out, "&lt;script&gt;alert(&#39;x&#39;)&lt;/script&gt; &amp; more") {
		t.Fatalf("escaped result missing:\n%s", out)
	}
}

func TestHTMLDocumentShape(t *testing.T) {
	out := HTML(sampleEvents(), sampleStats(), sampleMeta())

	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Fatal("missing doctype")
	}
	if !strings.Contains(out, "<style>") {
		t.Fatal("missing inline styles")
	}
	if strings.Contains(out, "<link") || strings.Contains(out, "src=\"http") {
		t.Fatal("document should have no external assets")
	}
	if !strings.Contains(out, "plan-123 · Completed · 2.0s") {
		t.Fatalf("subtitle missing:\n%s", out)
	}
	for _, label := range []string{"Steps", "Thinks", "Tool calls", "Errors", "Recoveries"} {
		if !strings.Contains(out, ">"+label+"<") {
			t.Fatalf("stat card %q missing", label)
		}
	}
	if !strings.Contains(out, "timeline-item error") {
		t.Fatal("error event missing its item class")
	}
}

func TestHTMLNoDetailBlockForEmptyResult(t *testing.T) {
	events := []timeline.Event{{
		Kind:        timeline.KindToolCall,
		Timestamp:   model.InstantOf(time.Date(2026, 1, 21, 12, 0, 1, 0, time.UTC)),
		Description: "Tool call: tool",
		Status:      timeline.StatusSuccess,
		Detail:      timeline.Detail{ToolName: "tool"},
	}}
	out := HTML(events, timeline.Stats{ToolCalls: 1}, Meta{})
	if strings.Contains(out, "event-details") {
		t.Fatal("empty result should not produce a details block")
	}
}

func TestMetaFromSnapshot(t *testing.T) {
	if got := MetaFromSnapshot(nil); got != (Meta{}) {
		t.Fatalf("nil snapshot meta = %+v", got)
	}

	snap := &model.Snapshot{
		RootPlanID: "plan-root",
		Title:      "Data repair",
		Completed:  false,
	}
	meta := MetaFromSnapshot(snap)
	if meta.PlanID != "plan-root" || meta.Title != "Data repair" {
		t.Fatalf("meta = %+v", meta)
	}
	if meta.HasDuration {
		t.Fatal("snapshot without instants should have no duration")
	}
	if meta.StatusText() != "Running" {
		t.Fatalf("status = %q, want Running", meta.StatusText())
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{1500 * time.Millisecond, "1.5s"},
		{12300 * time.Millisecond, "12.3s"},
		{123500 * time.Millisecond, "2m 3.5s"},
		{0, "0.0s"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.d); got != tc.want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
