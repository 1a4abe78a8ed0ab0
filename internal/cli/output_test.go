package cli

import (
	"strings"
	"testing"

	"github.com/s22625/planwatch/internal/render"
	"github.com/s22625/planwatch/internal/timeline"
)

func TestValidateFormat(t *testing.T) {
	for _, format := range []string{FormatConsole, FormatMarkdown, FormatHTML} {
		if err := validateFormat(format); err != nil {
			t.Fatalf("validateFormat(%q) = %v", format, err)
		}
	}
	if err := validateFormat("pdf"); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
	if err := validateFormat(""); err == nil {
		t.Fatal("expected an error for an empty format")
	}
}

func TestRenderReport(t *testing.T) {
	events := []timeline.Event{{
		Kind:        timeline.KindStepStart,
		Description: "Step 1: Read input",
		Status:      timeline.StatusRunning,
	}}
	stats := timeline.Stats{Steps: 1}
	meta := render.Meta{PlanID: "plan-123"}

	console, err := renderReport(FormatConsole, events, stats, meta)
	if err != nil || !strings.Contains(console, "╔") {
		t.Fatalf("console render = %v, %q", err, console)
	}

	md, err := renderReport(FormatMarkdown, events, stats, meta)
	if err != nil || !strings.HasPrefix(md, "# Agent Execution Report") {
		t.Fatalf("markdown render = %v, %q", err, md)
	}

	html, err := renderReport(FormatHTML, events, stats, meta)
	if err != nil || !strings.HasPrefix(html, "<!DOCTYPE html>") {
		t.Fatalf("html render = %v", err)
	}

	if _, err := renderReport("pdf", events, stats, meta); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}
