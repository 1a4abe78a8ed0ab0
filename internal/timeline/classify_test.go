package timeline

import (
	"strings"
	"testing"

	"github.com/s22625/planwatch/internal/model"
)

func TestClassifyCategories(t *testing.T) {
	cases := []struct {
		result string
		want   Category
	}{
		{"File not found: /tmp/x", CategoryFileNotFound},
		{"no such file or directory", CategoryFileNotFound},
		{"validation failed on field id", CategoryValidation},
		{"Invalid input shape", CategoryValidation},
		{"request timeout after 30s", CategoryTimeout},
		{"permission denied", CategoryPermission},
		{"something exploded", CategoryUnknown},
		{"", CategoryUnknown},
	}

	for _, tc := range cases {
		got := Classify(model.ToolCall{Result: tc.result}, 1)
		if got.Category != tc.want {
			t.Fatalf("Classify(%q) = %s, want %s", tc.result, got.Category, tc.want)
		}
		if got.Suggestion != Suggestion(tc.want) {
			t.Fatalf("Classify(%q) suggestion = %q", tc.result, got.Suggestion)
		}
	}
}

func TestClassifyPrecedence(t *testing.T) {
	// First-match-wins: file_not_found outranks timeout.
	got := Classify(model.ToolCall{Result: "timeout while checking: file not found"}, 2)
	if got.Category != CategoryFileNotFound {
		t.Fatalf("category = %s, want file_not_found", got.Category)
	}
}

func TestClassifyScenario(t *testing.T) {
	tc := model.ToolCall{
		Name:   "fs-read-file-operator",
		Status: model.ToolError,
		Result: "File not found: /tmp/x",
	}
	got := Classify(tc, 2)

	if got.Step != 2 || got.Tool != "fs-read-file-operator" {
		t.Fatalf("report = %+v", got)
	}
	if got.Category != CategoryFileNotFound {
		t.Fatalf("category = %s, want file_not_found", got.Category)
	}
	if !strings.Contains(got.Suggestion, "file path") {
		t.Fatalf("suggestion = %q, want the file-path-check text", got.Suggestion)
	}
	if got.Message != "File not found: /tmp/x" {
		t.Fatalf("message = %q", got.Message)
	}
}

func TestClassifyMessageTruncated(t *testing.T) {
	long := strings.Repeat("e", 400)
	got := Classify(model.ToolCall{Result: long}, 1)
	if len([]rune(got.Message)) != DetailLimit+3 {
		t.Fatalf("message length = %d, want %d", len([]rune(got.Message)), DetailLimit+3)
	}
}

func TestAnalyzeSelection(t *testing.T) {
	snap := &model.Snapshot{Steps: []model.Step{
		{
			Index: 1,
			Turns: []model.Turn{{
				Number: 1,
				ToolCalls: []model.ToolCall{
					{Name: "fs-read-file-operator", Status: model.ToolSuccess, Result: "ok"},
					{Name: "fs-write-file-operator", Status: model.ToolFailure, Result: "permission denied"},
				},
			}},
		},
		{
			Index: 2,
			Turns: []model.Turn{{
				Number: 1,
				ToolCalls: []model.ToolCall{
					// Succeeded, but an error-reporting tool still
					// surfaces as a classified entry.
					{Name: "error-report-tool", Status: model.ToolSuccess, Result: "validation failure upstream"},
				},
			}},
		},
	}}

	reports := Analyze(snap)
	if len(reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(reports))
	}
	if reports[0].Step != 1 || reports[0].Category != CategoryPermission {
		t.Fatalf("first report = %+v", reports[0])
	}
	if reports[1].Step != 2 || reports[1].Category != CategoryValidation {
		t.Fatalf("second report = %+v", reports[1])
	}
}

func TestAnalyzeCleanSnapshot(t *testing.T) {
	snap := &model.Snapshot{Steps: []model.Step{{
		Index: 1,
		Turns: []model.Turn{{
			Number:    1,
			ToolCalls: []model.ToolCall{{Name: "fs-read-file-operator", Status: model.ToolSuccess}},
		}},
	}}}
	if got := Analyze(snap); len(got) != 0 {
		t.Fatalf("clean snapshot produced %d reports", len(got))
	}
}
