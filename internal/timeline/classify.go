package timeline

import (
	"strings"

	"github.com/s22625/planwatch/internal/model"
)

// Category is a coarse failure classification derived from a tool
// call's result text.
type Category string

const (
	CategoryFileNotFound Category = "file_not_found"
	CategoryValidation   Category = "validation_error"
	CategoryTimeout      Category = "timeout"
	CategoryPermission   Category = "permission_error"
	CategoryUnknown      Category = "unknown_error"
)

// suggestions maps each category to a fixed remediation hint.
var suggestions = map[Category]string{
	CategoryFileNotFound: "Check that the file path is correct and the file exists",
	CategoryValidation:   "Check that the input data matches the expected format",
	CategoryTimeout:      "Increase the timeout or check network connectivity",
	CategoryPermission:   "Check file permission settings",
	CategoryUnknown:      "Inspect the error details",
}

// Suggestion returns the remediation hint for a category.
func Suggestion(c Category) string {
	if s, ok := suggestions[c]; ok {
		return s
	}
	return suggestions[CategoryUnknown]
}

// ErrorReport is one classified tool-call failure.
type ErrorReport struct {
	Step       int
	Tool       string
	Category   Category
	Message    string
	Suggestion string
}

// classifiable reports whether a tool call should surface as an
// error entry: any non-success outcome, plus successful calls to
// error-reporting tools, which represent a detected fault even though
// the reporting call itself succeeded.
func classifiable(tc model.ToolCall) bool {
	return tc.Status != model.ToolSuccess ||
		strings.Contains(strings.ToLower(tc.Name), "error")
}

// classifyText assigns a category by first-match over the lowered
// result text. Order matters: a result mentioning both a missing file
// and a timeout is a file_not_found.
func classifyText(result string) Category {
	lower := strings.ToLower(result)
	switch {
	case strings.Contains(lower, "file not found") || strings.Contains(lower, "no such file"):
		return CategoryFileNotFound
	case strings.Contains(lower, "validation") || strings.Contains(lower, "invalid"):
		return CategoryValidation
	case strings.Contains(lower, "timeout"):
		return CategoryTimeout
	case strings.Contains(lower, "permission"):
		return CategoryPermission
	default:
		return CategoryUnknown
	}
}

// Classify builds an error report for a single tool call.
func Classify(tc model.ToolCall, step int) ErrorReport {
	category := classifyText(tc.Result)
	return ErrorReport{
		Step:       step,
		Tool:       tc.Name,
		Category:   category,
		Message:    Truncate(tc.Result, DetailLimit),
		Suggestion: Suggestion(category),
	}
}

// Analyze sweeps a snapshot for classifiable tool calls and reports
// them in step order.
func Analyze(snap *model.Snapshot) []ErrorReport {
	var reports []ErrorReport
	for _, step := range snap.Steps {
		for _, turn := range step.Turns {
			for _, tc := range turn.ToolCalls {
				if classifiable(tc) {
					reports = append(reports, Classify(tc, step.Index))
				}
			}
		}
	}
	return reports
}
