package cli

import (
	"fmt"
	"os"

	"github.com/s22625/planwatch/internal/model"
	"github.com/s22625/planwatch/internal/render"
	"github.com/s22625/planwatch/internal/timeline"
)

// Output formats
const (
	FormatConsole  = "console"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

func validateFormat(format string) error {
	switch format {
	case FormatConsole, FormatMarkdown, FormatHTML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want console|markdown|html)", format)
	}
}

// renderReport projects the normalized events into the requested
// format.
func renderReport(format string, events []timeline.Event, stats timeline.Stats, meta render.Meta) (string, error) {
	switch format {
	case FormatConsole:
		return render.ASCII(events, stats, meta), nil
	case FormatMarkdown:
		return render.Markdown(events, stats, meta), nil
	case FormatHTML:
		return render.HTML(events, stats, meta), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

// writeReport sends the rendered report to a file or stdout.
func writeReport(content, outputFile string) error {
	if outputFile == "" {
		fmt.Println(content)
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if !globalOpts.Quiet {
		fmt.Printf("✅ Report saved to %s\n", outputFile)
	}
	return nil
}

// printErrorAnalysis lists classified tool-call failures with their
// remediation hints.
func printErrorAnalysis(snap *model.Snapshot) {
	reports := timeline.Analyze(snap)
	if len(reports) == 0 {
		return
	}
	fmt.Println("\n⚠️  Errors detected:")
	for _, r := range reports {
		fmt.Printf("  step %d - %s: %s\n", r.Step, r.Tool, r.Category)
		if r.Message != "" {
			fmt.Printf("    message: %s\n", timeline.Truncate(r.Message, 100))
		}
		fmt.Printf("    suggestion: %s\n", r.Suggestion)
	}
}
