package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/s22625/planwatch/internal/monitor"
	"github.com/s22625/planwatch/internal/timeline"
)

var feedSpinner = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var feedIcons = map[timeline.Kind]string{
	timeline.KindStepStart: "📍",
	timeline.KindStepEnd:   "🏁",
	timeline.KindThink:     "💭",
	timeline.KindToolCall:  "🔧",
}

// consoleFeed prints monitor events and a same-line progress bar to
// the terminal, the plain (non-dashboard) live view.
type consoleFeed struct {
	spinnerIdx int
	lineDirty  bool
}

func (f *consoleFeed) onEvent(e timeline.Event) {
	f.clearLine()

	icon := feedIcons[e.Kind]
	if icon == "" {
		icon = "📌"
	}
	fmt.Printf("%s [%s] %s\n", icon, e.Timestamp.Clock("--:--:--"), e.Description)

	if e.Detail.ThinkInput != "" {
		fmt.Printf("   🤔 think: %s\n", timeline.Truncate(e.Detail.ThinkInput, 100))
	}
	if e.Detail.ThinkOutput != "" {
		fmt.Printf("   💡 output: %s\n", timeline.Truncate(e.Detail.ThinkOutput, 100))
	}
	if e.Detail.Result != "" {
		fmt.Printf("   📄 result: %s\n", timeline.Truncate(e.Detail.Result, 100))
	}
}

func (f *consoleFeed) onProgress(p monitor.Progress) {
	spinner := feedSpinner[f.spinnerIdx%len(feedSpinner)]
	f.spinnerIdx++

	barWidth := 20
	filled := barWidth * p.Percent / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	fmt.Fprintf(os.Stdout, "\r%s [%s] %3d%% │ steps %d │ tools %d │ errors %d │ %.1fs ",
		spinner, bar, p.Percent, p.Steps, p.Stats.ToolCalls, p.Stats.Errors, p.Elapsed.Seconds())
	f.lineDirty = true
}

// clearLine ends a pending progress line before regular output.
func (f *consoleFeed) clearLine() {
	if f.lineDirty {
		fmt.Println()
		f.lineDirty = false
	}
}

// finish prints the terminal-state summary for a finished session.
func (f *consoleFeed) finish(res *monitor.Result) {
	f.clearLine()
	switch res.State {
	case monitor.StateCompleted:
		fmt.Printf("✅ Plan completed in %.1fs │ steps: %d\n", res.Elapsed.Seconds(), res.Stats.Steps)
	case monitor.StateTimedOut:
		fmt.Printf("⚠️  Monitor timed out after %.1fs; partial timeline kept (%d events)\n", res.Elapsed.Seconds(), len(res.Events))
	case monitor.StateCancelled:
		fmt.Printf("⚠️  Monitor cancelled; partial timeline kept (%d events)\n", len(res.Events))
	case monitor.StateFailed:
		fmt.Printf("❌ Monitor failed: %v\n", res.Err)
	}
}
