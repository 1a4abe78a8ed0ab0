package timeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/s22625/planwatch/internal/model"
)

// Truncate limits s to max runes, appending "..." when anything was
// cut. Truncating an already-short string is a no-op.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// stepName derives a short display name from the step's raw goal
// text: the portion of the first line before the first colon.
// Goals without a colon fall back to "Step <n>".
func stepName(goal string, index int) string {
	line := goal
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if i := strings.IndexByte(line, ':'); i >= 0 {
		if name := strings.TrimSpace(line[:i]); name != "" {
			return name
		}
	}
	return fmt.Sprintf("Step %d", index)
}

// StepDisplayName is the short name used for a step in progress
// lines and reports.
func StepDisplayName(step model.Step) string {
	return stepName(step.Goal, step.Index)
}

// toolStatus resolves the event status for a tool call. Repair/fix
// tools surface as recovery regardless of outcome, and error-named
// tools surface as error even when the reporting call itself
// succeeded.
func toolStatus(tc model.ToolCall) Status {
	name := strings.ToLower(tc.Name)
	switch {
	case strings.Contains(name, "repair") || strings.Contains(name, "fix"):
		return StatusRecovery
	case strings.Contains(name, "error"):
		return StatusError
	case tc.Status == model.ToolSuccess:
		return StatusSuccess
	default:
		return StatusError
	}
}

// Normalize flattens one snapshot into a time-ordered event sequence
// plus derived statistics. It is pure and idempotent: the same
// snapshot always yields the same events, so repeated polls can be
// diffed by event count alone.
//
// Steps that have neither started nor ended are invisible: they emit
// no events until the backend fills in a timestamp.
func Normalize(snap *model.Snapshot) ([]Event, Stats) {
	var events []Event

	for _, step := range snap.Steps {
		if !step.StartTime.Valid && !step.EndTime.Valid {
			continue
		}

		if step.StartTime.Valid {
			events = append(events, Event{
				Kind:        KindStepStart,
				Timestamp:   step.StartTime,
				Description: fmt.Sprintf("Step %d: %s", step.Index, stepName(step.Goal, step.Index)),
				Status:      StatusRunning,
			})
		}

		for _, turn := range step.Turns {
			if turn.ThinkInput != "" || turn.ThinkOutput != "" {
				events = append(events, Event{
					Kind:        KindThink,
					Timestamp:   step.StartTime,
					Description: fmt.Sprintf("Thinking (turn %d)", turn.Number),
					Status:      StatusInfo,
					Detail: Detail{
						ThinkInput:  Truncate(turn.ThinkInput, DetailLimit),
						ThinkOutput: Truncate(turn.ThinkOutput, DetailLimit),
					},
				})
			}

			for _, tc := range turn.ToolCalls {
				events = append(events, Event{
					Kind:        KindToolCall,
					Timestamp:   step.StartTime,
					Description: fmt.Sprintf("Tool call: %s", tc.Name),
					Status:      toolStatus(tc),
					Detail: Detail{
						ToolName: tc.Name,
						Result:   Truncate(tc.Result, DetailLimit),
					},
				})
			}
		}

		if step.EndTime.Valid {
			status := StatusError
			if step.Finished() {
				status = StatusSuccess
			}
			events = append(events, Event{
				Kind:        KindStepEnd,
				Timestamp:   step.EndTime,
				Description: fmt.Sprintf("Step %d completed", step.Index),
				Status:      status,
			})
		}
	}

	// Absent timestamps sort first; the stable sort keeps emission
	// order for ties, which is what makes count-based deltas safe.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	return events, countStats(events)
}

func countStats(events []Event) Stats {
	var stats Stats
	for _, e := range events {
		switch e.Kind {
		case KindStepStart:
			stats.Steps++
		case KindThink:
			stats.Thinks++
		case KindToolCall:
			stats.ToolCalls++
		}
		switch e.Status {
		case StatusError:
			stats.Errors++
		case StatusRecovery:
			stats.Recoveries++
		}
	}
	return stats
}
