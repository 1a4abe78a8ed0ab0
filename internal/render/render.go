// Package render turns a normalized event timeline into static
// reports. Renderers are pure: identical input produces identical
// output, and missing optional fields degrade to placeholders rather
// than failures.
package render

import (
	"fmt"
	"time"

	"github.com/s22625/planwatch/internal/model"
	"github.com/s22625/planwatch/internal/timeline"
)

// ClockPlaceholder stands in for an absent event timestamp.
const ClockPlaceholder = "--:--:--"

// Meta is the snapshot-level context shown in report headers.
type Meta struct {
	PlanID      string
	Title       string
	Completed   bool
	Duration    time.Duration
	HasDuration bool
}

// MetaFromSnapshot extracts report metadata from a snapshot.
func MetaFromSnapshot(snap *model.Snapshot) Meta {
	meta := Meta{}
	if snap == nil {
		return meta
	}
	meta.PlanID = snap.PlanID()
	meta.Title = snap.Title
	meta.Completed = snap.Completed
	meta.Duration, meta.HasDuration = snap.Duration()
	return meta
}

// StatusText returns the completion label for the header line.
func (m Meta) StatusText() string {
	if m.Completed {
		return "Completed"
	}
	return "Running"
}

// statusIcons maps event severities to their display glyphs.
var statusIcons = map[timeline.Status]string{
	timeline.StatusInfo:     "📌",
	timeline.StatusRunning:  "🔄",
	timeline.StatusSuccess:  "✅",
	timeline.StatusWarning:  "⚠️",
	timeline.StatusError:    "🔥",
	timeline.StatusRecovery: "🔧",
}

func statusIcon(s timeline.Status) string {
	if icon, ok := statusIcons[s]; ok {
		return icon
	}
	return "📌"
}

// FormatDuration renders a duration as "12.3s" or "2m 3.5s".
func FormatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 60 {
		return fmt.Sprintf("%.1fs", secs)
	}
	mins := int(secs) / 60
	return fmt.Sprintf("%dm %.1fs", mins, secs-float64(mins*60))
}
