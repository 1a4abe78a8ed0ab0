package timeline

import (
	"fmt"

	"github.com/s22625/planwatch/internal/model"
)

// Kind identifies what a timeline event describes.
type Kind string

const (
	KindStepStart Kind = "step_start"
	KindStepEnd   Kind = "step_end"
	KindThink     Kind = "think"
	KindToolCall  Kind = "tool_call"
)

// Status is the severity tag attached to an event.
type Status string

const (
	StatusInfo     Status = "info"
	StatusRunning  Status = "running"
	StatusSuccess  Status = "success"
	StatusWarning  Status = "warning"
	StatusError    Status = "error"
	StatusRecovery Status = "recovery"
)

// Detail is the small payload carried by an event. Text fields are
// already truncated to DetailLimit runes; the full text stays on the
// raw record only.
type Detail struct {
	ThinkInput  string
	ThinkOutput string
	ToolName    string
	Result      string
}

// DetailLimit caps each detail text field.
const DetailLimit = 200

// Event is one normalized, renderer-facing occurrence derived from a
// snapshot. Events are value objects produced fresh on every
// normalization pass and never mutated after emission.
//
// Think and tool-call events inherit their step's start instant: the
// backend records no per-turn timing, so ordering resolution inside a
// step is limited to emission order. Renderers must not present this
// as turn-level timing precision.
type Event struct {
	Kind        Kind
	Timestamp   model.Instant
	Description string
	Status      Status
	Detail      Detail
}

func (e Event) String() string {
	return fmt.Sprintf("[%s] %s", e.Kind, e.Description)
}

// Stats summarizes one normalization pass, counted from the emitted
// events.
type Stats struct {
	Steps      int
	Thinks     int
	ToolCalls  int
	Errors     int
	Recoveries int
}
