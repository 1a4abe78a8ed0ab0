package model

import (
	"strings"
	"time"
)

// StepFinished is the backend's completion marker for a step status.
const StepFinished = "FINISHED"

// ToolStatus is the tri-state outcome of a tool call.
type ToolStatus string

const (
	ToolSuccess ToolStatus = "success"
	ToolFailure ToolStatus = "failure"
	ToolError   ToolStatus = "error"
)

// ParseToolStatus maps a wire status string to a ToolStatus.
// Unrecognized values are treated as failure.
func ParseToolStatus(s string) ToolStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "success":
		return ToolSuccess
	case "error":
		return ToolError
	default:
		return ToolFailure
	}
}

// UnmarshalJSON decodes a wire status string through ParseToolStatus.
func (ts *ToolStatus) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		s = ""
	}
	*ts = ParseToolStatus(s)
	return nil
}

// Snapshot is one fetched point-in-time view of a plan execution
// (wire: PlanExecutionRecord). Snapshots are immutable once fetched;
// a later poll supersedes them entirely.
type Snapshot struct {
	CurrentPlanID string  `json:"currentPlanId"`
	RootPlanID    string  `json:"rootPlanId"`
	Title         string  `json:"title"`
	Completed     bool    `json:"completed"`
	StartTime     Instant `json:"startTime"`
	EndTime       Instant `json:"endTime"`
	Steps         []Step  `json:"agentExecutionSequence"`
}

// PlanID returns the current plan id, falling back to the root plan
// id for older records.
func (s *Snapshot) PlanID() string {
	if s.CurrentPlanID != "" {
		return s.CurrentPlanID
	}
	return s.RootPlanID
}

// Duration is the span from the first step's start to the latest step
// end observed anywhere in the sequence. Steps may finish out of
// wall-clock order, so every end is considered. ok is false while no
// such span exists yet.
func (s *Snapshot) Duration() (time.Duration, bool) {
	if len(s.Steps) == 0 {
		return 0, false
	}
	start := s.Steps[0].StartTime
	if !start.Valid {
		return 0, false
	}
	var end Instant
	for _, step := range s.Steps {
		if step.EndTime.Valid && (!end.Valid || step.EndTime.Time.After(end.Time)) {
			end = step.EndTime
		}
	}
	if !end.Valid {
		return 0, false
	}
	return end.Time.Sub(start.Time), true
}

// Step is one agent step within a plan (wire: AgentExecutionRecord).
// Step indexes are 1-based and stable across polls: the backend only
// appends steps and fills in fields, it never removes or reorders.
type Step struct {
	Index     int     `json:"currentStep"`
	Goal      string  `json:"agentRequest"`
	AgentName string  `json:"agentName"`
	Status    string  `json:"status"`
	StartTime Instant `json:"startTime"`
	EndTime   Instant `json:"endTime"`
	Turns     []Turn  `json:"thinkActSteps"`
}

// Running reports whether the step has started but not ended.
func (s *Step) Running() bool {
	return s.StartTime.Valid && !s.EndTime.Valid
}

// Finished reports whether the step carries the completion marker.
func (s *Step) Finished() bool {
	return s.Status == StepFinished
}

// StepDuration is the step's own start-to-end span; ok is false while
// either bound is missing.
func (s *Step) StepDuration() (time.Duration, bool) {
	if !s.StartTime.Valid || !s.EndTime.Valid {
		return 0, false
	}
	return s.EndTime.Time.Sub(s.StartTime.Time), true
}

// Turn is one reasoning cycle inside a step (wire: ThinkActRecord).
// Turns do not carry their own start instant on the wire; RecordTime
// is a write timestamp and is not reliable for ordering.
type Turn struct {
	Number      int        `json:"turnNumber"`
	ThinkInput  string     `json:"thinkInput"`
	ThinkOutput string     `json:"thinkOutput"`
	RecordTime  Instant    `json:"recordTime"`
	ToolCalls   []ToolCall `json:"actToolInfoList"`
}

// ToolCall is one tool invocation within a turn (wire: ActToolInfo).
type ToolCall struct {
	Name   string     `json:"toolName"`
	Args   string     `json:"parameters"`
	Result string     `json:"result"`
	Status ToolStatus `json:"toolExecuteStatus"`
}
