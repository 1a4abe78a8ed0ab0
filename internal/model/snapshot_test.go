package model

import (
	"encoding/json"
	"testing"
	"time"
)

const sampleRecord = `{
	"currentPlanId": "plan-123",
	"rootPlanId": "plan-root",
	"title": "Data repair",
	"completed": true,
	"agentExecutionSequence": [
		{
			"currentStep": 1,
			"agentRequest": "Read input: load the corrupted file",
			"agentName": "worker",
			"status": "FINISHED",
			"startTime": [2026, 1, 21, 12, 0, 0, 0],
			"endTime": "2026-01-21T12:00:02",
			"thinkActSteps": [
				{
					"turnNumber": 1,
					"thinkInput": "need to read the file",
					"thinkOutput": "",
					"actToolInfoList": [
						{
							"toolName": "fs-read-file-operator",
							"parameters": "{\"path\":\"/tmp/x\"}",
							"result": "ok",
							"toolExecuteStatus": "success"
						}
					]
				}
			]
		},
		{
			"currentStep": 2,
			"agentRequest": "Repair data",
			"status": "RUNNING",
			"startTime": [2026, 1, 21, 12, 0, 3, 0],
			"thinkActSteps": []
		}
	]
}`

func TestSnapshotDecode(t *testing.T) {
	var snap Snapshot
	if err := json.Unmarshal([]byte(sampleRecord), &snap); err != nil {
		t.Fatalf("decoding snapshot: %v", err)
	}

	if snap.PlanID() != "plan-123" {
		t.Fatalf("PlanID = %q, want plan-123", snap.PlanID())
	}
	if !snap.Completed {
		t.Fatal("expected completed snapshot")
	}
	if len(snap.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(snap.Steps))
	}

	first := snap.Steps[0]
	if first.Index != 1 || !first.Finished() {
		t.Fatalf("first step = %+v", first)
	}
	if !first.StartTime.Valid || !first.EndTime.Valid {
		t.Fatal("first step should carry both instants")
	}
	if len(first.Turns) != 1 || len(first.Turns[0].ToolCalls) != 1 {
		t.Fatalf("first step turns = %+v", first.Turns)
	}
	if got := first.Turns[0].ToolCalls[0].Status; got != ToolSuccess {
		t.Fatalf("tool status = %q, want success", got)
	}

	second := snap.Steps[1]
	if !second.Running() {
		t.Fatal("second step should be running")
	}
}

func TestSnapshotPlanIDFallback(t *testing.T) {
	snap := Snapshot{RootPlanID: "plan-root"}
	if snap.PlanID() != "plan-root" {
		t.Fatalf("PlanID = %q, want plan-root", snap.PlanID())
	}
}

func TestParseToolStatus(t *testing.T) {
	if ParseToolStatus("success") != ToolSuccess {
		t.Fatal("success should parse as success")
	}
	if ParseToolStatus("ERROR") != ToolError {
		t.Fatal("ERROR should parse as error")
	}
	if ParseToolStatus("weird") != ToolFailure {
		t.Fatal("unrecognized status should be failure")
	}
	if ParseToolStatus("") != ToolFailure {
		t.Fatal("empty status should be failure")
	}
}

func TestSnapshotDuration(t *testing.T) {
	var snap Snapshot
	if err := json.Unmarshal([]byte(sampleRecord), &snap); err != nil {
		t.Fatalf("decoding snapshot: %v", err)
	}

	// Only step 1 has an end; span is its start to its end.
	d, ok := snap.Duration()
	if !ok {
		t.Fatal("expected a duration")
	}
	if d != 2*time.Second {
		t.Fatalf("duration = %v, want 2s", d)
	}
}

func TestSnapshotDurationAbsent(t *testing.T) {
	if _, ok := (&Snapshot{}).Duration(); ok {
		t.Fatal("empty snapshot should have no duration")
	}

	snap := Snapshot{Steps: []Step{{Index: 1}}}
	if _, ok := snap.Duration(); ok {
		t.Fatal("snapshot without instants should have no duration")
	}
}

func TestStepDuration(t *testing.T) {
	step := Step{
		StartTime: InstantOf(time.Date(2026, 1, 21, 12, 0, 0, 0, time.UTC)),
		EndTime:   InstantOf(time.Date(2026, 1, 21, 12, 0, 5, 0, time.UTC)),
	}
	d, ok := step.StepDuration()
	if !ok || d != 5*time.Second {
		t.Fatalf("StepDuration = %v, %v", d, ok)
	}

	step.EndTime = Instant{}
	if _, ok := step.StepDuration(); ok {
		t.Fatal("open step should have no duration")
	}
}
