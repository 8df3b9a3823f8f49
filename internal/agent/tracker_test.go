package agent

import (
	"testing"

	"github.com/unitwise/unitwise/pkg/Logger"
)

func TestTrackStepIdempotent(t *testing.T) {
	tr := NewTracker(Logger.New(true))
	step := Step{
		ID: "step-1",
		ToolCalls: []ToolCallRecord{
			{Tool: "feet_to_meters", CallID: "call-1"},
		},
	}

	if !tr.TrackStep(step) {
		t.Fatal("first TrackStep should record")
	}
	if tr.TrackStep(step) {
		t.Fatal("duplicate TrackStep should be a no-op")
	}

	st := tr.State()
	if st.ToolCallCount != 1 {
		t.Errorf("tool call count = %d, want 1", st.ToolCallCount)
	}
	if len(tr.Steps()) != 1 {
		t.Errorf("steps recorded = %d, want 1", len(tr.Steps()))
	}
}

func TestTrackStepDistinctIDs(t *testing.T) {
	tr := NewTracker(Logger.New(true))
	tr.TrackStep(Step{ID: "a", ToolCalls: []ToolCallRecord{{Tool: "celsius_to_fahrenheit"}}})
	tr.TrackStep(Step{ID: "b", ToolCalls: []ToolCallRecord{{Tool: "fahrenheit_to_celsius"}}})

	st := tr.State()
	if st.ToolCallCount != 2 {
		t.Errorf("tool call count = %d, want 2", st.ToolCallCount)
	}
	if st.CurrentTool != "fahrenheit_to_celsius" {
		t.Errorf("current tool = %q", st.CurrentTool)
	}
}

func TestRecordError(t *testing.T) {
	tr := NewTracker(Logger.New(true))
	tr.RecordError("Celsius is required")

	st := tr.State()
	if !st.HasErrors || len(st.Errors) != 1 {
		t.Fatalf("state = %+v", st)
	}
	if st.Errors[0] != "Celsius is required" {
		t.Errorf("error = %q", st.Errors[0])
	}
}

func TestStateSnapshotIsolation(t *testing.T) {
	tr := NewTracker(Logger.New(true))
	tr.TrackStep(Step{ID: "a", ToolCalls: []ToolCallRecord{{Tool: "meters_to_feet"}}})

	snap := tr.State()
	snap.ToolCallsMade[0].Tool = "mutated"

	if tr.State().ToolCallsMade[0].Tool != "meters_to_feet" {
		t.Error("snapshot mutation leaked into tracker state")
	}
}
