package view

import "testing"

func TestToolCallMatchingSafeIndicesAlwaysFull(t *testing.T) {
	events := []Event{
		ActionEvent{ID: "e0", ToolCallID: "t1"},
	}
	got := ToolCallMatchingProperty{}.SafeIndices(events).indices()
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Fatalf("SafeIndices = %v, want full [0 1]", got)
	}
}

func TestToolCallMatchingValidate_DropsOrphanedAction(t *testing.T) {
	events := []Event{
		ActionEvent{ID: "e0", ToolCallID: "t1"},
		ActionEvent{ID: "e1", ToolCallID: "t2"},
		ObservationEvent{ID: "e2", ToolCallID: "t1"},
	}
	got := ToolCallMatchingProperty{}.Validate(nil, events)
	if len(got) != 2 {
		t.Fatalf("expected orphaned action t2 dropped, got %v", got)
	}
	for _, e := range got {
		if a, ok := asAction(e); ok && a.ToolCallID == "t2" {
			t.Fatalf("orphaned action t2 survived: %v", got)
		}
	}
}

func TestToolCallMatchingValidate_DropsOrphanedObservation(t *testing.T) {
	events := []Event{
		ActionEvent{ID: "e0", ToolCallID: "t1"},
		ObservationEvent{ID: "e1", ToolCallID: "t1"},
		ObservationEvent{ID: "e2", ToolCallID: "t2"},
	}
	got := ToolCallMatchingProperty{}.Validate(nil, events)
	if len(got) != 2 {
		t.Fatalf("expected orphaned observation t2 dropped, got %v", got)
	}
}

func TestUnmatchedToolCallIDs(t *testing.T) {
	events := []Event{
		ActionEvent{ID: "e0", ToolCallID: "t1"},
		ObservationEvent{ID: "e1", ToolCallID: "t2"},
	}
	got := unmatchedToolCallIDs(events)
	if len(got) != 2 {
		t.Fatalf("unmatchedToolCallIDs = %v, want 2 entries", got)
	}
}
