package view

import (
	"errors"
	"testing"
)

func TestBuildView_ScenarioA_PassesThroughUnchanged(t *testing.T) {
	events := []Event{
		SystemEvent{ID: "e0"},
		ActionEvent{ID: "e1", LlmResponseID: "b1", ToolCallID: "t1"},
		ActionEvent{ID: "e2", LlmResponseID: "b1", ToolCallID: "t2"},
		ObservationEvent{ID: "e3", ToolCallID: "t1"},
		ObservationEvent{ID: "e4", ToolCallID: "t2"},
		SystemEvent{ID: "e5"},
	}
	v, err := BuildView(events)
	if err != nil {
		t.Fatalf("BuildView returned error: %v", err)
	}
	if len(v.Validated) != len(events) {
		t.Fatalf("Validated = %v, want all %d events retained", v.Validated, len(events))
	}
	if v.UnhandledCondensationRequest {
		t.Fatalf("expected no unhandled condensation request")
	}
	if v.MostRecentSummary != nil {
		t.Fatalf("expected no summary, got %v", *v.MostRecentSummary)
	}
}

func TestBuildView_DropsOrphanAndAppliesCondensation(t *testing.T) {
	events := []Event{
		SystemEvent{ID: "sys"},
		MessageEvent{ID: "m1", Source: SourceUser, Content: "please do X"},
		ActionEvent{ID: "a1", LlmResponseID: "b1", ToolCallID: "t1"},
		ObservationEvent{ID: "o1", ToolCallID: "t1"},
		ActionEvent{ID: "a2", LlmResponseID: "b2", ToolCallID: "t2"}, // orphan: no matching observation
		Condensation{
			ID:            "c1",
			ForgottenIDs:  map[EventId]struct{}{"m1": {}, "a1": {}, "o1": {}},
			Summary:       "did X",
			SummaryOffset: 1,
		},
	}

	v, err := BuildView(events)
	if err != nil {
		t.Fatalf("BuildView returned error: %v", err)
	}
	for _, e := range v.Validated {
		if isMetaEvent(e) {
			t.Fatalf("meta-event survived validation: %v", e)
		}
		if a, ok := asAction(e); ok && a.ToolCallID == "t2" {
			t.Fatalf("orphaned action survived validation: %v", a)
		}
	}
	if v.MostRecentSummary == nil || *v.MostRecentSummary != "did X" {
		t.Fatalf("MostRecentSummary = %v, want \"did X\"", v.MostRecentSummary)
	}
}

func TestBuildView_StrictModeRejectsOrphan(t *testing.T) {
	events := []Event{
		ActionEvent{ID: "a1", ToolCallID: "t1"},
	}
	_, err := NewBuilder(events).Strict().Build()
	if err == nil {
		t.Fatalf("expected an error in strict mode with an orphaned action")
	}
	if !errors.Is(err, ErrMatching) {
		t.Fatalf("expected ErrMatching, got %v", err)
	}
}

func TestBuildView_MalformedInputRejectsNilEvent(t *testing.T) {
	_, err := BuildView([]Event{nil})
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestBuildView_UnhandledCondensationRequestFlag(t *testing.T) {
	events := []Event{
		SystemEvent{ID: "sys"},
		CondensationRequest{ID: "req1"},
	}
	v, err := BuildView(events)
	if err != nil {
		t.Fatalf("BuildView returned error: %v", err)
	}
	if !v.UnhandledCondensationRequest {
		t.Fatalf("expected UnhandledCondensationRequest to be true")
	}
}

func TestBuilder_IndicesMatchesCalculator(t *testing.T) {
	events := scenarioBEvents()
	b := NewBuilder(events)
	got := b.Indices()
	want := NewManipulationIndexCalculator(events, nil).Indices()
	if len(got) != len(want) {
		t.Fatalf("Indices = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Indices = %v, want %v", got, want)
		}
	}
}
