package view

import "testing"

func TestManipulationIndexCalculator_ScenarioA(t *testing.T) {
	events := []Event{
		SystemEvent{ID: "e0"},
		ActionEvent{ID: "e1", LlmResponseID: "b1", ToolCallID: "t1"},
		ActionEvent{ID: "e2", LlmResponseID: "b1", ToolCallID: "t2"},
		ObservationEvent{ID: "e3", ToolCallID: "t1"},
		ObservationEvent{ID: "e4", ToolCallID: "t2"},
		SystemEvent{ID: "e5"},
	}
	c := NewManipulationIndexCalculator(events, nil)
	got := c.Indices()
	want := []int{0, 1, 2, 3, 4, 5, 6}
	if len(got) != len(want) {
		t.Fatalf("Indices = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Indices = %v, want %v", got, want)
		}
	}
}

func TestManipulationIndexCalculator_ScenarioB(t *testing.T) {
	c := NewManipulationIndexCalculator(scenarioBEvents(), nil)
	got := c.Indices()
	want := []int{0, 1, 5, 6}
	if len(got) != len(want) {
		t.Fatalf("Indices = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Indices = %v, want %v", got, want)
		}
	}
}

func TestManipulationIndexCalculator_NextIndexClipsToEndWhenLenient(t *testing.T) {
	c := NewManipulationIndexCalculator(scenarioBEvents(), nil)
	if got := c.NextIndex(3, false); got != 5 {
		t.Fatalf("NextIndex(3, false) = %d, want 5", got)
	}
	if got := c.NextIndex(100, false); got != 6 {
		t.Fatalf("NextIndex(100, false) = %d, want 6 (clipped to end)", got)
	}
}

func TestManipulationIndexCalculator_NextIndexStrictClipsToEnd(t *testing.T) {
	c := NewManipulationIndexCalculator(scenarioBEvents(), nil)
	if got := c.NextIndex(100, true); got != 6 {
		t.Fatalf("NextIndex(100, true) = %d, want 6 (clipped to end)", got)
	}
}

func TestManipulationIndexCalculator_NextIndexStrictUsesGreaterThan(t *testing.T) {
	c := NewManipulationIndexCalculator(scenarioBEvents(), nil)
	// index 5 is itself safe; lenient NextIndex(5, false) returns 5, but
	// strict mode must never return the threshold itself.
	if got := c.NextIndex(5, false); got != 5 {
		t.Fatalf("NextIndex(5, false) = %d, want 5", got)
	}
	if got := c.NextIndex(5, true); got != 6 {
		t.Fatalf("NextIndex(5, true) = %d, want 6", got)
	}
}

func TestManipulationIndexCalculator_NextIndexEmptyIndicesClipsToLength(t *testing.T) {
	c := &ManipulationIndexCalculator{n: 7}
	if got := c.NextIndex(3, false); got != 7 {
		t.Fatalf("NextIndex(3, false) = %d, want 7 (clipped to sequence length)", got)
	}
	if got := c.NextIndex(3, true); got != 7 {
		t.Fatalf("NextIndex(3, true) = %d, want 7 (clipped to sequence length)", got)
	}
}
