package view

// ToolCallMatchingProperty enforces that every ActionEvent has exactly one
// corresponding ObservationEvent and vice versa (§4.5, §3.3 invariant 4).
// It never restricts where a cut may land — matching is a presence check,
// not a range — so SafeIndices is always the full set; the work all
// happens in Validate.
//
// Strict mode is not modeled here: a caller that wants ErrMatching raised
// on an orphaned tool call checks for orphans against the raw sequence
// before this property ever runs (see Builder.Strict and Builder.Build). This property always
// filters silently, matching the default, non-strict behavior.
type ToolCallMatchingProperty struct{}

func (ToolCallMatchingProperty) SafeIndices(events []Event) *bitset {
	return fullBitset(len(events))
}

// Validate drops every ActionEvent whose ToolCallId has no matching
// ObservationEvent, and every ObservationEvent whose ToolCallId has no
// matching ActionEvent. Every other event passes through unchanged.
func (ToolCallMatchingProperty) Validate(_, current []Event) []Event {
	actionIDs := make(map[ToolCallId]bool)
	observationIDs := make(map[ToolCallId]bool)
	for _, e := range current {
		if a, ok := asAction(e); ok {
			actionIDs[a.ToolCallID] = true
		}
		if o, ok := asObservation(e); ok {
			observationIDs[o.ToolCallID] = true
		}
	}

	out := make([]Event, 0, len(current))
	for _, e := range current {
		if a, ok := asAction(e); ok {
			if !observationIDs[a.ToolCallID] {
				continue
			}
		}
		if o, ok := asObservation(e); ok {
			if !actionIDs[o.ToolCallID] {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// unmatchedToolCallIDs returns the ToolCallIds that appear on exactly one
// side of the action/observation pairing in events, used by Builder.Build
// to implement strict matching.
func unmatchedToolCallIDs(events []Event) []ToolCallId {
	actionIDs := make(map[ToolCallId]bool)
	observationIDs := make(map[ToolCallId]bool)
	for _, e := range events {
		if a, ok := asAction(e); ok {
			actionIDs[a.ToolCallID] = true
		}
		if o, ok := asObservation(e); ok {
			observationIDs[o.ToolCallID] = true
		}
	}

	var unmatched []ToolCallId
	for id := range actionIDs {
		if !observationIDs[id] {
			unmatched = append(unmatched, id)
		}
	}
	for id := range observationIDs {
		if !actionIDs[id] {
			unmatched = append(unmatched, id)
		}
	}
	return unmatched
}
