package view

// ToolResultUniquenessProperty is a supplemental invariant not present in
// the original four: ToolCallMatchingProperty only checks set membership,
// so a redelivered or duplicated ObservationEvent for an already-matched
// ToolCallId would otherwise survive validation and produce a sequence
// with two observations answering the same action (§3.5, §4.7).
//
// Like ToolCallMatchingProperty this is a presence check, not a range
// constraint, so it never restricts where a cut may land.
type ToolResultUniquenessProperty struct{}

func (ToolResultUniquenessProperty) SafeIndices(events []Event) *bitset {
	return fullBitset(len(events))
}

// Validate keeps only the first ObservationEvent seen for each ToolCallId,
// in sequence order, and drops every later one. All other events pass
// through unchanged.
func (ToolResultUniquenessProperty) Validate(_, current []Event) []Event {
	seen := make(map[ToolCallId]bool)
	out := make([]Event, 0, len(current))
	for _, e := range current {
		if o, ok := asObservation(e); ok {
			if seen[o.ToolCallID] {
				continue
			}
			seen[o.ToolCallID] = true
		}
		out = append(out, e)
	}
	return out
}
