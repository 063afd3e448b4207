package view

// CondensationProperty applies the effect of every Condensation meta-event:
// it removes the forgotten events, drops both meta-event variants
// (CondensationRequest, Condensation) from the output, and splices in the
// most recent summary at its (clamped) offset (§4.6, §3.3 invariant 5).
//
// SafeIndices imposes no range restriction of its own — condensation is a
// content transform, not a structural pairing — so it always returns the
// full set, same as ToolCallMatchingProperty and ToolResultUniquenessProperty.
type CondensationProperty struct{}

func (CondensationProperty) SafeIndices(events []Event) *bitset {
	return fullBitset(len(events))
}

// lastCondensation returns the last Condensation event in events, if any.
func lastCondensation(events []Event) (Condensation, bool) {
	var last Condensation
	found := false
	for _, e := range events {
		if c, ok := e.(Condensation); ok {
			last = c
			found = true
		}
	}
	return last, found
}

// hasUnhandledCondensationRequest reports whether events contains a
// CondensationRequest issued after the last Condensation was applied — a
// request the condenser has not yet acted on.
func hasUnhandledCondensationRequest(events []Event) bool {
	lastRequestPos, lastApplyPos := -1, -1
	for pos, e := range events {
		switch e.(type) {
		case CondensationRequest:
			lastRequestPos = pos
		case Condensation:
			lastApplyPos = pos
		}
	}
	return lastRequestPos > lastApplyPos
}

// forgottenUnion returns the union of every Condensation's ForgottenIDs
// found in events.
func forgottenUnion(events []Event) map[EventId]struct{} {
	forgotten := make(map[EventId]struct{})
	for _, e := range events {
		if c, ok := e.(Condensation); ok {
			for id := range c.ForgottenIDs {
				forgotten[id] = struct{}{}
			}
		}
	}
	return forgotten
}

// Validate removes forgotten events and both meta-event variants, then
// splices the most recent summary in as an assistant MessageEvent at its
// SummaryOffset, clamped to the shrunken sequence's bounds.
func (CondensationProperty) Validate(_, current []Event) []Event {
	forgotten := forgottenUnion(current)
	summary, hasSummary := lastCondensation(current)

	kept := make([]Event, 0, len(current))
	for _, e := range current {
		if isMetaEvent(e) {
			continue
		}
		if _, dropped := forgotten[e.eventID()]; dropped {
			continue
		}
		kept = append(kept, e)
	}

	if !hasSummary || summary.Summary == "" {
		return kept
	}

	offset := summary.SummaryOffset
	if offset < 0 {
		offset = 0
	}
	if offset > len(kept) {
		offset = len(kept)
	}

	summaryEvent := MessageEvent{
		ID:      summary.ID,
		Source:  SourceAssistant,
		Content: summary.Summary,
	}

	out := make([]Event, 0, len(kept)+1)
	out = append(out, kept[:offset]...)
	out = append(out, summaryEvent)
	out = append(out, kept[offset:]...)
	return out
}
