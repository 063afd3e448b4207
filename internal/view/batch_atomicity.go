package view

// BatchAtomicityProperty enforces that an LLM response's action batch is
// never split by a manipulation, and propagates upstream removals to whole
// batches (§4.3, §3.3 invariant 2).
type BatchAtomicityProperty struct{}

// SafeIndices marks the interior of every batch's [min_pos, max_pos] span
// as unsafe. The interior is the open interval (min_pos, max_pos): a
// two-action batch at adjacent positions has an empty interior and imposes
// no restriction at all, which is the common case (most batches are one or
// two tool calls back to back).
func (BatchAtomicityProperty) SafeIndices(events []Event) *bitset {
	n := len(events)
	safe := fullBitset(n)
	idx := buildBatchIndex(events)

	for _, id := range idx.batchOrder {
		min, max, ok := idx.span(id)
		if !ok {
			continue
		}
		safe.unsetRange(min+1, max-1)
	}
	return safe
}

// Validate scans the (already partially filtered) input for batches whose
// membership no longer matches the batch's original composition — meaning
// an earlier pipeline stage removed one of its members — and drops the
// survivors of that batch too, since a batch must be all-or-nothing.
//
// rawEvents supplies the original batch membership; current is the result
// of the pipeline stages that ran before this one.
func (BatchAtomicityProperty) Validate(rawEvents, current []Event) []Event {
	rawIdx := buildBatchIndex(rawEvents)
	rawMembers := make(map[LlmResponseId]map[ToolCallId]bool, len(rawIdx.batchOrder))
	for _, id := range rawIdx.batchOrder {
		members := make(map[ToolCallId]bool)
		for _, pos := range rawIdx.batches[id] {
			if a, ok := asAction(rawEvents[pos]); ok {
				members[a.ToolCallID] = true
			}
		}
		rawMembers[id] = members
	}

	currentByBatch := make(map[LlmResponseId]map[ToolCallId]bool)
	for _, e := range current {
		if a, ok := asAction(e); ok {
			set := currentByBatch[a.LlmResponseID]
			if set == nil {
				set = make(map[ToolCallId]bool)
				currentByBatch[a.LlmResponseID] = set
			}
			set[a.ToolCallID] = true
		}
	}

	incomplete := make(map[LlmResponseId]bool)
	for id, present := range currentByBatch {
		original := rawMembers[id]
		if len(present) < len(original) {
			incomplete[id] = true
		}
	}

	if len(incomplete) == 0 {
		return append([]Event(nil), current...)
	}

	out := make([]Event, 0, len(current))
	for _, e := range current {
		if a, ok := asAction(e); ok && incomplete[a.LlmResponseID] {
			continue
		}
		out = append(out, e)
	}
	return out
}
