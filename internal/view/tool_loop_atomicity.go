package view

// ToolLoopAtomicityProperty enforces that a "thinking" tool loop — a run of
// consecutive Action/Observation events opened by an action carrying
// thinking blocks — is never split (§4.4, §3.3 invariant 3).
//
// A loop starts at an ActionEvent with non-empty ThinkingBlocks and extends
// forward through every consecutive ActionEvent/ObservationEvent until the
// first position whose event is neither.
type ToolLoopAtomicityProperty struct{}

type loopRange struct {
	min, max int
}

func findLoopRanges(events []Event) []loopRange {
	var ranges []loopRange
	n := len(events)

	i := 0
	for i < n {
		a, ok := asAction(events[i])
		if !ok || !a.HasThinking() {
			i++
			continue
		}
		start := i
		j := i + 1
		for j < n {
			if _, ok := asAction(events[j]); ok {
				j++
				continue
			}
			if _, ok := asObservation(events[j]); ok {
				j++
				continue
			}
			break
		}
		ranges = append(ranges, loopRange{min: start, max: j - 1})
		i = j
	}
	return ranges
}

// SafeIndices marks every cut point that would land inside a loop as
// unsafe: everything strictly after the loop's first position and up to
// and including its last position. Unlike a batch, a loop's forbidden zone
// includes its own max_pos — a cut right before the loop's final
// observation still separates it from the thinking/action pair that
// produced it.
func (ToolLoopAtomicityProperty) SafeIndices(events []Event) *bitset {
	n := len(events)
	safe := fullBitset(n)

	for _, r := range findLoopRanges(events) {
		safe.unsetRange(r.min+1, r.max)
	}
	return safe
}

// Validate is identity: this property participates only in manipulation
// index computation (§4.4), not in the filtering pipeline. A raw loop
// that has lost a member to an upstream property (condensation, batch
// atomicity) is left as whatever those properties already decided —
// unlike BatchAtomicityProperty, a loop's own Validate never propagates
// a removal to the loop's other members, since doing so would drop an
// unrelated, still-intact loop whenever an entirely different raw loop
// happened to lose a member.
func (ToolLoopAtomicityProperty) Validate(raw, current []Event) []Event {
	return append([]Event(nil), current...)
}
