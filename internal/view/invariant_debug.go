//go:build viewdebug

package view

// checkPostConditions re-verifies §3.3's invariants against a freshly
// validated sequence. It is compiled only under the viewdebug build tag —
// a release binary pays nothing for it, matching §7's "debug builds only"
// policy for InvariantError.
func checkPostConditions(validated []Event, forgotten map[EventId]struct{}) error {
	seenAction := make(map[ToolCallId]bool)
	seenObservation := make(map[ToolCallId]bool)

	for _, e := range validated {
		if isMetaEvent(e) {
			return &Error{Kind: KindInvariant, Message: "meta-event present in validated sequence"}
		}
		if _, forgottenHit := forgotten[e.eventID()]; forgottenHit {
			return &Error{Kind: KindInvariant, Message: "forgotten event present in validated sequence"}
		}
		if a, ok := asAction(e); ok {
			seenAction[a.ToolCallID] = true
		}
		if o, ok := asObservation(e); ok {
			if seenObservation[o.ToolCallID] {
				return &Error{Kind: KindInvariant, Message: "duplicate observation survived validation"}
			}
			seenObservation[o.ToolCallID] = true
		}
	}

	for tc := range seenAction {
		if !seenObservation[tc] {
			return &Error{Kind: KindInvariant, Message: "action without matching observation survived validation"}
		}
	}
	for tc := range seenObservation {
		if !seenAction[tc] {
			return &Error{Kind: KindInvariant, Message: "observation without matching action survived validation"}
		}
	}

	return nil
}
