package view

// View is the well-formed, invariant-satisfying result of projecting a raw
// event sequence, plus the metadata a caller needs to decide whether to
// trigger another condensation round (§6).
type View struct {
	// Validated is the sequence with every meta-event stripped, every
	// forgotten event removed, the most recent summary spliced in, and
	// every orphaned or duplicate action/observation filtered out.
	Validated []Event

	// UnhandledCondensationRequest is true when the raw sequence's last
	// CondensationRequest has not yet been answered by a Condensation.
	UnhandledCondensationRequest bool

	// MostRecentSummary is the text of the last applied Condensation, or
	// nil if none has been applied yet.
	MostRecentSummary *string
}

// buildState is the builder's internal state machine (§4.9): a Builder
// moves forward through these states exactly once per Build call and never
// backward.
type buildState int

const (
	stateIdle buildState = iota
	stateValidating
	stateIndicesComputed
	stateDone
)

// Builder runs the validation pipeline and, on request, the manipulation
// index calculation, over one raw event sequence.
type Builder struct {
	raw    []Event
	strict bool
	state  buildState

	view       View
	calculator *ManipulationIndexCalculator
}

// NewBuilder returns a Builder over raw. raw is never mutated or retained
// beyond what's needed to compute the result.
func NewBuilder(raw []Event) *Builder {
	return &Builder{raw: raw, state: stateIdle}
}

// Strict puts the builder in strict matching mode: Build returns
// ErrMatching if any ActionEvent or ObservationEvent in raw is orphaned,
// instead of the default behavior of filtering it out silently.
func (b *Builder) Strict() *Builder {
	b.strict = true
	return b
}

// Build runs the six-step validation pipeline (§4.9) and returns the
// resulting View. It is safe to call more than once; each call restarts
// the state machine from Idle.
func (b *Builder) Build() (View, error) {
	b.state = stateValidating

	if b.raw == nil {
		return View{}, newMalformedInputError("nil event sequence")
	}
	for _, e := range b.raw {
		if e == nil {
			return View{}, newMalformedInputError("nil event in sequence")
		}
	}

	if b.strict {
		if unmatched := unmatchedToolCallIDs(b.raw); len(unmatched) > 0 {
			return View{}, newMatchingError("unmatched tool call ids: %v", unmatched)
		}
	}

	forgotten := forgottenUnion(b.raw)

	current := append([]Event(nil), b.raw...)
	current = CondensationProperty{}.Validate(b.raw, current)
	current = ToolCallMatchingProperty{}.Validate(b.raw, current)
	current = ToolResultUniquenessProperty{}.Validate(b.raw, current)
	current = BatchAtomicityProperty{}.Validate(b.raw, current)
	// ToolLoopAtomicityProperty is identity on Validate: it participates
	// only in manipulation-index computation (§4.4), not in the filtering
	// pipeline. Calling its Validate here would drop an intact loop
	// whenever a sibling loop lost a member upstream, even though the
	// two loops are otherwise unrelated.

	if err := checkPostConditions(current, forgotten); err != nil {
		return View{}, err
	}

	v := View{
		Validated:                    current,
		UnhandledCondensationRequest: hasUnhandledCondensationRequest(b.raw),
	}
	if c, ok := lastCondensation(b.raw); ok && c.Summary != "" {
		summary := c.Summary
		v.MostRecentSummary = &summary
	}

	b.view = v
	b.state = stateDone
	return v, nil
}

// Indices computes and caches the manipulation indices for the raw
// sequence this builder was constructed with, using the standard property
// set. It does not require Build to have run first.
func (b *Builder) Indices() []int {
	if b.calculator == nil {
		b.calculator = NewManipulationIndexCalculator(b.raw, StandardProperties())
		if b.state < stateIndicesComputed {
			b.state = stateIndicesComputed
		}
	}
	return b.calculator.Indices()
}

// NextIndex returns the smallest manipulation index >= threshold; see
// ManipulationIndexCalculator.NextIndex.
func (b *Builder) NextIndex(threshold int, strict bool) int {
	if b.calculator == nil {
		b.Indices()
	}
	return b.calculator.NextIndex(threshold, strict)
}

// BuildView is a convenience wrapper around NewBuilder(raw).Build() for
// callers that don't need strict mode or manipulation indices.
func BuildView(raw []Event) (View, error) {
	return NewBuilder(raw).Build()
}
