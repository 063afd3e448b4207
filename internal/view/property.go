package view

// Property is the contract every invariant implements: a pure computation
// of the positions at which a cut or insertion is safe, and a pure
// projection that makes an arbitrary sequence satisfy the invariant.
//
// Both operations must be side-effect free, and Validate must be
// idempotent: Validate(Validate(x)) == Validate(x).
type Property interface {
	// SafeIndices returns the positions in [0, len(events)] at which an
	// insertion or cut would not violate this property.
	SafeIndices(events []Event) *bitset

	// Validate returns a possibly filtered/augmented version of current
	// that satisfies this property. raw is the untouched input sequence
	// the whole pipeline started from; most properties ignore it and work
	// only off current, but BatchAtomicityProperty needs it to recover a
	// batch's original membership after upstream stages have already
	// dropped some of its actions.
	Validate(raw, current []Event) []Event
}

// StandardProperties returns the five properties whose safe indices the
// manipulation index calculation intersects: the four named by the
// invariant list in §3.3 plus the supplemental ToolResultUniquenessProperty
// (§3.5, §4.7). Builder.Build runs their Validate steps in its own order:
// condensation, tool-call matching, tool-result uniqueness, batch atomicity.
func StandardProperties() []Property {
	return []Property{
		BatchAtomicityProperty{},
		ToolLoopAtomicityProperty{},
		ToolCallMatchingProperty{},
		ToolResultUniquenessProperty{},
		CondensationProperty{},
	}
}
