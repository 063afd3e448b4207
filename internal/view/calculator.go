package view

import "sort"

// ManipulationIndexCalculator computes the positions in a raw event
// sequence at which a cut or insertion is safe under every property
// simultaneously (§4.8).
type ManipulationIndexCalculator struct {
	properties []Property
	indices    []int
	n          int
}

// NewManipulationIndexCalculator intersects every property's SafeIndices
// over the raw sequence. Manipulation indices are always computed against
// the raw sequence, never the validated one (§4.8's explicit choice,
// carried over unchanged from the distilled spec).
func NewManipulationIndexCalculator(raw []Event, properties []Property) *ManipulationIndexCalculator {
	if properties == nil {
		properties = StandardProperties()
	}

	n := len(raw)
	combined := fullBitset(n)
	for _, p := range properties {
		combined = combined.and(p.SafeIndices(raw))
	}

	return &ManipulationIndexCalculator{
		properties: properties,
		indices:    combined.indices(),
		n:          n,
	}
}

// Indices returns every safe position, sorted ascending.
func (c *ManipulationIndexCalculator) Indices() []int {
	return append([]int(nil), c.indices...)
}

// NextIndex returns the smallest safe index that is >= threshold, or, in
// strict mode, strictly > threshold. Either way, when no such index
// exists it clips to the sequence's end (the last element of Indices, or
// the raw sequence's length if there are none) rather than failing — the
// Go-native analogue of the distilled spec's documented "clip to end"
// behavior, chosen over original_source's ValueError-raising find_next
// (see DESIGN.md).
func (c *ManipulationIndexCalculator) NextIndex(threshold int, strict bool) int {
	i := sort.Search(len(c.indices), func(i int) bool {
		if strict {
			return c.indices[i] > threshold
		}
		return c.indices[i] >= threshold
	})
	if i < len(c.indices) {
		return c.indices[i]
	}
	if len(c.indices) == 0 {
		return c.n
	}
	return c.indices[len(c.indices)-1]
}
