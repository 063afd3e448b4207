package view

import "math/big"

// bitset is a fixed-width bit vector over positions [0, width], used to
// represent a property's safe-index set. It is backed by math/big.Int
// purely as a word-packed bit vector (And/Bit/SetBit); the arbitrary
// precision is incidental — widths here are event-count-sized, not
// cryptographic. This is the representation §9 recommends over a hash set
// for large traces: AND across k properties is O(width/word_size) instead
// of O(k * n) hash lookups.
type bitset struct {
	width int // number of representable positions is width+1: [0, width]
	bits  *big.Int
}

// newBitset returns an empty bitset over [0, width].
func newBitset(width int) *bitset {
	return &bitset{width: width, bits: new(big.Int)}
}

// fullBitset returns a bitset with every position in [0, width] set.
func fullBitset(width int) *bitset {
	b := newBitset(width)
	for i := 0; i <= width; i++ {
		b.bits.SetBit(b.bits, i, 1)
	}
	return b
}

// bitsetFromIndices builds a bitset with exactly the given positions set.
func bitsetFromIndices(width int, indices ...int) *bitset {
	b := newBitset(width)
	for _, i := range indices {
		if i >= 0 && i <= width {
			b.bits.SetBit(b.bits, i, 1)
		}
	}
	return b
}

// set marks position i as safe.
func (b *bitset) set(i int) {
	if i < 0 || i > b.width {
		return
	}
	b.bits.SetBit(b.bits, i, 1)
}

// unset marks position i as unsafe.
func (b *bitset) unset(i int) {
	if i < 0 || i > b.width {
		return
	}
	b.bits.SetBit(b.bits, i, 0)
}

// unsetRange marks every position in [from, to] (inclusive) as unsafe.
func (b *bitset) unsetRange(from, to int) {
	for i := from; i <= to; i++ {
		b.unset(i)
	}
}

// and returns the intersection of b and other, as a new bitset.
func (b *bitset) and(other *bitset) *bitset {
	width := b.width
	if other.width < width {
		width = other.width
	}
	result := &bitset{width: width, bits: new(big.Int)}
	result.bits.And(b.bits, other.bits)
	return result
}

// indices returns the sorted list of set positions in [0, width].
func (b *bitset) indices() []int {
	var out []int
	for i := 0; i <= b.width; i++ {
		if b.bits.Bit(i) == 1 {
			out = append(out, i)
		}
	}
	return out
}
