// Package bitvec implements the small scratch bitset used to dedupe
// HIGH/LOW pair contributions during pivot computation. It is cleared and
// reused across pivot iterations of a single query evaluation.
package bitvec

import "github.com/kittclouds/topk/pkg/broadword"

// wordBits is the number of pair-ids a single scratch word covers. Queries
// with more distinct pair-ids than this spill into additional words.
const wordBits = 64

// PairSet is a bitset indexed by pair-id. For the common case of at most 64
// distinct pairs in a query it is a single machine word; larger queries grow
// to a short multi-word slice.
//
// This resolves the open question flagged in spec.md §9 about
// bit_vec_64::set: Set(pos, true) ORs the bit in, Set(pos, false) clears it —
// neighboring bits are always left untouched.
type PairSet struct {
	words []uint64
}

// NewPairSet returns a bitset with capacity for at least n pair-ids.
func NewPairSet(n int) *PairSet {
	words := n / wordBits
	if n%wordBits != 0 || words == 0 {
		words++
	}
	return &PairSet{words: make([]uint64, words)}
}

// Reset clears every bit, leaving the bitset ready for the next pivot scan.
func (s *PairSet) Reset() {
	for i := range s.words {
		s.words[i] = 0
	}
}

// Test reports whether bit pos is set.
func (s *PairSet) Test(pos uint32) bool {
	w, b := pos/wordBits, pos%wordBits
	if int(w) >= len(s.words) {
		return false
	}
	return s.words[w]&(1<<b) != 0
}

// Set sets bit pos to b, leaving every other bit unchanged.
func (s *PairSet) Set(pos uint32, b bool) {
	w, bit := pos/wordBits, pos%wordBits
	for int(w) >= len(s.words) {
		s.words = append(s.words, 0)
	}
	if b {
		s.words[w] |= 1 << bit
	} else {
		s.words[w] &^= 1 << bit
	}
}

// PopCount returns the total number of set bits across all words.
func (s *PairSet) PopCount() int {
	total := 0
	for _, w := range s.words {
		total += broadword.PopCount(w)
	}
	return total
}
