// Package query defines the Query record and the HIGH/LOW pairing
// convention shared by the cursor factories and pruning algorithms
// (spec.md §3, §6).
package query

import "sort"

// TermID is a stable key into the index.
type TermID uint32

// DocID is a document identifier; MaxDocID (defined by pkg/postings) is the
// sentinel meaning "past the end of every list".
type DocID = uint32

// PairedTerm records that terms[IdxA] and terms[IdxB] are the HIGH/LOW
// variants of one logical term. If only one side has postings at query
// time, IdxA == IdxB and IsDuplicate is true (spec.md §3).
type PairedTerm struct {
	IdxA, IdxB     int
	ShorterListLen int
	PairID         uint32
	IsDuplicate    bool
}

// Query is an ordered bag of term ids, a parallel IsHigh bitvector, and the
// set of HIGH/LOW pairs among them.
type Query struct {
	ID    string // optional; empty if not supplied
	Terms []TermID
	IsHigh []bool // parallel to Terms
	Pairs []PairedTerm
}

// Empty reports whether the query carries no terms at all (spec.md §7,
// "Empty query ... no-op").
func (q *Query) Empty() bool {
	return q == nil || len(q.Terms) == 0
}

// QueryFreqs computes each distinct term's query-time weight: the number of
// times it occurs among terms. Grounded on queries.cpp's query_freqs — a
// sorted copy of the term ids, then a single pass counting runs of equal
// ids — rather than an unordered map, so repeated terms are grouped without
// relying on hash iteration order. Cursor factories (spec.md §4.2 item (i))
// use the result as the query_weight multiplier against a term's
// collection-wide max weight.
func QueryFreqs(terms []TermID) map[TermID]int {
	sorted := make([]TermID, len(terms))
	copy(sorted, terms)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	freqs := make(map[TermID]int, len(sorted))
	for i, t := range sorted {
		if i == 0 || t != sorted[i-1] {
			freqs[t] = 1
		} else {
			freqs[t]++
		}
	}
	return freqs
}
