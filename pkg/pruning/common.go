// Package pruning implements the dynamic-pruning top-k evaluation
// algorithms (spec.md §4): WAND, BlockMaxWAND, MaxScore and their
// pair-aware HIGH/LOW variants, plus the HighThenLow hybrid. Grounded
// directly on original_source's pisa/query/algorithm/{wand_query,
// wand_pair_query,block_max_wand_query,maxscore_query}.hpp — the pivot
// rule, the "move farthest list up to the pivot" advance step, and the
// essential/non-essential split are ported line-for-line where the
// target language allows, generalized from raw pointer-vector churn
// into index-vector sorts (spec.md §9's "mutable pointer-vector" note).
package pruning

import (
	"sort"

	"github.com/kittclouds/topk/pkg/cursor"
)

// scored is the minimal shape every pruning algorithm needs: a current
// position, an exact score at that position, and an upper bound on any
// score this cursor could ever contribute.
type scored interface {
	DocID() uint32
	Score() float32
	MaxScore() float32
	Next()
	NextGEQ(target uint32)
}

const maxDocID = cursor.MaxDocID

func sortByDocID[C scored](cs []C) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].DocID() < cs[j].DocID() })
}

// bubbleForward restores sorted-by-docid order after cs[idx] alone moved
// forward in place — the "bubble down the advanced list" step shared by
// every algorithm below.
func bubbleForward[C scored](cs []C, idx int) {
	for i := idx + 1; i < len(cs); i++ {
		if cs[i].DocID() < cs[i-1].DocID() {
			cs[i], cs[i-1] = cs[i-1], cs[i]
		} else {
			break
		}
	}
}

// advanceFarthestLeft implements WAND's "no match" step (spec.md §4.3):
// walk left from pivot while docid == pivotDoc, advance the first cursor
// whose docid differs to next_geq(pivotDoc), then bubble it into place.
func advanceFarthestLeft[C scored](cs []C, pivot int, pivotDoc uint32) {
	i := pivot
	for i >= 0 && cs[i].DocID() == pivotDoc {
		i--
	}
	cs[i].NextGEQ(pivotDoc)
	bubbleForward(cs, i)
}

// countTied returns the number of cursors, from the front of cs, sitting
// exactly at doc (cs must be sorted by docid ascending).
func countTied[C scored](cs []C, doc uint32) int {
	n := 0
	for _, c := range cs {
		if c.DocID() != doc {
			break
		}
		n++
	}
	return n
}

// evaluateAt scores the tied-at-doc prefix of cs, inserts the summed
// score, and advances each contributing cursor past doc (spec.md §4.3's
// pivot-match branch, shared by WAND and its pair-aware variants).
func evaluateAt[C scored](cs []C, doc uint32, insert func(score float64, docid uint32) bool) bool {
	tied := countTied(cs, doc)
	var sum float64
	for i := 0; i < tied; i++ {
		sum += float64(cs[i].Score())
	}
	ok := insert(sum, doc)
	for i := 0; i < tied; i++ {
		cs[i].Next()
	}
	return ok
}
