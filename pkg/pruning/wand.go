package pruning

import (
	"github.com/kittclouds/topk/pkg/bitvec"
	"github.com/kittclouds/topk/pkg/cursor"
	"github.com/kittclouds/topk/pkg/topkqueue"
)

// selectPivot walks cursors in docid order summing MaxScore until the
// running total exceeds threshold, returning the position and docid of
// the pivot (spec.md §4.3). Grounded on wand_query::operator().
func selectPivot[C scored](cs []C, threshold float64) (pivot int, pivotDoc uint32, ok bool) {
	var upperBound float64
	for i, c := range cs {
		if c.DocID() == maxDocID {
			return 0, 0, false
		}
		upperBound += float64(c.MaxScore())
		if upperBound > threshold {
			return i, c.DocID(), true
		}
	}
	return 0, 0, false
}

// WAND runs plain WAND (spec.md §4.3) over independent per-term cursors —
// HIGH and LOW sides of a pair, if any, are treated as unrelated terms.
// Grounded on original_source's wand_query::operator().
func WAND(cursors []*cursor.MaxScoredCursor, queue *topkqueue.Queue) {
	if len(cursors) == 0 {
		return
	}
	sortByDocID(cursors)
	for {
		if cursors[0].DocID() == maxDocID {
			return
		}
		pivot, pivotDoc, ok := selectPivot(cursors, queue.Threshold())
		if !ok {
			return
		}
		if pivotDoc == cursors[0].DocID() {
			evaluateAt(cursors, pivotDoc, queue.Insert)
			sortByDocID(cursors)
		} else {
			advanceFarthestLeft(cursors, pivot, pivotDoc)
		}
	}
}

// WANDPairAware runs WAND over the flat HIGH/LOW sides of every term,
// deduping a pair's upper-bound contribution in the pivot sum with a
// pkg/bitvec.PairSet: once one side of a pair has contributed its
// MaxScore, any further side seen in the same pivot scan contributes only
// the difference down to LowMaxScore rather than double-counting the pair
// (spec.md §4.3's pivot/upper-bound dedup note). Grounded on
// wand_query::pair_aware_wand. numPairs must exceed the largest PairID
// among cursors.
func WANDPairAware(cursors []*cursor.MaxScoredCursor, numPairs int, queue *topkqueue.Queue) {
	if len(cursors) == 0 {
		return
	}
	seen := bitvec.NewPairSet(numPairs)
	sortByDocID(cursors)
	for {
		if cursors[0].DocID() == maxDocID {
			return
		}
		seen.Reset()
		threshold := queue.Threshold()
		var upperBound float64
		pivot, pivotDoc, ok := -1, uint32(0), false
		for i, c := range cursors {
			if c.DocID() == maxDocID {
				break
			}
			upperBound += float64(c.MaxScore())
			if seen.Test(c.PairID()) {
				upperBound -= float64(c.LowMaxScore())
			} else {
				seen.Set(c.PairID(), true)
			}
			if upperBound > threshold {
				pivot, pivotDoc, ok = i, c.DocID(), true
				break
			}
		}
		if !ok {
			return
		}
		if pivotDoc == cursors[0].DocID() {
			evaluateAt(cursors, pivotDoc, queue.Insert)
			sortByDocID(cursors)
		} else {
			advanceFarthestLeft(cursors, pivot, pivotDoc)
		}
	}
}

// WANDPaired runs WAND over fused HIGH/LOW PairedCursors (spec.md §4.2):
// each logical term contributes exactly one cursor exposing whichever
// side currently holds the smaller docid, so the pivot sum never needs a
// dedup bitmap at all. The fusion costs soundness a plain pivot scan
// doesn't have to worry about: a PairedCursor sitting on its LOW side still
// has an unconsidered HIGH posting lurking at some earlier, not-yet-visited
// docid, and a pivot chosen past that docid could skip over it. Before
// committing to a pivot this tracks the smallest such
// NonConsideredHighDocID across all cursors and, whenever it would be
// skipped past, advances every cursor below it and retries instead.
// Grounded on original_source's wand_pair_query::operator().
func WANDPaired(cursors []*cursor.PairedCursor, queue *topkqueue.Queue) {
	if len(cursors) == 0 {
		return
	}
	sortByDocID(cursors)
	for {
		threshold := queue.Threshold()
		var upperBound float64
		pivot := -1
		pivotDoc := uint32(0)
		minHighNonConsidered := uint32(maxDocID)
		for i, c := range cursors {
			if c.DocID() == maxDocID {
				break
			}
			upperBound += float64(c.MaxScore())
			if h := c.NonConsideredHighDocID(); h < minHighNonConsidered {
				minHighNonConsidered = h
			}
			if upperBound > threshold {
				pivot, pivotDoc = i, c.DocID()
				break
			}
		}

		if pivot < 0 {
			if minHighNonConsidered >= maxDocID {
				return
			}
			advancePairsBelow(cursors, len(cursors), minHighNonConsidered)
			sortByDocID(cursors)
			continue
		}
		if pivotDoc > minHighNonConsidered {
			advancePairsBelow(cursors, pivot, minHighNonConsidered)
			sortByDocID(cursors)
			continue
		}

		if pivotDoc == cursors[0].DocID() {
			evaluateAt(cursors, pivotDoc, queue.Insert)
			sortByDocID(cursors)
		} else {
			advanceFarthestLeft(cursors, pivot, pivotDoc)
		}
	}
}

func advancePairsBelow(cursors []*cursor.PairedCursor, upto int, target uint32) {
	for i := 0; i < upto; i++ {
		if cursors[i].DocID() < target {
			cursors[i].NextGEQ(target)
		}
	}
}
