package pruning

import (
	"github.com/kittclouds/topk/pkg/bitvec"
	"github.com/kittclouds/topk/pkg/cursor"
	"github.com/kittclouds/topk/pkg/topkqueue"
)

// blockScored extends scored with the block-max bound BlockMaxWAND prunes
// against (spec.md §4.5).
type blockScored interface {
	scored
	BlockMaxScore() float32
	BlockMaxDocID() uint32
	BlockMaxNextGEQ(target uint32)
}

// refreshBlockBounds re-syncs each cursor's block-max enumerator up to
// pivotDoc and sums the resulting (already query-weighted) per-block
// bounds over cs[0..pivot], a tighter local bound than the term-level
// MaxScore pivot sum (spec.md §4.5).
func refreshBlockBounds[C blockScored](cs []C, pivot int, pivotDoc uint32) float64 {
	var sum float64
	for i := 0; i <= pivot; i++ {
		if cs[i].BlockMaxDocID() < pivotDoc {
			cs[i].BlockMaxNextGEQ(pivotDoc)
		}
		sum += float64(cs[i].BlockMaxScore())
	}
	return sum
}

// blockSkipTarget computes where BlockMaxWAND jumps to when the block
// bound over [0,pivot] fails: at least pivotDoc+1, but tightened to the
// nearest docid at which any of those block bounds, or the next untouched
// cursor, could change (spec.md §4.5). Grounded on
// block_max_wand_query.hpp's else-branch "next" computation.
func blockSkipTarget[C blockScored](cs []C, pivot int, pivotDoc uint32) uint32 {
	next := uint32(maxDocID)
	for i := 0; i <= pivot; i++ {
		if d := cs[i].BlockMaxDocID(); d < next {
			next = d
		}
	}
	if next != maxDocID {
		next++
	}
	if pivot+1 < len(cs) && cs[pivot+1].DocID() < next {
		next = cs[pivot+1].DocID()
	}
	if next <= pivotDoc {
		next = pivotDoc + 1
	}
	return next
}

// advanceLargestMaxScore advances whichever cursor in cs[0..pivot] (pivot
// included) has the
// largest term-level MaxScore to next, then bubbles it into place — the
// single-cursor skip BlockMaxWAND performs when the block bound fails,
// distinct from WAND's farthest-left rule (spec.md §4.5).
func advanceLargestMaxScore[C blockScored](cs []C, pivot int, next uint32) {
	best := 0
	for i := 1; i <= pivot; i++ {
		if cs[i].MaxScore() > cs[best].MaxScore() {
			best = i
		}
	}
	cs[best].NextGEQ(next)
	bubbleForward(cs, best)
}

// evaluateBlockAware scores the tied-at-doc prefix of cs, short-circuiting
// as soon as the running refined bound (blockUB, reduced by each
// contributing cursor's exact score in place of its block bound) can no
// longer beat threshold. Every tied cursor is still advanced past doc
// regardless of where scoring stopped, and the (possibly partial) score is
// inserted unconditionally: once the refined bound drops to or below
// threshold, any completion of the sum is itself bounded by it and so can
// never beat threshold either, making queue.Insert's own score<=heap_min
// check the final, safe arbiter (spec.md §4.5). Grounded on
// block_max_wand_query.hpp's match branch.
func evaluateBlockAware[C blockScored](cs []C, doc uint32, blockUB float64, queue *topkqueue.Queue) {
	tied := countTied(cs, doc)
	var score float64
	for i := 0; i < tied; i++ {
		part := float64(cs[i].Score())
		score += part
		blockUB -= float64(cs[i].BlockMaxScore()) - part
		if !queue.WouldEnter(blockUB) {
			break
		}
	}
	for i := 0; i < tied; i++ {
		cs[i].Next()
	}
	queue.Insert(score, doc)
}

// runBlockMaxWAND is the shared BlockMaxWAND loop (spec.md §4.5): same
// term-level pivot rule as WAND, but before evaluating at the pivot it
// recomputes the tighter block-local bound over [0,pivot] and, when that
// alone can't beat threshold, skips forward a single cursor instead of
// scoring. Grounded on original_source's
// block_max_wand_query::operator().
func runBlockMaxWAND[C blockScored](cursors []C, queue *topkqueue.Queue) {
	if len(cursors) == 0 {
		return
	}
	sortByDocID(cursors)
	for {
		if cursors[0].DocID() == maxDocID {
			return
		}
		threshold := queue.Threshold()
		pivot, pivotDoc, found := pivotWithTies(cursors, threshold)
		if !found {
			return
		}

		blockUB := refreshBlockBounds(cursors, pivot, pivotDoc)
		if queue.WouldEnter(blockUB) {
			if pivotDoc == cursors[0].DocID() {
				evaluateBlockAware(cursors, pivotDoc, blockUB, queue)
				sortByDocID(cursors)
			} else {
				advanceFarthestLeft(cursors, pivot, pivotDoc)
			}
		} else {
			next := blockSkipTarget(cursors, pivot, pivotDoc)
			advanceLargestMaxScore(cursors, pivot, next)
		}
	}
}

// pivotWithTies finds the term-level pivot the same way selectPivot does,
// then absorbs any further cursors tied at the same docid into the pivot
// group (block_max_wand_query.hpp's "for (; pivot+1<size && ...)" loop) so
// the block bound below is computed over every cursor the candidate
// document could draw from.
func pivotWithTies[C blockScored](cs []C, threshold float64) (pivot int, pivotDoc uint32, ok bool) {
	pivot, pivotDoc, ok = selectPivot(cs, threshold)
	if !ok {
		return
	}
	for pivot+1 < len(cs) && cs[pivot+1].DocID() == pivotDoc {
		pivot++
	}
	return
}

// BlockMaxWAND runs BlockMaxWAND over independent per-term cursors.
func BlockMaxWAND(cursors []*cursor.BlockMaxScoredCursor, queue *topkqueue.Queue) {
	runBlockMaxWAND(cursors, queue)
}

// BlockMaxWANDPairAware runs BlockMaxWAND over the flat HIGH/LOW sides of
// every term, deduping only the term-level pivot upper bound the same way
// WANDPairAware does; the block-level bound computed afterward is left
// unchanged, matching original_source's pair_aware_bmw — its own
// block-level dedup path sits behind a disabled _FANCY_ build flag and is
// treated here as an open, unimplemented extension (spec.md §4.5).
// numPairs must exceed the largest PairID among cursors.
func BlockMaxWANDPairAware(cursors []*cursor.BlockMaxScoredCursor, numPairs int, queue *topkqueue.Queue) {
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
		pivot, pivotDoc, found := -1, uint32(0), false
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
				pivot, pivotDoc, found = i, c.DocID(), true
				break
			}
		}
		if !found {
			return
		}
		for pivot+1 < len(cursors) && cursors[pivot+1].DocID() == pivotDoc {
			pivot++
		}

		blockUB := refreshBlockBounds(cursors, pivot, pivotDoc)
		if queue.WouldEnter(blockUB) {
			if pivotDoc == cursors[0].DocID() {
				evaluateBlockAware(cursors, pivotDoc, blockUB, queue)
				sortByDocID(cursors)
			} else {
				advanceFarthestLeft(cursors, pivot, pivotDoc)
			}
		} else {
			next := blockSkipTarget(cursors, pivot, pivotDoc)
			advanceLargestMaxScore(cursors, pivot, next)
		}
	}
}

// BlockMaxWANDPaired runs BlockMaxWAND over fused HIGH/LOW
// PairedBlockCursors, extending WANDPaired's NonConsideredHighDocID
// soundness fix (spec.md §4.2) to the block-max cursor hierarchy: no
// original_source file fuses block-max cursors this way, but the same
// unconsidered-HIGH-posting hazard applies whenever a PairedBlockCursor is
// parked on its LOW side, so the retry logic is carried over unchanged.
func BlockMaxWANDPaired(cursors []*cursor.PairedBlockCursor, queue *topkqueue.Queue) {
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
			advanceBlockPairsBelow(cursors, len(cursors), minHighNonConsidered)
			sortByDocID(cursors)
			continue
		}
		if pivotDoc > minHighNonConsidered {
			advanceBlockPairsBelow(cursors, pivot, minHighNonConsidered)
			sortByDocID(cursors)
			continue
		}
		for pivot+1 < len(cursors) && cursors[pivot+1].DocID() == pivotDoc {
			pivot++
		}

		blockUB := refreshBlockBounds(cursors, pivot, pivotDoc)
		if queue.WouldEnter(blockUB) {
			if pivotDoc == cursors[0].DocID() {
				evaluateBlockAware(cursors, pivotDoc, blockUB, queue)
				sortByDocID(cursors)
			} else {
				advanceFarthestLeft(cursors, pivot, pivotDoc)
			}
		} else {
			next := blockSkipTarget(cursors, pivot, pivotDoc)
			advanceLargestMaxScore(cursors, pivot, next)
		}
	}
}

func advanceBlockPairsBelow(cursors []*cursor.PairedBlockCursor, upto int, target uint32) {
	for i := 0; i < upto; i++ {
		if cursors[i].DocID() < target {
			cursors[i].NextGEQ(target)
		}
	}
}
