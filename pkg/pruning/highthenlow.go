package pruning

import (
	"github.com/kittclouds/topk/pkg/cursor"
	"github.com/kittclouds/topk/pkg/topkqueue"
)

// HighThenLow runs the two-phase hybrid (spec.md §4.6). Phase one treats
// the (short, rare) HIGH lists as a plain disjunctive OR scan: every docid
// with any HIGH posting is visited, and at each one every LOW cursor is
// also probed via NextGEQ for a same-docid match so the inserted score is
// the document's true combined total, not just its HIGH contribution.
// Every docid visited this way is recorded as already scored. Phase two
// resets the LOW cursors, skips each past any docid phase one already
// scored, then runs a standard MaxScore pass restricted to the LOW lists
// alone — still skipping forward over already-scored docids whenever a
// cursor's frontier lands on one, so no document is ever double-scored.
// Grounded on original_source's maxscore_query::high_then_low_internal /
// high_then_low.
func HighThenLow(high, low []*cursor.MaxScoredCursor, queue *topkqueue.Queue) {
	if len(high) == 0 && len(low) == 0 {
		return
	}

	scored := make(map[uint32]struct{})

	if len(high) > 0 {
		sortDescByMaxScore(high)
		doc := minDocID(high)
		for doc != maxDocID {
			var score float64
			next := uint32(maxDocID)
			for _, c := range high {
				if c.DocID() == doc {
					score += float64(c.Score())
					c.Next()
				}
				if c.DocID() < next {
					next = c.DocID()
				}
			}
			for _, c := range low {
				c.NextGEQ(doc)
				if c.DocID() == doc {
					score += float64(c.Score())
				}
			}
			queue.Insert(score, doc)
			scored[doc] = struct{}{}
			doc = next
		}
	}

	if len(low) == 0 {
		return
	}
	for _, c := range low {
		c.Reset()
	}
	sortDescByMaxScore(low)
	runMaxScoreSkipping(low, scored, queue)
}

// runMaxScoreSkipping is plain MaxScore (runMaxScore) with one addition:
// any cursor whose frontier lands on a docid already in skip is advanced
// again before it can drive or contribute to a candidate, the phase-two
// half of high_then_low_internal.
func runMaxScoreSkipping(cursors []*cursor.MaxScoredCursor, skip map[uint32]struct{}, queue *topkqueue.Queue) {
	if len(cursors) == 0 {
		return
	}
	advancePastSkip := func(c *cursor.MaxScoredCursor) {
		for c.DocID() != maxDocID {
			if _, seen := skip[c.DocID()]; !seen {
				return
			}
			c.Next()
		}
	}
	for _, c := range cursors {
		advancePastSkip(c)
	}

	for {
		threshold := queue.Threshold()
		bounds := suffixBounds(cursors, nil)
		p := essentialBoundary(bounds, threshold)
		essential, nonessential := cursors[:p], cursors[p:]
		if len(essential) == 0 {
			return
		}
		doc := minDocID(essential)
		if doc == maxDocID {
			return
		}
		essentialScore := sumScoreAt(essential, doc)
		for _, c := range essential {
			if c.DocID() == doc {
				c.Next()
				advancePastSkip(c)
			}
		}

		score, ok := probeNonessentialSkipping(nonessential, bounds[p:], doc, essentialScore, threshold, skip)
		if ok {
			queue.Insert(score, doc)
		}
	}
}

// probeNonessentialSkipping is probeNonessential with the same
// already-scored skip-forward applied to every cursor it consumes.
func probeNonessentialSkipping(nonessential []*cursor.MaxScoredCursor, bounds []float64, doc uint32, essentialScore, threshold float64, skip map[uint32]struct{}) (float64, bool) {
	score := essentialScore
	for i, c := range nonessential {
		if score+bounds[i] <= threshold {
			return 0, false
		}
		c.NextGEQ(doc)
		if c.DocID() == doc {
			score += float64(c.Score())
		}
		for c.DocID() != maxDocID {
			if _, seen := skip[c.DocID()]; !seen {
				break
			}
			c.Next()
		}
	}
	return score, true
}
