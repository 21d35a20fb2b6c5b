package pruning

import (
	"sort"

	"github.com/kittclouds/topk/pkg/bitvec"
	"github.com/kittclouds/topk/pkg/cursor"
	"github.com/kittclouds/topk/pkg/topkqueue"
)

// sortDescByMaxScore orders cursors by descending upper bound, the order
// plain MaxScore needs: the essential (highest-impact) terms sit at the
// front (spec.md §4.4). Grounded on maxscore_query::sorted_by_bound.
func sortDescByMaxScore(cs []*cursor.MaxScoredCursor) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].MaxScore() > cs[j].MaxScore() })
}

// sortAscByLength orders cursors by increasing list length, the order the
// pair-aware MaxScore variant uses instead of bound (spec.md §4.4's
// "sort by increasing list length, not max_score" note). Grounded on
// maxscore_query::sorted_by_length.
func sortAscByLength(cs []*cursor.MaxScoredCursor) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Size() < cs[j].Size() })
}

// suffixBounds computes bounds[i] = the upper bound attributable to
// cs[i:] as given (not re-sorted here): plain MaxScore sums raw
// MaxScore, while the pair-aware variant (pairSet != nil) dedupes a
// pair's contribution the same way WANDPairAware's pivot sum does, scanning
// from the tail backward so whichever side of a pair sits closer to the
// end keeps its full bound. Grounded on maxscore_query::calc_upper_bounds
// and run_sorted_aware's inlined dedup.
func suffixBounds(cs []*cursor.MaxScoredCursor, pairSet *bitvec.PairSet) []float64 {
	bounds := make([]float64, len(cs))
	if pairSet != nil {
		pairSet.Reset()
	}
	var bound float64
	for i := len(cs) - 1; i >= 0; i-- {
		c := cs[i]
		bound += float64(c.MaxScore())
		if pairSet != nil {
			if pairSet.Test(c.PairID()) {
				bound -= float64(c.LowMaxScore())
			} else {
				pairSet.Set(c.PairID(), true)
			}
		}
		bounds[i] = bound
	}
	return bounds
}

// essentialBoundary returns first_lookup: the smallest prefix length such
// that cs[:first_lookup] is essential, shrinking from the tail while the
// entry there plus everything already non-essential still can't beat
// threshold (spec.md §4.4). Grounded on
// maxscore_query::update_non_essential_lists.
func essentialBoundary(bounds []float64, threshold float64) int {
	p := len(bounds)
	for p > 0 && bounds[p-1] <= threshold {
		p--
	}
	return p
}

func minDocID[C scored](cs []C) uint32 {
	d := uint32(maxDocID)
	for _, c := range cs {
		if c.DocID() < d {
			d = c.DocID()
		}
	}
	return d
}

func sumScoreAt[C scored](cs []C, doc uint32) float64 {
	var sum float64
	for _, c := range cs {
		if c.DocID() == doc {
			sum += float64(c.Score())
		}
	}
	return sum
}

// probeNonessential walks nonessential left-to-right, stopping and
// reporting "skip, don't insert" the instant the score accumulated so far
// plus the remaining suffix bound can no longer beat threshold — the
// document is then provably incapable of entering the queue, so it is
// abandoned with no insert call at all rather than inserted under its
// essential-only score (spec.md §4.4). Grounded on
// maxscore_query::run_sorted's above_threshold/Skip branch.
func probeNonessential(nonessential []*cursor.MaxScoredCursor, bounds []float64, doc uint32, essentialScore, threshold float64) (float64, bool) {
	score := essentialScore
	for i, c := range nonessential {
		if score+bounds[i] <= threshold {
			return 0, false
		}
		c.NextGEQ(doc)
		if c.DocID() == doc {
			score += float64(c.Score())
		}
	}
	return score, true
}

func runMaxScore(cursors []*cursor.MaxScoredCursor, pairSet *bitvec.PairSet, queue *topkqueue.Queue) {
	if len(cursors) == 0 {
		return
	}
	for {
		threshold := queue.Threshold()
		bounds := suffixBounds(cursors, pairSet)
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
			}
		}

		if score, ok := probeNonessential(nonessential, bounds[p:], doc, essentialScore, threshold); ok {
			queue.Insert(score, doc)
		}
	}
}

// MaxScore runs the MaxScore algorithm (spec.md §4.4): cursors sorted by
// descending upper bound; essential terms (front of the array) drive
// candidate docids, non-essential terms (tail) are probed lazily and only
// when they could still change the outcome. Grounded on
// original_source's maxscore_query::run_sorted / operator().
func MaxScore(cursors []*cursor.MaxScoredCursor, queue *topkqueue.Queue) {
	sortDescByMaxScore(cursors)
	runMaxScore(cursors, nil, queue)
}

// MaxScorePairAware runs MaxScore sorted by increasing list length rather
// than bound, deduping a pair's non-essential upper-bound contribution with
// a pkg/bitvec.PairSet the same way WANDPairAware dedupes its pivot sum
// (spec.md §4.4). Grounded on maxscore_query::run_sorted_aware /
// pair_aware_maxscore. numPairs must exceed the largest PairID among
// cursors.
func MaxScorePairAware(cursors []*cursor.MaxScoredCursor, numPairs int, queue *topkqueue.Queue) {
	sortAscByLength(cursors)
	runMaxScore(cursors, bitvec.NewPairSet(numPairs), queue)
}
