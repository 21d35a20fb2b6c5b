package scoring

import (
	"github.com/kittclouds/topk/pkg/cursor"
	"github.com/kittclouds/topk/pkg/postings"
)

// TermStats are the per-list numbers the cursor factory needs to compute a
// term's MaxScore: its document frequency and the largest raw term
// frequency anywhere in its posting list (spec.md §3/§4.7).
type TermStats struct {
	DocFreq int
	MaxTF   int
}

// BuildScoredCursor wraps a raw posting cursor with a BM25 scorer bound to
// the given query weight, the minimal cursor.ScoredCursor the pruning
// algorithms that don't need max-score upper bounds can use directly.
func BuildScoredCursor(base postings.Cursor, weight float64, scorer BM25, stats TermStats, corpus CorpusStats) *cursor.ScoredCursor {
	return cursor.NewScoredCursor(base, cursor.Scorer{
		Weight: weight,
		Score:  scorer.TermScorer(stats.DocFreq, corpus),
	})
}

// PairInput bundles the two sides (HIGH then LOW) of one logical term plus
// each side's stats, as read off an index loader, for BuildMaxScoredPair.
type PairInput struct {
	High, Low           postings.Cursor // Low is nil when the pair degenerates
	HighStats, LowStats TermStats
	HighWeight, LowWeight float64
	PairID              uint32
}

// BuildMaxScoredPair computes the MaxScore/low_max_score/high_list_len
// metadata for one HIGH/LOW pair and wraps both sides as MaxScoredCursors
// ready to feed a PairedCursor (spec.md §3, §4.7's threshold-priming
// invariant: "if the shorter side has >= k documents, each is provably >=
// the longer side's max weight").
func BuildMaxScoredPair(in PairInput, scorer BM25, corpus CorpusStats) (high, low *cursor.MaxScoredCursor) {
	highScored := BuildScoredCursor(in.High, in.HighWeight, scorer, in.HighStats, corpus)
	// query_weight x max_term_weight (spec.md §4.2 item (iii)): MaxScore
	// must bound Score(), which is itself weight-scaled, so the weight has
	// to land here too, not just on the per-posting scorer.
	highMax := float32(in.HighWeight) * scorer.MaxWeight(in.HighStats.DocFreq, in.HighStats.MaxTF, corpus)

	if in.Low == nil {
		high = cursor.NewMaxScoredCursor(highScored, cursor.MaxScoredCursorConfig{
			MaxScore:    highMax,
			PairID:      in.PairID,
			IsDuplicate: true,
		})
		return high, high
	}

	lowScored := BuildScoredCursor(in.Low, in.LowWeight, scorer, in.LowStats, corpus)
	lowMax := float32(in.LowWeight) * scorer.MaxWeight(in.LowStats.DocFreq, in.LowStats.MaxTF, corpus)

	// The shorter list is whichever side has fewer postings; HIGH is shorter
	// by construction in the common case, but the contract makes no such
	// guarantee, so measure both.
	shorterLen := in.HighStats.DocFreq
	longerMax := lowMax
	if in.LowStats.DocFreq < shorterLen {
		shorterLen = in.LowStats.DocFreq
		longerMax = highMax
	}

	high = cursor.NewMaxScoredCursor(highScored, cursor.MaxScoredCursorConfig{
		MaxScore:    highMax,
		LowMaxScore: longerMax,
		PairID:      in.PairID,
		HighListLen: shorterLen,
	})
	low = cursor.NewMaxScoredCursor(lowScored, cursor.MaxScoredCursorConfig{
		MaxScore:    lowMax,
		LowMaxScore: longerMax,
		PairID:      in.PairID,
		HighListLen: shorterLen,
	})
	return high, low
}
