package scoring

import (
	"testing"

	"github.com/kittclouds/topk/pkg/postings"
)

func TestBuildMaxScoredPairDuplicateDegenerate(t *testing.T) {
	corpus := CorpusStats{TotalDocs: 100, AvgFieldLength: 10}
	bm25 := DefaultBM25()

	in := PairInput{
		High:       postings.NewSliceCursor([]uint32{1, 2}, []uint32{1, 2}),
		HighStats:  TermStats{DocFreq: 2, MaxTF: 2},
		HighWeight: 1,
		PairID:     7,
	}
	high, low := BuildMaxScoredPair(in, bm25, corpus)
	if high != low {
		t.Fatal("a degenerate pair (Low == nil) must return the same cursor for both sides")
	}
	if !high.IsDuplicate() {
		t.Error("IsDuplicate() = false, want true")
	}
	if high.PairID() != 7 {
		t.Errorf("PairID() = %d, want 7", high.PairID())
	}
}

func TestBuildMaxScoredPairLowMaxScoreIsLongerSidesMax(t *testing.T) {
	corpus := CorpusStats{TotalDocs: 1000, AvgFieldLength: 10}
	bm25 := DefaultBM25()

	// HIGH is the shorter, rarer list (2 docs); LOW is longer (50 docs).
	in := PairInput{
		High:       postings.NewSliceCursor([]uint32{1, 2}, []uint32{9, 9}),
		HighStats:  TermStats{DocFreq: 2, MaxTF: 9},
		HighWeight: 1,
		Low:        postings.NewSliceCursor([]uint32{3, 4}, []uint32{1, 1}),
		LowStats:   TermStats{DocFreq: 50, MaxTF: 1},
		LowWeight:  1,
		PairID:     3,
	}
	high, low := BuildMaxScoredPair(in, bm25, corpus)

	wantLongerMax := bm25.MaxWeight(in.LowStats.DocFreq, in.LowStats.MaxTF, corpus)
	if high.LowMaxScore() != wantLongerMax {
		t.Errorf("high.LowMaxScore() = %v, want the longer (LOW) side's max %v", high.LowMaxScore(), wantLongerMax)
	}
	if low.LowMaxScore() != high.LowMaxScore() {
		t.Error("both sides of a pair must agree on LowMaxScore()")
	}
	if high.PairID() != 3 || low.PairID() != 3 {
		t.Error("both sides must share the same PairID")
	}
}

func TestBuildMaxScoredPairShorterSideDeterminedByDocFreqNotArgOrder(t *testing.T) {
	corpus := CorpusStats{TotalDocs: 1000, AvgFieldLength: 10}
	bm25 := DefaultBM25()

	// Here "High" is actually the longer list; the factory must still find
	// the true shorter side for HighListLen/LowMaxScore rather than assuming
	// High is always shorter.
	in := PairInput{
		High:       postings.NewSliceCursor([]uint32{1, 2, 3}, []uint32{1, 1, 1}),
		HighStats:  TermStats{DocFreq: 50, MaxTF: 1},
		HighWeight: 1,
		Low:        postings.NewSliceCursor([]uint32{4, 5}, []uint32{9, 9}),
		LowStats:   TermStats{DocFreq: 2, MaxTF: 9},
		LowWeight:  1,
		PairID:     1,
	}
	high, _ := BuildMaxScoredPair(in, bm25, corpus)

	wantShorterLen := in.LowStats.DocFreq
	if got := high.SafeThreshold(wantShorterLen); got == 0 {
		t.Error("SafeThreshold at exactly the true shorter side's length should prime a nonzero bound")
	}
}

func TestBuildMaxScoredPairScalesMaxScoreByQueryWeight(t *testing.T) {
	corpus := CorpusStats{TotalDocs: 100, AvgFieldLength: 10}
	bm25 := DefaultBM25()

	base := PairInput{
		High:       postings.NewSliceCursor([]uint32{1, 2}, []uint32{1, 2}),
		HighStats:  TermStats{DocFreq: 2, MaxTF: 2},
		HighWeight: 1,
		PairID:     0,
	}
	weighted := base
	weighted.High = postings.NewSliceCursor([]uint32{1, 2}, []uint32{1, 2})
	weighted.HighWeight = 2

	plain, _ := BuildMaxScoredPair(base, bm25, corpus)
	doubled, _ := BuildMaxScoredPair(weighted, bm25, corpus)

	if doubled.MaxScore() != plain.MaxScore()*2 {
		t.Errorf("MaxScore() must scale with query_weight: got %v, want %v", doubled.MaxScore(), plain.MaxScore()*2)
	}
}

func TestBuildScoredCursorAppliesWeight(t *testing.T) {
	corpus := CorpusStats{TotalDocs: 100, AvgFieldLength: 10}
	bm25 := DefaultBM25()
	base := postings.NewSliceCursor([]uint32{1}, []uint32{5})

	sc1 := BuildScoredCursor(base, 1.0, bm25, TermStats{DocFreq: 10, MaxTF: 5}, corpus)
	base2 := postings.NewSliceCursor([]uint32{1}, []uint32{5})
	sc2 := BuildScoredCursor(base2, 2.0, bm25, TermStats{DocFreq: 10, MaxTF: 5}, corpus)

	if sc2.Score() != sc1.Score()*2 {
		t.Errorf("doubling the query weight should double the score: %v vs %v", sc2.Score(), sc1.Score())
	}
}
