package cursor

import (
	"testing"

	"github.com/kittclouds/topk/pkg/postings"
)

func freqScorer() Scorer {
	return constScorer(1.0, func(_, freq uint32) float32 { return float32(freq) })
}

func newPair(highDocs, highFreqs, lowDocs, lowFreqs []uint32) (*MaxScoredCursor, *MaxScoredCursor) {
	highBase := NewScoredCursor(postings.NewSliceCursor(highDocs, highFreqs), freqScorer())
	lowBase := NewScoredCursor(postings.NewSliceCursor(lowDocs, lowFreqs), freqScorer())
	high := NewMaxScoredCursor(highBase, MaxScoredCursorConfig{MaxScore: 10, LowMaxScore: 2, PairID: 1, HighListLen: len(highDocs)})
	low := NewMaxScoredCursor(lowBase, MaxScoredCursorConfig{MaxScore: 2, LowMaxScore: 2, PairID: 1, HighListLen: len(highDocs)})
	return high, low
}

func TestPairedCursorExposesSmallerFrontier(t *testing.T) {
	high, low := newPair([]uint32{5, 20}, []uint32{1, 1}, []uint32{1, 2, 30}, []uint32{1, 1, 1})
	p := NewPairedCursor(high, low)

	if p.DocID() != 1 {
		t.Fatalf("DocID() = %d, want 1 (LOW side is smaller)", p.DocID())
	}
	p.Next()
	if p.DocID() != 2 {
		t.Fatalf("DocID() after Next = %d, want 2", p.DocID())
	}
	p.Next()
	if p.DocID() != 5 {
		t.Fatalf("DocID() after second Next = %d, want 5 (HIGH side now smallest)", p.DocID())
	}
}

func TestPairedCursorTieGoesToSideZero(t *testing.T) {
	high, low := newPair([]uint32{5}, []uint32{1}, []uint32{5}, []uint32{1})
	p := NewPairedCursor(high, low)
	if p.DocID() != 5 {
		t.Fatalf("DocID() = %d, want 5", p.DocID())
	}
	// Score must come from side 0 (HIGH) on a tie.
	if p.Score() != high.Score() {
		t.Error("tie must resolve to side 0 (HIGH)")
	}
}

func TestPairedCursorNextGEQMaintainsOrderingInvariant(t *testing.T) {
	high, low := newPair([]uint32{10, 50}, []uint32{1, 1}, []uint32{1, 20, 60}, []uint32{1, 1, 1})
	p := NewPairedCursor(high, low)

	p.NextGEQ(15)
	// After NextGEQ(15): HIGH advances to 50, LOW advances to 20. Smaller is 20.
	if p.DocID() < 15 {
		t.Fatalf("NextGEQ(15).DocID() = %d, violates NextGEQ contract", p.DocID())
	}
	if p.DocID() != 20 {
		t.Fatalf("DocID() = %d, want 20", p.DocID())
	}
}

func TestPairedCursorDuplicatePassthrough(t *testing.T) {
	base := NewScoredCursor(postings.NewSliceCursor([]uint32{1, 2}, []uint32{1, 1}), freqScorer())
	single := NewMaxScoredCursor(base, MaxScoredCursorConfig{MaxScore: 5, IsDuplicate: true})
	p := NewPairedCursor(single, single)

	if !p.Same() {
		t.Fatal("Same() = false, want true for a duplicate pair")
	}
	if p.NonConsideredHighDocID() != MaxDocID {
		t.Error("a duplicate pair must never report an unconsidered HIGH posting")
	}
	if p.DocID() != 1 {
		t.Fatalf("DocID() = %d, want 1", p.DocID())
	}
	p.Next()
	if p.DocID() != 2 {
		t.Fatalf("DocID() after Next = %d, want 2", p.DocID())
	}
}

func TestPairedCursorNonConsideredHighDocID(t *testing.T) {
	high, low := newPair([]uint32{100}, []uint32{1}, []uint32{1, 2}, []uint32{1, 1})
	p := NewPairedCursor(high, low)
	// Currently on LOW (docid 1); HIGH still has an unconsidered posting at 100.
	if got := p.NonConsideredHighDocID(); got != 100 {
		t.Fatalf("NonConsideredHighDocID() = %d, want 100", got)
	}
	p.NextGEQ(100)
	// Once the active side reaches/crosses the HIGH side, there's nothing left unconsidered.
	if got := p.NonConsideredHighDocID(); got != MaxDocID {
		t.Fatalf("NonConsideredHighDocID() after crossing = %d, want MaxDocID", got)
	}
}

func TestPairedCursorReset(t *testing.T) {
	high, low := newPair([]uint32{5}, []uint32{1}, []uint32{1, 2}, []uint32{1, 1})
	p := NewPairedCursor(high, low)
	p.Next()
	p.Next()
	p.Reset()
	if p.DocID() != 1 {
		t.Fatalf("DocID() after Reset = %d, want 1", p.DocID())
	}
}
