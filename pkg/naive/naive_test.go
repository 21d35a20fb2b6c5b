package naive

import (
	"testing"

	"github.com/kittclouds/topk/pkg/cursor"
	"github.com/kittclouds/topk/pkg/postings"
	"github.com/kittclouds/topk/pkg/topkqueue"
)

func scoredCursor(docs, freqs []uint32, weight float64) *cursor.ScoredCursor {
	return cursor.NewScoredCursor(postings.NewSliceCursor(docs, freqs), cursor.Scorer{
		Weight: weight,
		Score:  func(_, freq uint32) float32 { return float32(freq) },
	})
}

func TestEvaluateUnionsAllDocuments(t *testing.T) {
	a := scoredCursor([]uint32{1, 3}, []uint32{2, 5}, 1)
	b := scoredCursor([]uint32{3, 4}, []uint32{1, 7}, 1)

	q := topkqueue.New(10)
	Evaluate([]*cursor.ScoredCursor{a, b}, q)

	results := q.Topk()
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3 (docs 1,3,4)", len(results))
	}
	for _, r := range results {
		if r.DocID == 3 && r.Score != 6 {
			t.Errorf("doc 3 score = %v, want 6 (5 from a + 1 from b)", r.Score)
		}
	}
}

func TestEvaluateRespectsCapacity(t *testing.T) {
	a := scoredCursor([]uint32{1, 2, 3}, []uint32{1, 5, 2}, 1)
	q := topkqueue.New(2)
	Evaluate([]*cursor.ScoredCursor{a}, q)

	results := q.Topk()
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2 (capacity-bounded)", len(results))
	}
	if results[0].DocID != 2 {
		t.Errorf("top result docid = %d, want 2 (highest score 5)", results[0].DocID)
	}
}

func TestEvaluateMaxScoredAgreesWithScoredCursor(t *testing.T) {
	docs, freqs := []uint32{1, 2, 3}, []uint32{4, 1, 9}

	plain := scoredCursor(docs, freqs, 1)
	q1 := topkqueue.New(10)
	Evaluate([]*cursor.ScoredCursor{plain}, q1)

	maxScored := cursor.NewMaxScoredCursor(scoredCursor(docs, freqs, 1), cursor.MaxScoredCursorConfig{MaxScore: 9})
	q2 := topkqueue.New(10)
	EvaluateMaxScored([]*cursor.MaxScoredCursor{maxScored}, q2)

	r1, r2 := q1.Topk(), q2.Topk()
	if len(r1) != len(r2) {
		t.Fatalf("result count differs: %d vs %d", len(r1), len(r2))
	}
	for i := range r1 {
		if r1[i].DocID != r2[i].DocID || r1[i].Score != r2[i].Score {
			t.Errorf("result %d differs: %+v vs %+v", i, r1[i], r2[i])
		}
	}
}
