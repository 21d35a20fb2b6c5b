// Package cursor implements the scored-cursor hierarchy the pruning
// algorithms operate over: ScoredCursor, MaxScoredCursor,
// BlockMaxScoredCursor and PairedCursor (spec.md §4.2). Grounded on the
// teacher's pkg/qgram/uint32_pipeline.go (PatternIterator32's next/seek
// shape) and pkg/qgram/scorer.go (the weight + scoring-closure pattern).
package cursor

import (
	"github.com/kittclouds/topk/pkg/postings"
)

// MaxDocID re-exports the posting-list exhaustion sentinel for convenience.
const MaxDocID = postings.MaxDocID

// ScoreFunc scores a (docid, freq) pair for one term. Pre-bound with the
// query-term weight by the cursor wrapper rather than captured in a
// heap-allocated closure per spec.md §9's "Scorer closures" note.
type ScoreFunc func(docid, freq uint32) float32

// Scorer couples a query-term weight with a scoring callable.
type Scorer struct {
	Weight float64
	Score  ScoreFunc
}

// Apply scores the given posting, pre-multiplied by the query weight.
func (s Scorer) Apply(docid, freq uint32) float32 {
	return float32(s.Weight) * s.Score(docid, freq)
}

// ScoredCursor wraps a raw posting cursor with a query-term weight and
// scorer closure.
type ScoredCursor struct {
	Base   postings.Cursor
	scorer Scorer
}

// NewScoredCursor builds a ScoredCursor over base, scoring with scorer.
func NewScoredCursor(base postings.Cursor, scorer Scorer) *ScoredCursor {
	return &ScoredCursor{Base: base, scorer: scorer}
}

func (c *ScoredCursor) DocID() uint32          { return c.Base.DocID() }
func (c *ScoredCursor) Freq() uint32           { return c.Base.Freq() }
func (c *ScoredCursor) Size() int              { return c.Base.Size() }
func (c *ScoredCursor) Next()                  { c.Base.Next() }
func (c *ScoredCursor) NextGEQ(target uint32)  { c.Base.NextGEQ(target) }
func (c *ScoredCursor) Reset()                 { c.Base.Reset() }
func (c *ScoredCursor) QueryWeight() float64   { return c.scorer.Weight }
func (c *ScoredCursor) Score() float32 {
	return c.scorer.Apply(c.Base.DocID(), c.Base.Freq())
}

// MaxScoredCursor adds the term's global maximum contribution, plus pair
// metadata: the paired list's id, its max score and the shorter-list length
// used for threshold priming (spec.md §3 MaxScoredCursor invariants).
type MaxScoredCursor struct {
	*ScoredCursor

	maxScore      float32
	pairedMax     float32 // low_max_score: max-score of the longer side, set on both sides of a pair
	pairID        uint32
	highListLen   int // shorter list's length, or 0 if duplicate (no priming)
	isDuplicate   bool
}

// MaxScoredCursorConfig bundles the factory-computed values a
// MaxScoredCursor needs beyond the base ScoredCursor.
type MaxScoredCursorConfig struct {
	MaxScore    float32
	LowMaxScore float32
	PairID      uint32
	HighListLen int
	IsDuplicate bool
}

// NewMaxScoredCursor builds a MaxScoredCursor from a ScoredCursor and its
// pair metadata.
func NewMaxScoredCursor(base *ScoredCursor, cfg MaxScoredCursorConfig) *MaxScoredCursor {
	highListLen := cfg.HighListLen
	if cfg.IsDuplicate {
		highListLen = 0
	}
	return &MaxScoredCursor{
		ScoredCursor: base,
		maxScore:     cfg.MaxScore,
		pairedMax:    cfg.LowMaxScore,
		pairID:       cfg.PairID,
		highListLen:  highListLen,
		isDuplicate:  cfg.IsDuplicate,
	}
}

// MaxScore is the precomputed upper bound on this term's contribution to any
// document.
func (c *MaxScoredCursor) MaxScore() float32 { return c.maxScore }

// LowMaxScore is the max-score of the longer of the two paired lists. The
// scoring factory gives both sides of a pair the same value.
func (c *MaxScoredCursor) LowMaxScore() float32 { return c.pairedMax }

// PairID identifies the logical term this cursor's list belongs to; HIGH and
// LOW sides of the same term share a PairID.
func (c *MaxScoredCursor) PairID() uint32 { return c.pairID }

// IsDuplicate reports whether this pair degenerated (only one side present).
func (c *MaxScoredCursor) IsDuplicate() bool { return c.isDuplicate }

// SafeThreshold returns low_max_score() if the shorter side of the pair has
// at least k documents, else 0 (spec.md §4.2, §4.7). Correctness depends on
// the HIGH/LOW split invariant: every one of those k documents also appears
// in the longer list, so the final threshold is at least this value.
func (c *MaxScoredCursor) SafeThreshold(k int) float32 {
	if k <= c.highListLen {
		return c.pairedMax
	}
	return 0
}

// BlockMaxScoredCursor further adds a block-max enumerator for tighter
// per-block upper bounds (spec.md §4.2).
type BlockMaxScoredCursor struct {
	*MaxScoredCursor
	Block postings.BlockMaxEnum
}

// NewBlockMaxScoredCursor attaches a block-max enumerator to a
// MaxScoredCursor.
func NewBlockMaxScoredCursor(base *MaxScoredCursor, block postings.BlockMaxEnum) *BlockMaxScoredCursor {
	return &BlockMaxScoredCursor{MaxScoredCursor: base, Block: block}
}

func (c *BlockMaxScoredCursor) BlockMaxScore() float32 {
	return c.Block.BlockMaxScore() * float32(c.QueryWeight())
}

func (c *BlockMaxScoredCursor) BlockMaxDocID() uint32 { return c.Block.BlockMaxDocID() }

func (c *BlockMaxScoredCursor) BlockMaxNextGEQ(target uint32) { c.Block.NextGEQ(target) }

func (c *BlockMaxScoredCursor) BlockMaxReset() { c.Block.Reset() }
