package cursor

// PairedCursor fuses a term's HIGH and LOW variant cursors into a single
// cursor that always exposes the smaller of the two frontier docids
// (spec.md §4.2). Both underlying lists cover disjoint documents, so the
// two sides never need to be summed at the same docid.
type PairedCursor struct {
	sides   [2]*MaxScoredCursor
	current int // 0 or 1: the side holding the smaller docid
	same    bool
}

// NewPairedCursor builds a PairedCursor over the HIGH (a) and LOW (b) sides
// of one logical term. If a and b are the same cursor (a duplicate pair,
// spec.md §3), same is true and the cursor behaves as a passthrough.
func NewPairedCursor(a, b *MaxScoredCursor) *PairedCursor {
	p := &PairedCursor{sides: [2]*MaxScoredCursor{a, b}, same: a == b}
	p.reselect()
	return p
}

// reselect sets current to the side with the smaller docid, ties going to
// side 0 (spec.md's PairedCursor invariant).
func (p *PairedCursor) reselect() {
	if p.same || p.sides[1].DocID() >= p.sides[0].DocID() {
		p.current = 0
	} else {
		p.current = 1
	}
}

func (p *PairedCursor) active() *MaxScoredCursor { return p.sides[p.current] }

func (p *PairedCursor) DocID() uint32 { return p.active().DocID() }
func (p *PairedCursor) Freq() uint32  { return p.active().Freq() }
func (p *PairedCursor) Size() int     { return p.sides[0].Size() + p.sides[1].Size() }

// Score scores using whichever side is currently active.
func (p *PairedCursor) Score() float32 { return p.active().Score() }

// MaxScore returns the max for the currently active side, so a HIGH
// contribution bounds at its larger max and a LOW contribution at its
// smaller one (spec.md §4.2).
func (p *PairedCursor) MaxScore() float32 { return p.active().MaxScore() }

// LowMaxScore forwards the pair's canonical low_max_score.
func (p *PairedCursor) LowMaxScore() float32 { return p.active().LowMaxScore() }

// PairID forwards the shared pair id.
func (p *PairedCursor) PairID() uint32 { return p.active().PairID() }

// SafeThreshold forwards to the active side's priming bound.
func (p *PairedCursor) SafeThreshold(k int) float32 { return p.active().SafeThreshold(k) }

// Next advances the current side and re-selects.
func (p *PairedCursor) Next() {
	if p.same {
		p.sides[0].Next()
		return
	}
	p.sides[p.current].Next()
	p.reselect()
}

// NextGEQ advances the current side, then also advances the other side if
// its docid is still below target, and re-selects. Afterwards DocID() is
// >= target or MaxDocID, as postings.Cursor's NextGEQ contract states.
func (p *PairedCursor) NextGEQ(target uint32) {
	if p.same {
		p.sides[0].NextGEQ(target)
		return
	}
	p.sides[p.current].NextGEQ(target)
	if p.sides[1-p.current].DocID() < target {
		p.sides[1-p.current].NextGEQ(target)
	}
	p.reselect()
}

func (p *PairedCursor) Reset() {
	p.sides[0].Reset()
	if !p.same {
		p.sides[1].Reset()
	}
	p.reselect()
}

// NonConsideredHighDocID returns the HIGH-side docid when the current side
// is LOW, used by the pair-aware WAND variant to decide whether an early
// termination is safe (spec.md §4.2).
func (p *PairedCursor) NonConsideredHighDocID() uint32 {
	if p.same || p.current == 0 {
		return MaxDocID
	}
	return p.sides[0].DocID()
}

// Same reports whether this pair degenerated to a single underlying cursor.
func (p *PairedCursor) Same() bool { return p.same }
