package cursor

// PairedBlockCursor is PairedCursor's counterpart for the block-max
// algorithms: it fuses a term's HIGH/LOW BlockMaxScoredCursor sides the
// same way PairedCursor fuses plain MaxScoredCursors, additionally
// forwarding the active side's block-max bound (spec.md §4.2, §4.5).
type PairedBlockCursor struct {
	sides   [2]*BlockMaxScoredCursor
	current int
	same    bool
}

// NewPairedBlockCursor builds a PairedBlockCursor over the HIGH (a) and LOW
// (b) block-max sides of one logical term.
func NewPairedBlockCursor(a, b *BlockMaxScoredCursor) *PairedBlockCursor {
	p := &PairedBlockCursor{sides: [2]*BlockMaxScoredCursor{a, b}, same: a == b}
	p.reselect()
	return p
}

func (p *PairedBlockCursor) reselect() {
	if p.same || p.sides[1].DocID() >= p.sides[0].DocID() {
		p.current = 0
	} else {
		p.current = 1
	}
}

func (p *PairedBlockCursor) active() *BlockMaxScoredCursor { return p.sides[p.current] }

func (p *PairedBlockCursor) DocID() uint32   { return p.active().DocID() }
func (p *PairedBlockCursor) Freq() uint32    { return p.active().Freq() }
func (p *PairedBlockCursor) Score() float32  { return p.active().Score() }
func (p *PairedBlockCursor) MaxScore() float32 { return p.active().MaxScore() }
func (p *PairedBlockCursor) PairID() uint32  { return p.active().PairID() }

// SafeThreshold forwards to the active side's priming bound.
func (p *PairedBlockCursor) SafeThreshold(k int) float32 { return p.active().SafeThreshold(k) }

func (p *PairedBlockCursor) BlockMaxScore() float32    { return p.active().BlockMaxScore() }
func (p *PairedBlockCursor) BlockMaxDocID() uint32     { return p.active().BlockMaxDocID() }
func (p *PairedBlockCursor) BlockMaxNextGEQ(target uint32) {
	if p.same {
		p.sides[0].BlockMaxNextGEQ(target)
		return
	}
	p.sides[p.current].BlockMaxNextGEQ(target)
	if p.sides[1-p.current].BlockMaxDocID() < target {
		p.sides[1-p.current].BlockMaxNextGEQ(target)
	}
}

func (p *PairedBlockCursor) Next() {
	if p.same {
		p.sides[0].Next()
		return
	}
	p.sides[p.current].Next()
	p.reselect()
}

func (p *PairedBlockCursor) NextGEQ(target uint32) {
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

func (p *PairedBlockCursor) Reset() {
	p.sides[0].Reset()
	if !p.same {
		p.sides[1].Reset()
	}
	p.reselect()
}

// NonConsideredHighDocID mirrors PairedCursor's (spec.md §4.2).
func (p *PairedBlockCursor) NonConsideredHighDocID() uint32 {
	if p.same || p.current == 0 {
		return MaxDocID
	}
	return p.sides[0].DocID()
}
