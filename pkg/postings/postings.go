// Package postings defines the external posting-list and block-max
// contracts the query core consumes (spec.md §3, "external contract"), plus
// reference in-memory implementations grounded on the teacher's dual-mode
// slice/bitmap posting lists (pkg/qgram/posting_list.go,
// pkg/qgram/uint32_pipeline.go's PatternIterator32).
package postings

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// Cursor is the external posting-list contract: current docid/freq/size,
// with next/next_geq/reset. After NextGEQ(d): DocID() >= d or DocID() ==
// MaxDocID.
type Cursor interface {
	DocID() uint32
	Freq() uint32
	Size() int
	Next()
	NextGEQ(target uint32)
	Reset()
}

// MaxDocID is the sentinel marking cursor exhaustion: the largest uint32,
// not the collection's document count.
const MaxDocID = ^uint32(0)

// SliceCursor walks a sorted, deduplicated []uint32 of docids with parallel
// frequencies. Grounded directly on the teacher's PatternIterator32 (binary
// search Seek becomes NextGEQ).
type SliceCursor struct {
	docs  []uint32
	freqs []uint32
	idx   int
}

// NewSliceCursor builds a cursor over docs/freqs, which must be the same
// length and sorted ascending by docid.
func NewSliceCursor(docs, freqs []uint32) *SliceCursor {
	return &SliceCursor{docs: docs, freqs: freqs}
}

func (c *SliceCursor) DocID() uint32 {
	if c.idx >= len(c.docs) {
		return MaxDocID
	}
	return c.docs[c.idx]
}

func (c *SliceCursor) Freq() uint32 {
	if c.idx >= len(c.freqs) {
		return 0
	}
	return c.freqs[c.idx]
}

func (c *SliceCursor) Size() int { return len(c.docs) }

func (c *SliceCursor) Next() {
	if c.idx < len(c.docs) {
		c.idx++
	}
}

// NextGEQ advances to the first docid >= target via binary search, mirroring
// PatternIterator32.Seek.
func (c *SliceCursor) NextGEQ(target uint32) {
	if c.DocID() >= target {
		return
	}
	lo, hi := c.idx, len(c.docs)
	for lo < hi {
		mid := lo + (hi-lo)/2
		if c.docs[mid] >= target {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	c.idx = lo
}

func (c *SliceCursor) Reset() { c.idx = 0 }

// RoaringCursor walks a roaring.Bitmap of docids with a uniform frequency of
// 1 (frequency-less boolean postings). Grounded on
// pkg/qgram/posting_list.go's BitmapPostings.
type RoaringCursor struct {
	bm      *roaring.Bitmap
	it      roaring.IntPeekable
	current uint32
	size    int
	done    bool
}

// NewRoaringCursor wraps a roaring bitmap of docids.
func NewRoaringCursor(bm *roaring.Bitmap) *RoaringCursor {
	c := &RoaringCursor{bm: bm, size: int(bm.GetCardinality())}
	c.Reset()
	return c
}

func (c *RoaringCursor) DocID() uint32 {
	if c.done {
		return MaxDocID
	}
	return c.current
}

func (c *RoaringCursor) Freq() uint32 { return 1 }

func (c *RoaringCursor) Size() int { return c.size }

func (c *RoaringCursor) Next() {
	if c.done {
		return
	}
	if c.it.HasNext() {
		c.current = c.it.Next()
	} else {
		c.done = true
	}
}

func (c *RoaringCursor) NextGEQ(target uint32) {
	if c.done || c.current >= target {
		return
	}
	c.it.AdvanceIfNeeded(target)
	if !c.it.HasNext() {
		c.done = true
		return
	}
	c.current = c.it.Next()
}

func (c *RoaringCursor) Reset() {
	c.it = c.bm.Iterator()
	c.done = !c.it.HasNext()
	if !c.done {
		c.current = c.it.Next()
	}
}

// BuildSortedSlice returns a sorted, deduplicated copy of docs — a small
// helper; only the package's own tests call it.
func BuildSortedSlice(docs []uint32) []uint32 {
	out := append([]uint32(nil), docs...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	write := 0
	for read := 0; read < len(out); read++ {
		if read == 0 || out[read] != out[read-1] {
			out[write] = out[read]
			write++
		}
	}
	return out[:write]
}
