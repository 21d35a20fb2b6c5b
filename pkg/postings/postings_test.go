package postings

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
)

func TestSliceCursorWalk(t *testing.T) {
	docs := []uint32{2, 5, 9, 20}
	freqs := []uint32{1, 3, 2, 7}
	c := NewSliceCursor(docs, freqs)

	if c.Size() != 4 {
		t.Fatalf("Size() = %d, want 4", c.Size())
	}
	for i, want := range docs {
		if c.DocID() != want {
			t.Fatalf("at index %d: DocID() = %d, want %d", i, c.DocID(), want)
		}
		if c.Freq() != freqs[i] {
			t.Fatalf("at index %d: Freq() = %d, want %d", i, c.Freq(), freqs[i])
		}
		c.Next()
	}
	if c.DocID() != MaxDocID {
		t.Fatalf("DocID() past end = %d, want MaxDocID", c.DocID())
	}
}

func TestSliceCursorNextGEQ(t *testing.T) {
	docs := []uint32{2, 5, 9, 20}
	freqs := []uint32{1, 3, 2, 7}

	c := NewSliceCursor(docs, freqs)
	c.NextGEQ(6)
	if c.DocID() != 9 {
		t.Fatalf("NextGEQ(6).DocID() = %d, want 9", c.DocID())
	}

	// NextGEQ must never move backward.
	c.NextGEQ(5)
	if c.DocID() != 9 {
		t.Fatalf("NextGEQ(5) after already past it moved backward to %d", c.DocID())
	}

	c.NextGEQ(100)
	if c.DocID() != MaxDocID {
		t.Fatalf("NextGEQ(100).DocID() = %d, want MaxDocID", c.DocID())
	}
}

func TestSliceCursorReset(t *testing.T) {
	c := NewSliceCursor([]uint32{1, 2, 3}, []uint32{1, 1, 1})
	c.Next()
	c.Next()
	c.Reset()
	if c.DocID() != 1 {
		t.Fatalf("DocID() after Reset = %d, want 1", c.DocID())
	}
}

func TestRoaringCursorWalk(t *testing.T) {
	bm := roaring.New()
	bm.AddMany([]uint32{4, 8, 15, 16, 23})

	c := NewRoaringCursor(bm)
	if c.Size() != 5 {
		t.Fatalf("Size() = %d, want 5", c.Size())
	}
	want := []uint32{4, 8, 15, 16, 23}
	for _, w := range want {
		if c.DocID() != w {
			t.Fatalf("DocID() = %d, want %d", c.DocID(), w)
		}
		if c.Freq() != 1 {
			t.Fatalf("Freq() = %d, want 1 (boolean postings)", c.Freq())
		}
		c.Next()
	}
	if c.DocID() != MaxDocID {
		t.Fatalf("DocID() past end = %d, want MaxDocID", c.DocID())
	}
}

func TestRoaringCursorNextGEQ(t *testing.T) {
	bm := roaring.New()
	bm.AddMany([]uint32{4, 8, 15, 16, 23})
	c := NewRoaringCursor(bm)

	c.NextGEQ(10)
	if c.DocID() != 15 {
		t.Fatalf("NextGEQ(10).DocID() = %d, want 15", c.DocID())
	}
	c.NextGEQ(100)
	if c.DocID() != MaxDocID {
		t.Fatalf("NextGEQ(100).DocID() = %d, want MaxDocID", c.DocID())
	}
}

func TestRoaringCursorReset(t *testing.T) {
	bm := roaring.New()
	bm.AddMany([]uint32{1, 2, 3})
	c := NewRoaringCursor(bm)
	c.Next()
	c.Reset()
	if c.DocID() != 1 {
		t.Fatalf("DocID() after Reset = %d, want 1", c.DocID())
	}
}

func TestBuildSortedSliceDedupesAndSorts(t *testing.T) {
	got := BuildSortedSlice([]uint32{5, 1, 5, 3, 1, 2})
	want := []uint32{1, 2, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
