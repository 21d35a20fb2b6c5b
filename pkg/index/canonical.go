// Package index implements the canonical docs/freqs/terms binary index
// format (spec.md §6) and the offline HIGH/LOW decomposer that splits a
// whole-impact index into the two-list-per-term layout the query core
// expects. Grounded directly on original_source's tools/split_index.cpp
// (the literal PISA decomposer this spec is distilled from) and the
// teacher's pkg/qgram/payload_store.go (little-endian length-prefixed
// record I/O).
package index

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// ErrAlignment is returned when a .docs/.freqs pair disagree on a list's
// length — a fatal, unrecoverable condition (spec.md §7, error kind 3).
var ErrAlignment = errors.New("index: docs/freqs sequence length mismatch")

// List is one term's posting list: parallel docids and raw term
// frequencies.
type List struct {
	Term  string
	Docs  []uint32
	Freqs []uint32
}

// Collection is an in-memory canonical index: one List per lexicon entry,
// in the same order as the lexicon, plus the document count from the
// .docs header.
type Collection struct {
	NumDocs uint32
	Lists   []List
}

// ReadCanonical loads a canonical basename's .terms/.docs/.freqs triple
// (spec.md §6). Grounded on split_index.cpp's read loop.
func ReadCanonical(basename string) (*Collection, error) {
	terms, err := readLexicon(basename + ".terms")
	if err != nil {
		return nil, fmt.Errorf("index: read lexicon: %w", err)
	}

	docsFile, err := os.Open(basename + ".docs")
	if err != nil {
		return nil, fmt.Errorf("index: open docs: %w", err)
	}
	defer docsFile.Close()
	freqsFile, err := os.Open(basename + ".freqs")
	if err != nil {
		return nil, fmt.Errorf("index: open freqs: %w", err)
	}
	defer freqsFile.Close()

	docsR := bufio.NewReader(docsFile)
	freqsR := bufio.NewReader(freqsFile)

	var one, numDocs uint32
	if err := readU32(docsR, &one); err != nil {
		return nil, fmt.Errorf("index: read docs header: %w", err)
	}
	if err := readU32(docsR, &numDocs); err != nil {
		return nil, fmt.Errorf("index: read docs header: %w", err)
	}

	col := &Collection{NumDocs: numDocs}
	for _, term := range terms {
		var dLen, fLen uint32
		derr := readU32(docsR, &dLen)
		ferr := readU32(freqsR, &fLen)
		if errors.Is(derr, io.EOF) && errors.Is(ferr, io.EOF) {
			break
		}
		if derr != nil {
			return nil, fmt.Errorf("index: read docs length: %w", derr)
		}
		if ferr != nil {
			return nil, fmt.Errorf("index: read freqs length: %w", ferr)
		}
		if dLen != fLen {
			return nil, fmt.Errorf("%w: term %q (%d docs, %d freqs)", ErrAlignment, term, dLen, fLen)
		}

		docs := make([]uint32, dLen)
		freqs := make([]uint32, dLen)
		for i := uint32(0); i < dLen; i++ {
			if err := readU32(docsR, &docs[i]); err != nil {
				return nil, fmt.Errorf("index: read docid: %w", err)
			}
			if err := readU32(freqsR, &freqs[i]); err != nil {
				return nil, fmt.Errorf("index: read freq: %w", err)
			}
		}
		col.Lists = append(col.Lists, List{Term: term, Docs: docs, Freqs: freqs})
	}
	return col, nil
}

func readLexicon(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var terms []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			terms = append(terms, line)
		}
	}
	return terms, scanner.Err()
}

func readU32(r io.Reader, v *uint32) error {
	return binary.Read(r, binary.LittleEndian, v)
}

func writeU32(w io.Writer, v uint32) error {
	return binary.Write(w, binary.LittleEndian, v)
}

// WriteCanonical writes lists to basename's .docs/.freqs/.terms triple,
// sorted lexicographically by term as split_index.cpp's sort_and_dump
// does, with the standard 2-word [1, numDocs] .docs header.
func WriteCanonical(basename string, numDocs uint32, lists []List) error {
	sort.Slice(lists, func(i, j int) bool { return lists[i].Term < lists[j].Term })

	docsFile, err := os.Create(basename + ".docs")
	if err != nil {
		return fmt.Errorf("index: create docs: %w", err)
	}
	defer docsFile.Close()
	freqsFile, err := os.Create(basename + ".freqs")
	if err != nil {
		return fmt.Errorf("index: create freqs: %w", err)
	}
	defer freqsFile.Close()
	lexFile, err := os.Create(basename + ".terms")
	if err != nil {
		return fmt.Errorf("index: create terms: %w", err)
	}
	defer lexFile.Close()

	docsW := bufio.NewWriter(docsFile)
	freqsW := bufio.NewWriter(freqsFile)
	lexW := bufio.NewWriter(lexFile)

	if err := writeU32(docsW, 1); err != nil {
		return err
	}
	if err := writeU32(docsW, numDocs); err != nil {
		return err
	}
	for _, l := range lists {
		n := uint32(len(l.Docs))
		if err := writeU32(docsW, n); err != nil {
			return err
		}
		if err := writeU32(freqsW, n); err != nil {
			return err
		}
		for i := range l.Docs {
			if err := writeU32(docsW, l.Docs[i]); err != nil {
				return err
			}
			if err := writeU32(freqsW, l.Freqs[i]); err != nil {
				return err
			}
		}
		fmt.Fprintln(lexW, l.Term)
	}

	if err := docsW.Flush(); err != nil {
		return err
	}
	if err := freqsW.Flush(); err != nil {
		return err
	}
	return lexW.Flush()
}

// Decompose splits col into HIGH/LOW lists per term (spec.md §6):
// postings with freq > splits[i] go to "<term>_HIGH", the rest to
// "<term>_LOW"; either side is omitted entirely when empty, which is how
// a degenerate (single-sided) pair arises downstream. splits must have
// one entry per entry in col.Lists. Grounded on split_index.cpp's main
// loop.
//
// The HIGH/LOW docid split itself is computed as a roaring.Bitmap set
// difference rather than a second parallel slice append, mirroring the
// teacher's BitmapPostings usage in pkg/qgram/posting_list.go: every
// term's docids go into one bitmap, the HIGH docids into a second, and
// LOW falls out as AndNot(all, high). Frequencies aren't representable in
// a bitmap, so they're looked up from a docid->freq map while walking
// each side's iterator in ascending docid order.
func Decompose(col *Collection, splits []uint32) ([]List, error) {
	if len(splits) != len(col.Lists) {
		return nil, fmt.Errorf("index: %d splits for %d terms", len(splits), len(col.Lists))
	}
	var out []List
	for i, l := range col.Lists {
		bound := splits[i]

		all := roaring.New()
		high := roaring.New()
		freqOf := make(map[uint32]uint32, len(l.Docs))
		for j, doc := range l.Docs {
			all.Add(doc)
			freqOf[doc] = l.Freqs[j]
			if l.Freqs[j] > bound {
				high.Add(doc)
			}
		}
		low := roaring.AndNot(all, high)

		if !high.IsEmpty() {
			docs, freqs := docsAndFreqs(high, freqOf)
			out = append(out, List{Term: l.Term + "_HIGH", Docs: docs, Freqs: freqs})
		}
		if !low.IsEmpty() {
			docs, freqs := docsAndFreqs(low, freqOf)
			out = append(out, List{Term: l.Term + "_LOW", Docs: docs, Freqs: freqs})
		}
	}
	return out, nil
}

// docsAndFreqs walks bm in ascending docid order, pairing each docid with
// its recorded frequency.
func docsAndFreqs(bm *roaring.Bitmap, freqOf map[uint32]uint32) ([]uint32, []uint32) {
	docs := make([]uint32, 0, bm.GetCardinality())
	freqs := make([]uint32, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		doc := it.Next()
		docs = append(docs, doc)
		freqs = append(freqs, freqOf[doc])
	}
	return docs, freqs
}
