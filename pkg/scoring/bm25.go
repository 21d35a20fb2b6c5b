// Package scoring provides the reference scorer the spec treats as an
// opaque external collaborator (spec.md §1), plus the cursor-factory math
// that computes each term's max_score / low_max_score / high_list_len from
// an index's posting statistics (spec.md §3, §4.7). Grounded on the
// teacher's pkg/resorank/math.go BM25 helpers.
package scoring

import "math"

// CorpusStats are the corpus-wide numbers BM25 needs beyond a single
// posting list: total document count and average document length.
type CorpusStats struct {
	TotalDocs      float64
	AvgFieldLength float64
}

// BM25 is the reference term scorer. K1 and B are the usual BM25
// saturation/length-normalization knobs.
type BM25 struct {
	K1 float64
	B  float64
}

// DefaultBM25 mirrors the teacher's resorank defaults (k1=1.2, b=0.75).
func DefaultBM25() BM25 {
	return BM25{K1: 1.2, B: 0.75}
}

// IDF computes inverse document frequency: ln(1 + (N - df + 0.5)/(df + 0.5)).
func IDF(totalDocs float64, docFreq int) float64 {
	if docFreq == 0 {
		return 0
	}
	df := float64(docFreq)
	ratio := (totalDocs - df + 0.5) / (df + 0.5)
	if ratio < 0 {
		ratio = 0
	}
	return math.Log(1.0 + ratio)
}

// saturate applies BM25's TF saturation: ((k1+1)*score) / (k1+score).
func saturate(score, k1 float64) float64 {
	if score <= 0 {
		return 0
	}
	if k1 <= 0 {
		return score
	}
	return ((k1 + 1.0) * score) / (k1 + score)
}

// normalizedTF applies BM25's length normalization to a raw frequency.
func normalizedTF(tf int, fieldLen int, avgFieldLen, b float64) float64 {
	if avgFieldLen <= 0 || tf == 0 {
		return 0
	}
	denom := 1.0 - b + b*(float64(fieldLen)/avgFieldLen)
	if denom <= 0 {
		return 0
	}
	return float64(tf) / denom
}

// TermScorer returns a scoring closure for one term, given its document
// frequency and the corpus stats; fieldLen defaults to the corpus average
// when no per-document length table is available (the query core only
// needs relative ordering, not absolute BM25 fidelity).
func (s BM25) TermScorer(docFreq int, stats CorpusStats) func(docid, freq uint32) float32 {
	idf := IDF(stats.TotalDocs, docFreq)
	avgLen := stats.AvgFieldLength
	k1, b := s.K1, s.B
	return func(_ uint32, freq uint32) float32 {
		tf := normalizedTF(int(freq), int(avgLen), avgLen, b)
		return float32(idf * saturate(tf, k1))
	}
}

// MaxWeight computes the upper bound on a term's BM25 contribution, reached
// at the maximum observed raw term frequency in its posting list
// (maxTF), used to populate MaxScoredCursor.MaxScore (spec.md §3/§4.7).
func (s BM25) MaxWeight(docFreq int, maxTF int, stats CorpusStats) float32 {
	scorer := s.TermScorer(docFreq, stats)
	return scorer(0, uint32(maxTF))
}
