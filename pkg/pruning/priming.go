package pruning

import "github.com/kittclouds/topk/pkg/topkqueue"

// primeable is satisfied by *cursor.MaxScoredCursor and *cursor.PairedCursor.
type primeable interface {
	SafeThreshold(k int) float32
}

// Prime seeds queue's floor from every cursor's SafeThreshold(k) before an
// algorithm starts pruning (spec.md §4.7): when a pair's shorter side has
// at least k postings, every one of those postings is provably scored at
// least as high as the longer side's maximum, so that value is a sound
// initial top-k floor even before a single document has been evaluated.
func Prime[C primeable](cursors []C, k int, queue *topkqueue.Queue) {
	for _, c := range cursors {
		queue.SetThreshold(float64(c.SafeThreshold(k)))
	}
}
