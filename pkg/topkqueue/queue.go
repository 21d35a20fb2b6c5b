// Package topkqueue implements the bounded top-k min-heap shared by every
// pruning algorithm: capacity k, an externally settable floor threshold, and
// the would_enter/insert contract the WAND family prunes against.
package topkqueue

import "container/heap"

// entry is one (score, docid) pair held in the heap.
type entry struct {
	score float64
	docid uint32
	seq   uint64 // insertion order, for deterministic tie-breaking
}

// heapSlice is a min-heap on score, so the smallest score sits at the root
// and is the cheapest element to evict when the queue is full.
type heapSlice []entry

func (h heapSlice) Len() int { return len(h) }
func (h heapSlice) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score < h[j].score
	}
	// Among equal scores the larger docid sits nearer the root, so it is
	// the one evicted first and lower docids are kept; see spec.md §5
	// "Ordering guarantees". Topk orders equal scores by insertion order.
	return h[i].docid > h[j].docid
}
func (h heapSlice) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *heapSlice) Push(x any)   { *h = append(*h, x.(entry)) }
func (h *heapSlice) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// Queue is a bounded min-heap of (score, docid) pairs with an explicit
// floor threshold, used both to prune queries and to receive a primed
// initial lower bound (spec.md §4.1).
type Queue struct {
	capacity  int
	heap      heapSlice
	threshold float64
	nextSeq   uint64
}

// New returns an empty queue with the given capacity k.
func New(k int) *Queue {
	return &Queue{
		capacity: k,
		heap:     make(heapSlice, 0, k),
	}
}

// Capacity returns k.
func (q *Queue) Capacity() int { return q.capacity }

// Len returns the number of entries currently held.
func (q *Queue) Len() int { return len(q.heap) }

// Threshold returns the current floor: max(explicit floor, heap min if full).
func (q *Queue) Threshold() float64 { return q.threshold }

// WouldEnter reports whether score could still make it into the queue.
// Cheap, does not mutate state.
func (q *Queue) WouldEnter(score float64) bool {
	return score > q.threshold
}

// SetThreshold raises the explicit floor. It never lowers the effective
// threshold below the current heap minimum, and is the priming entry point
// (spec.md §4.7).
func (q *Queue) SetThreshold(t float64) {
	if t > q.threshold {
		q.threshold = t
	}
}

// Insert attempts to add (score, docid) to the queue. It returns true if the
// entry entered (either because the queue had spare capacity, or because it
// beat the current minimum and evicted it). After insertion the threshold is
// refreshed to max(explicit floor, heap min when full).
func (q *Queue) Insert(score float64, docid uint32) bool {
	if q.capacity == 0 {
		return false
	}
	if len(q.heap) < q.capacity {
		q.nextSeq++
		heap.Push(&q.heap, entry{score: score, docid: docid, seq: q.nextSeq})
		if len(q.heap) == q.capacity {
			q.refreshThreshold()
		}
		return true
	}
	if score <= q.heap[0].score {
		return false
	}
	q.nextSeq++
	q.heap[0] = entry{score: score, docid: docid, seq: q.nextSeq}
	heap.Fix(&q.heap, 0)
	q.refreshThreshold()
	return true
}

func (q *Queue) refreshThreshold() {
	if len(q.heap) < q.capacity {
		return
	}
	if q.heap[0].score > q.threshold {
		q.threshold = q.heap[0].score
	}
}

// Result is one ranked (docid, score) pair returned by Topk.
type Result struct {
	DocID uint32
	Score float64
}

// Topk returns the held entries sorted descending by score, ties broken by
// insertion order (earlier insertions first).
func (q *Queue) Topk() []Result {
	sorted := make([]entry, len(q.heap))
	copy(sorted, q.heap)
	// Simple insertion sort is fine: k is small by construction.
	for i := 1; i < len(sorted); i++ {
		e := sorted[i]
		j := i - 1
		for j >= 0 && less(e, sorted[j]) {
			sorted[j+1] = sorted[j]
			j--
		}
		sorted[j+1] = e
	}
	out := make([]Result, len(sorted))
	for i, e := range sorted {
		out[i] = Result{DocID: e.docid, Score: e.score}
	}
	return out
}

// less reports whether a sorts before b in the descending topk ordering.
func less(a, b entry) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.seq < b.seq
}
