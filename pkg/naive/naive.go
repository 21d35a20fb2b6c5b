// Package naive implements a brute-force disjunctive (OR) top-k evaluator
// with no pruning at all: every cursor is walked to exhaustion, every
// document with at least one matching term is scored, and the final top-k
// is read off an ordinary topkqueue.Queue. It exists to make spec.md §8's
// "Correctness vs. exhaustive" property testable — every pruning algorithm
// in pkg/pruning must agree with this package's output on every fixture.
// Grounded on the teacher's pkg/qgram/query.go linear scan pattern,
// generalized from single-list lookup to a full multi-cursor union scan.
package naive

import (
	"github.com/kittclouds/topk/pkg/cursor"
	"github.com/kittclouds/topk/pkg/topkqueue"
)

type scored interface {
	DocID() uint32
	Score() float32
	Next()
}

const maxDocID = cursor.MaxDocID

// Evaluate runs an exhaustive OR scan over cursors, inserting every
// visited document's summed score into queue.
func Evaluate(cursors []*cursor.ScoredCursor, queue *topkqueue.Queue) {
	live := toScored(cursors)
	evaluate(live, queue)
}

// EvaluateMaxScored is Evaluate's counterpart for *cursor.MaxScoredCursor,
// so naive can be run directly against the same cursors the pruning
// algorithms consume, without rebuilding a parallel reference index.
func EvaluateMaxScored(cursors []*cursor.MaxScoredCursor, queue *topkqueue.Queue) {
	live := make([]scored, len(cursors))
	for i, c := range cursors {
		live[i] = c
	}
	evaluate(live, queue)
}

func toScored(cursors []*cursor.ScoredCursor) []scored {
	live := make([]scored, len(cursors))
	for i, c := range cursors {
		live[i] = c
	}
	return live
}

func evaluate(cursors []scored, queue *topkqueue.Queue) {
	for {
		doc := uint32(maxDocID)
		for _, c := range cursors {
			if c.DocID() < doc {
				doc = c.DocID()
			}
		}
		if doc == maxDocID {
			return
		}

		var score float64
		for _, c := range cursors {
			if c.DocID() == doc {
				score += float64(c.Score())
				c.Next()
			}
		}
		queue.Insert(score, doc)
	}
}
