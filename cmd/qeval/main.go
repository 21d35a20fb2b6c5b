// Command qeval is the end-to-end demonstration CLI: it loads a
// decomposed HIGH/LOW canonical index and a wire-format query file, runs
// every pruning algorithm in pkg/pruning plus the pkg/naive exhaustive
// reference, and prints each one's top-k one line after another so the
// outputs can be compared by eye; it does not compare them itself — exercising
// the whole pipeline the way the teacher's cmd/storetest exercises its
// own storage layer end to end.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kittclouds/topk/pkg/cursor"
	"github.com/kittclouds/topk/pkg/evalconfig"
	"github.com/kittclouds/topk/pkg/index"
	"github.com/kittclouds/topk/pkg/naive"
	"github.com/kittclouds/topk/pkg/postings"
	"github.com/kittclouds/topk/pkg/pruning"
	"github.com/kittclouds/topk/pkg/query"
	"github.com/kittclouds/topk/pkg/queryio"
	"github.com/kittclouds/topk/pkg/scoring"
	"github.com/kittclouds/topk/pkg/topkqueue"
)

const blockSize = 64

func main() {
	indexBase := flag.String("index", "", "decomposed canonical index basename")
	queriesPath := flag.String("queries", "", "wire-format query file")
	configPath := flag.String("config", "", "optional YAML file supplying -k/-prime/BM25 k1,b (pkg/evalconfig); flags given on the command line win")
	k := flag.Int("k", 10, "top-k size")
	prime := flag.Bool("prime", false, "seed the queue with each pair's safe threshold before pruning")
	k1 := flag.Float64("k1", 1.2, "BM25 term-frequency saturation coefficient")
	b := flag.Float64("b", 0.75, "BM25 length-normalization coefficient")
	flag.Parse()

	if *indexBase == "" || *queriesPath == "" {
		fmt.Fprintln(os.Stderr, "usage: qeval -index <basename> -queries <path> [-k N] [-prime] [-config path]")
		os.Exit(2)
	}

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	bm25 := scoring.BM25{K1: *k1, B: *b}
	if *configPath != "" {
		cfg, err := evalconfig.Load(*configPath)
		if err != nil {
			log.Fatalf("qeval: %v", err)
		}
		applyConfig(cfg, explicit, k, prime, &bm25)
	}

	col, err := index.ReadCanonical(*indexBase)
	if err != nil {
		log.Fatalf("qeval: %v", err)
	}

	dict := make(queryio.MapDictionary, len(col.Lists))
	for i, l := range col.Lists {
		dict[l.Term] = query.TermID(i)
	}

	qf, err := os.Open(*queriesPath)
	if err != nil {
		log.Fatalf("qeval: %v", err)
	}
	defer qf.Close()

	parser := queryio.NewParser(dict)
	queries, err := parser.ParseAll(qf, func(line string, err error) {
		log.Printf("qeval: skipping malformed query %q: %v", line, err)
	})
	if err != nil {
		log.Fatalf("qeval: %v", err)
	}

	corpus := scoring.CorpusStats{TotalDocs: float64(col.NumDocs), AvgFieldLength: 100}

	for _, q := range queries {
		if q.Empty() {
			fmt.Printf("query %q: empty, no-op\n", q.ID)
			continue
		}
		runQuery(col, corpus, bm25, q, *k, *prime)
	}
}

// applyConfig overlays an EvalConfig onto the flag-derived defaults. A flag
// the operator actually passed on the command line always wins over the
// config file, so -config can supply a baseline an ad-hoc -k or -prime
// still overrides.
func applyConfig(cfg *evalconfig.EvalConfig, explicit map[string]bool, k *int, prime *bool, bm25 *scoring.BM25) {
	if cfg.TopK != 0 && !explicit["k"] {
		*k = cfg.TopK
	}
	if cfg.Prime != nil && !explicit["prime"] {
		*prime = *cfg.Prime
	}
	if cfg.K1 != 0 && !explicit["k1"] {
		bm25.K1 = cfg.K1
	}
	if cfg.B != 0 && !explicit["b"] {
		bm25.B = cfg.B
	}
}

type evalSet struct {
	flat       []*cursor.MaxScoredCursor
	pairs      []*cursor.PairedCursor
	blockFlat  []*cursor.BlockMaxScoredCursor
	blockPairs []*cursor.PairedBlockCursor
	high, low  []*cursor.MaxScoredCursor
	numPairs   int
}

// build constructs a completely fresh set of cursors over col for q —
// every algorithm run needs its own independent cursor instances, since
// NextGEQ/Next mutate position state in place.
func build(col *index.Collection, corpus scoring.CorpusStats, bm25 scoring.BM25, q *query.Query) evalSet {
	var es evalSet
	es.numPairs = len(q.Pairs)

	// query_weight per term id, via the sorted group-by spec.md §4.2 item
	// (i) calls for (a repeated term's HIGH/LOW max_score scales with how
	// many times it was actually asked for).
	freqs := query.QueryFreqs(q.Terms)

	for _, p := range q.Pairs {
		highIdx, lowIdx := p.IdxA, p.IdxB
		if !p.IsDuplicate && !q.IsHigh[highIdx] {
			highIdx, lowIdx = lowIdx, highIdx
		}

		highList := col.Lists[q.Terms[highIdx]]
		in := scoring.PairInput{
			High:       postings.NewSliceCursor(highList.Docs, highList.Freqs),
			HighStats:  stats(highList),
			HighWeight: float64(freqs[q.Terms[highIdx]]),
			PairID:     p.PairID,
		}
		var lowList index.List
		if !p.IsDuplicate {
			lowList = col.Lists[q.Terms[lowIdx]]
			in.Low = postings.NewSliceCursor(lowList.Docs, lowList.Freqs)
			in.LowStats = stats(lowList)
			in.LowWeight = float64(freqs[q.Terms[lowIdx]])
		}

		high, low := scoring.BuildMaxScoredPair(in, bm25, corpus)
		es.flat = append(es.flat, high)
		if !p.IsDuplicate {
			es.flat = append(es.flat, low)
			es.high = append(es.high, high)
			es.low = append(es.low, low)
		} else if q.IsHigh[p.IdxA] {
			// A duplicate singleton still carries the surviving token's own
			// _HIGH/_LOW tag; only a true HIGH-tagged duplicate belongs in
			// HighThenLow's exhaustive phase-one scan.
			es.high = append(es.high, high)
		} else {
			es.low = append(es.low, high)
		}
		es.pairs = append(es.pairs, cursor.NewPairedCursor(high, low))

		// Independent block-wrapped cursors over freshly built posting
		// cursors, so block-max state doesn't alias the flat/paired set above.
		highBlockIn := scoring.PairInput{
			High:       postings.NewSliceCursor(highList.Docs, highList.Freqs),
			HighStats:  in.HighStats,
			HighWeight: in.HighWeight,
			PairID:     p.PairID,
		}
		if !p.IsDuplicate {
			highBlockIn.Low = postings.NewSliceCursor(lowList.Docs, lowList.Freqs)
			highBlockIn.LowStats = in.LowStats
			highBlockIn.LowWeight = in.LowWeight
		}
		bHigh, bLow := scoring.BuildMaxScoredPair(highBlockIn, bm25, corpus)
		bmHigh := cursor.NewBlockMaxScoredCursor(bHigh, postings.NewFixedBlockEnum(highList.Docs, highList.Freqs, blockSize, scorerFor(bm25, in.HighStats, corpus)))
		var bmLow *cursor.BlockMaxScoredCursor
		if !p.IsDuplicate {
			bmLow = cursor.NewBlockMaxScoredCursor(bLow, postings.NewFixedBlockEnum(lowList.Docs, lowList.Freqs, blockSize, scorerFor(bm25, in.LowStats, corpus)))
		} else {
			bmLow = bmHigh
		}
		es.blockFlat = append(es.blockFlat, bmHigh)
		if !p.IsDuplicate {
			es.blockFlat = append(es.blockFlat, bmLow)
		}
		es.blockPairs = append(es.blockPairs, cursor.NewPairedBlockCursor(bmHigh, bmLow))
	}

	return es
}

func stats(l index.List) scoring.TermStats {
	var maxTF uint32
	for _, f := range l.Freqs {
		if f > maxTF {
			maxTF = f
		}
	}
	return scoring.TermStats{DocFreq: len(l.Docs), MaxTF: int(maxTF)}
}

func scorerFor(bm25 scoring.BM25, st scoring.TermStats, corpus scoring.CorpusStats) func(docid, freq uint32) float32 {
	return bm25.TermScorer(st.DocFreq, corpus)
}

func runQuery(col *index.Collection, corpus scoring.CorpusStats, bm25 scoring.BM25, q *query.Query, k int, prime bool) {
	run := func(name string, f func(es evalSet, queue *topkqueue.Queue)) []topkqueue.Result {
		es := build(col, corpus, bm25, q)
		queue := topkqueue.New(k)
		if prime {
			pruning.Prime(es.flat, k, queue)
		}
		f(es, queue)
		results := queue.Topk()
		fmt.Printf("  %-22s %v\n", name, results)
		return results
	}

	fmt.Printf("query %q (%d terms, %d pairs):\n", q.ID, len(q.Terms), len(q.Pairs))

	run("naive", func(es evalSet, queue *topkqueue.Queue) { naive.EvaluateMaxScored(es.flat, queue) })
	run("WAND", func(es evalSet, queue *topkqueue.Queue) { pruning.WAND(es.flat, queue) })
	run("WANDPairAware", func(es evalSet, queue *topkqueue.Queue) { pruning.WANDPairAware(es.flat, es.numPairs, queue) })
	run("WANDPaired", func(es evalSet, queue *topkqueue.Queue) { pruning.WANDPaired(es.pairs, queue) })
	run("BlockMaxWAND", func(es evalSet, queue *topkqueue.Queue) { pruning.BlockMaxWAND(es.blockFlat, queue) })
	run("BlockMaxWANDPairAware", func(es evalSet, queue *topkqueue.Queue) {
		pruning.BlockMaxWANDPairAware(es.blockFlat, es.numPairs, queue)
	})
	run("BlockMaxWANDPaired", func(es evalSet, queue *topkqueue.Queue) { pruning.BlockMaxWANDPaired(es.blockPairs, queue) })
	run("MaxScore", func(es evalSet, queue *topkqueue.Queue) { pruning.MaxScore(es.flat, queue) })
	run("MaxScorePairAware", func(es evalSet, queue *topkqueue.Queue) { pruning.MaxScorePairAware(es.flat, es.numPairs, queue) })
	run("HighThenLow", func(es evalSet, queue *topkqueue.Queue) { pruning.HighThenLow(es.high, es.low, queue) })
}
