// Package queryio implements the query wire format loader (spec.md §6):
// one query per line, "<optional_id>:<space-separated tokens>", each token
// suffixed with "_HIGH" or "_LOW". Grounded on the teacher's
// pkg/qgram/query.go (ParseQuery's tokenizer) generalized from free-text
// clauses to the HIGH/LOW-tagged term convention.
package queryio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/kittclouds/topk/pkg/query"
)

// ErrMalformedToken is returned when a query token doesn't end in
// "_HIGH"/"_LOW" (spec.md §7, error kind 1: fatal, abort query).
var ErrMalformedToken = errors.New("queryio: token missing _HIGH/_LOW suffix")

// Dictionary maps lexicon terms to TermIDs, as produced by the index loader.
type Dictionary interface {
	Lookup(term string) (query.TermID, bool)
}

// MapDictionary is the simplest Dictionary: an in-memory exact-match table.
type MapDictionary map[string]query.TermID

func (d MapDictionary) Lookup(term string) (query.TermID, bool) {
	id, ok := d[term]
	return id, ok
}

// defaultStopwords is a small built-in English stopword list. See
// DESIGN.md for why this isn't backed by a third-party stopword package.
var defaultStopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "he": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"or": true, "that": true, "the": true, "to": true, "was": true, "were": true,
	"will": true, "with": true,
}

// Parser reads the wire format, resolving tokens against a Dictionary and
// dropping stopwords with a warning (spec.md §7, error kind 2).
type Parser struct {
	Dict      Dictionary
	Stopwords map[string]bool
}

// NewParser returns a Parser using the built-in stopword list.
func NewParser(dict Dictionary) *Parser {
	return &Parser{Dict: dict, Stopwords: defaultStopwords}
}

// rawToken is one "<prefix>_HIGH"/"<prefix>_LOW" token, already split.
type rawToken struct {
	prefix string
	isHigh bool
}

func splitToken(tok string) (rawToken, error) {
	switch {
	case strings.HasSuffix(tok, "_HIGH"):
		return rawToken{prefix: strings.TrimSuffix(tok, "_HIGH"), isHigh: true}, nil
	case strings.HasSuffix(tok, "_LOW"):
		return rawToken{prefix: strings.TrimSuffix(tok, "_LOW"), isHigh: false}, nil
	default:
		return rawToken{}, fmt.Errorf("%w: %q", ErrMalformedToken, tok)
	}
}

// ParseLine parses one wire-format query line into a Query. An empty line
// (or a line whose every token is a stopword) yields an empty, non-nil
// Query (spec.md §7, error kind 4: no-op).
func (p *Parser) ParseLine(line string) (*query.Query, error) {
	id := ""
	body := line
	if idx := strings.IndexByte(line, ':'); idx >= 0 {
		id = strings.TrimSpace(line[:idx])
		body = line[idx+1:]
	}

	fields := strings.Fields(body)
	q := &query.Query{ID: id}

	// prefix -> []position in q.Terms holding that logical term's sides.
	groups := make(map[string][]int)
	var order []string // first-seen order, so PairID assignment is deterministic

	for _, tok := range fields {
		rt, err := splitToken(tok)
		if err != nil {
			return nil, err
		}
		if p.Stopwords[rt.prefix] {
			log.Printf("queryio: dropping stopword %q", rt.prefix)
			continue
		}
		termID, ok := p.Dict.Lookup(tok)
		if !ok {
			log.Printf("queryio: unknown term %q, dropping", tok)
			continue
		}

		q.Terms = append(q.Terms, termID)
		q.IsHigh = append(q.IsHigh, rt.isHigh)
		if _, seen := groups[rt.prefix]; !seen {
			order = append(order, rt.prefix)
		}
		groups[rt.prefix] = append(groups[rt.prefix], len(q.Terms)-1)
	}

	var nextPairID uint32
	for _, prefix := range order {
		positions := groups[prefix]
		switch len(positions) {
		case 1:
			q.Pairs = append(q.Pairs, query.PairedTerm{
				IdxA: positions[0], IdxB: positions[0],
				PairID: nextPairID, IsDuplicate: true,
			})
		case 2:
			if q.Terms[positions[0]] == q.Terms[positions[1]] {
				// Same physical term at both positions (a repeated _HIGH
				// token, or _HIGH/_LOW forms aliasing one dictionary entry):
				// not a genuine pair over two lists, just one list seen
				// twice. queries.cpp's term_counts.size()==1 routes this to
				// the duplicate path rather than fabricating a HIGH/LOW pair
				// over a single physical list.
				for _, pos := range positions {
					q.Pairs = append(q.Pairs, query.PairedTerm{
						IdxA: pos, IdxB: pos, PairID: nextPairID, IsDuplicate: true,
					})
					nextPairID++
				}
				continue
			}
			q.Pairs = append(q.Pairs, query.PairedTerm{
				IdxA: positions[0], IdxB: positions[1],
				PairID: nextPairID,
			})
		default:
			// More than two sides for one prefix shouldn't happen under the
			// HIGH/LOW convention; treat extras as independent duplicates
			// rather than failing the whole query.
			for _, pos := range positions {
				q.Pairs = append(q.Pairs, query.PairedTerm{
					IdxA: pos, IdxB: pos, PairID: nextPairID, IsDuplicate: true,
				})
				nextPairID++
			}
			continue
		}
		nextPairID++
	}

	return q, nil
}

// ParseAll reads every line from r as a wire-format query. Malformed lines
// are reported via onError (if non-nil) and skipped rather than aborting the
// whole batch (spec.md §7's "recoverable error at the batch level").
func (p *Parser) ParseAll(r io.Reader, onError func(line string, err error)) ([]*query.Query, error) {
	scanner := bufio.NewScanner(r)
	var queries []*query.Query
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		q, err := p.ParseLine(line)
		if err != nil {
			if onError != nil {
				onError(line, err)
				continue
			}
			return nil, err
		}
		queries = append(queries, q)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("queryio: scan: %w", err)
	}
	return queries, nil
}
