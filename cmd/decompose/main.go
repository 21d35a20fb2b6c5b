// Command decompose splits a canonical whole-impact index into the
// HIGH/LOW two-list-per-term layout the query core expects (spec.md §6),
// mirroring original_source's tools/split_index.cpp: one integer split
// threshold per input term, read from a plain text file, one per line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/kittclouds/topk/pkg/index"
)

func main() {
	inBase := flag.String("in", "", "input canonical index basename (reads <in>.docs/.freqs/.terms)")
	outBase := flag.String("out", "", "output basename for the decomposed index")
	splitsPath := flag.String("splits", "", "path to a text file with one split threshold per input term")
	flag.Parse()

	if *inBase == "" || *outBase == "" || *splitsPath == "" {
		fmt.Fprintln(os.Stderr, "usage: decompose -in <basename> -out <basename> -splits <path>")
		os.Exit(2)
	}

	col, err := index.ReadCanonical(*inBase)
	if err != nil {
		log.Fatalf("decompose: %v", err)
	}

	splits, err := readSplits(*splitsPath)
	if err != nil {
		log.Fatalf("decompose: %v", err)
	}
	if len(splits) != len(col.Lists) {
		log.Printf("decompose: warning: read %d splits but found %d terms", len(splits), len(col.Lists))
	}

	decomposed, err := index.Decompose(col, splits)
	if err != nil {
		log.Fatalf("decompose: %v", err)
	}

	if err := index.WriteCanonical(*outBase, col.NumDocs, decomposed); err != nil {
		log.Fatalf("decompose: %v", err)
	}

	fmt.Printf("decompose: wrote %d lists from %d input terms to %s.{docs,freqs,terms}\n",
		len(decomposed), len(col.Lists), *outBase)
}

func readSplits(path string) ([]uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read splits: %w", err)
	}
	defer f.Close()

	var splits []uint32
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		v, err := strconv.ParseUint(line, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("read splits: %w", err)
		}
		splits = append(splits, uint32(v))
	}
	return splits, scanner.Err()
}
