// Package freq counts n-gram occurrences over a normalized corpus.
package freq

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/salient/pkg/salient/internalerr"
)

// MaxNGram is the largest supported n-gram length.
const MaxNGram = 6

// Entry is one phrase with its corpus-wide occurrence count.
type Entry struct {
	Phrase string
	Count  int64
}

// Analyzer counts n-grams in an inclusive [minN, maxN] range.
type Analyzer struct {
	minN int
	maxN int
}

// NewAnalyzer validates the n-gram range and returns an analyzer.
// The range is inclusive; 1 <= minN <= maxN <= MaxNGram.
func NewAnalyzer(minN, maxN int) (*Analyzer, error) {
	if minN < 1 || maxN > MaxNGram || minN > maxN {
		return nil, fmt.Errorf("%w: [%d, %d]", internalerr.ErrInvalidRange, minN, maxN)
	}
	return &Analyzer{minN: minN, maxN: maxN}, nil
}

// Analyze returns (phrase, count) pairs sorted by count descending.
// Ties keep first-appearance order across the corpus. An empty corpus
// yields an empty result.
func (a *Analyzer) Analyze(corpus []string) []Entry {
	counts := make(map[string]int64)
	var order []string

	for _, text := range corpus {
		tokens := strings.Fields(text)
		for n := a.minN; n <= a.maxN; n++ {
			for i := 0; i+n <= len(tokens); i++ {
				phrase := strings.Join(tokens[i:i+n], " ")
				if _, seen := counts[phrase]; !seen {
					order = append(order, phrase)
				}
				counts[phrase]++
			}
		}
	}

	entries := make([]Entry, 0, len(order))
	for _, phrase := range order {
		entries = append(entries, Entry{Phrase: phrase, Count: counts[phrase]})
	}

	// Stable: equal counts keep first-appearance order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	return entries
}

// TopN returns the first n entries of a sorted result.
func TopN(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}

// CountMap flattens entries into a phrase -> count lookup.
func CountMap(entries []Entry) map[string]int64 {
	m := make(map[string]int64, len(entries))
	for _, e := range entries {
		m[e.Phrase] = e.Count
	}
	return m
}
