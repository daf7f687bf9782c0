// Package assemble produces the final ordered phrase table and the
// derived views consumed by presentation and export collaborators.
package assemble

import (
	"sort"

	"github.com/cognicore/salient/pkg/salient/fuse"
)

// DefaultTopK is the default output cutoff.
const DefaultTopK = 100

// Output is the assembled run result: the top-K ranked records and the
// phrase weight map restricted to the same top-K.
type Output struct {
	Records []fuse.Record
	Weights map[string]int64
}

// Assemble truncates ranked records to topK and builds the weight map for
// downstream visualization. A topK <= 0 falls back to DefaultTopK.
func Assemble(records []fuse.Record, topK int) Output {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if len(records) > topK {
		records = records[:topK]
	}

	weights := make(map[string]int64, len(records))
	for _, r := range records {
		weights[r.Phrase] = r.Frequency
	}

	return Output{Records: records, Weights: weights}
}

// Consensus returns the phrases present in every table, sorted. This is a
// set-level view across the independently deduplicated signal outputs,
// distinct from the per-phrase category label.
func Consensus(tables ...[]string) []string {
	if len(tables) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, table := range tables {
		seen := make(map[string]struct{}, len(table))
		for _, phrase := range table {
			if _, dup := seen[phrase]; dup {
				continue
			}
			seen[phrase] = struct{}{}
			counts[phrase]++
		}
	}

	var out []string
	for phrase, n := range counts {
		if n == len(tables) {
			out = append(out, phrase)
		}
	}
	sort.Strings(out)
	return out
}
