// Package dedup collapses near-duplicate phrase candidates into canonical
// representatives with aggregated weight.
//
// Both strategies are greedy and order-dependent: the representative for a
// group is the first not-yet-grouped candidate in input order, so callers
// sort candidates by descending weight first. Total weight is conserved:
// the sum of canonical weights always equals the sum of input weights.
package dedup

import (
	"context"
	"sort"
)

// Candidate is one phrase with the weight its signal assigned to it.
type Candidate struct {
	Text   string
	Weight float64
}

// Canonical is a representative phrase after merging, with the weights of
// all merged members aggregated. Members includes the representative.
type Canonical struct {
	Text    string
	Weight  float64
	Members []string
}

// Strategy deduplicates an ordered candidate sequence.
type Strategy interface {
	Deduplicate(ctx context.Context, candidates []Candidate) ([]Canonical, error)
}

// SortByWeight orders candidates by descending weight, keeping the
// original relative order for equal weights.
func SortByWeight(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Weight > candidates[j].Weight
	})
}

// Texts lists canonical representative texts in order.
func Texts(canonicals []Canonical) []string {
	out := make([]string, len(canonicals))
	for i, c := range canonicals {
		out[i] = c.Text
	}
	return out
}
