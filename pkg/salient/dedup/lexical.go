package dedup

import (
	"context"
	"fmt"

	"github.com/cognicore/salient/pkg/salient/internalerr"
)

// DefaultLexicalThreshold is the default edit-distance ratio cutoff.
const DefaultLexicalThreshold = 80

// LexicalStrategy merges candidates whose normalized edit-distance ratio
// (0-100 scale) against an already-emitted representative exceeds the
// threshold. Unlike the embedding strategy it never compares candidates
// pairwise: each candidate is checked against prior representatives only,
// merging into the first match, so the cost is O(n * representatives).
type LexicalStrategy struct {
	threshold int
}

// NewLexicalStrategy validates the threshold and returns a strategy.
// The threshold must be in (0, 100]; DefaultLexicalThreshold is the usual
// choice.
func NewLexicalStrategy(threshold int) (*LexicalStrategy, error) {
	if threshold <= 0 || threshold > 100 {
		return nil, fmt.Errorf("%w: ratio threshold %d, want (0, 100]", internalerr.ErrInvalidConfig, threshold)
	}
	return &LexicalStrategy{threshold: threshold}, nil
}

// Deduplicate implements Strategy.
func (s *LexicalStrategy) Deduplicate(ctx context.Context, candidates []Candidate) ([]Canonical, error) {
	var out []Canonical
	for _, c := range candidates {
		merged := false
		for i := range out {
			if Ratio(c.Text, out[i].Text) > s.threshold {
				out[i].Weight += c.Weight
				out[i].Members = append(out[i].Members, c.Text)
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, Canonical{
				Text:    c.Text,
				Weight:  c.Weight,
				Members: []string{c.Text},
			})
		}
	}
	return out, nil
}

// Ratio returns the normalized edit-distance similarity of two strings on
// a 0-100 scale: 100 for identical strings, 0 for no overlap.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	ra := []rune(a)
	rb := []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 100
	}
	dist := levenshtein(ra, rb)
	return int(100 * (1 - float64(dist)/float64(longest)))
}

// levenshtein computes edit distance with a two-row DP table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
