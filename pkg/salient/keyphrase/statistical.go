package keyphrase

import (
	"context"
	"math"
	"sort"
	"strings"
)

// Statistical scores candidate n-grams from single-document term
// statistics: frequent terms that appear early in the document score
// higher. No corpus fit is required.
type Statistical struct {
	cfg Config
}

// NewStatistical creates a statistical extractor.
func NewStatistical(cfg Config) *Statistical {
	return &Statistical{cfg: cfg}
}

// Extract implements Extractor.
func (s *Statistical) Extract(ctx context.Context, text string) ([]string, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, nil
	}

	// Per-term statistics over this document only.
	termFreq := make(map[string]int)
	firstPos := make(map[string]int)
	for i, tok := range tokens {
		if _, ok := firstPos[tok]; !ok {
			firstPos[tok] = i
		}
		termFreq[tok]++
	}

	maxFreq := 0
	for _, f := range termFreq {
		if f > maxFreq {
			maxFreq = f
		}
	}

	// Term score in (0, 1]: frequency normalized by the document maximum,
	// damped by how late the term first appears.
	termScore := func(tok string) float64 {
		tf := float64(termFreq[tok]) / float64(maxFreq)
		pos := 1.0 / (1.0 + math.Log1p(float64(firstPos[tok])))
		return tf * pos
	}

	type scored struct {
		phrase string
		score  float64
	}

	seen := make(map[string]struct{})
	var candidates []scored
	for _, phrase := range ngrams(tokens, s.cfg.MinN, s.cfg.MaxN) {
		if _, dup := seen[phrase]; dup {
			continue
		}
		seen[phrase] = struct{}{}

		words := strings.Fields(phrase)
		var sum float64
		for _, w := range words {
			sum += termScore(w)
		}
		// Mild length normalization so longer phrases are not favored
		// just for containing more terms.
		score := sum / (1.0 + math.Log1p(float64(len(words)-1)))
		candidates = append(candidates, scored{phrase: phrase, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > s.cfg.TopN {
		candidates = candidates[:s.cfg.TopN]
	}

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.phrase
	}
	return out, nil
}
