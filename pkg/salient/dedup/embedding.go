package dedup

import (
	"context"
	"fmt"

	"github.com/cognicore/salient/pkg/salient/embed"
	"github.com/cognicore/salient/pkg/salient/internalerr"
)

// EmbeddingStrategy merges candidates whose embedding cosine similarity to
// a representative exceeds the threshold. It builds the full pairwise
// similarity matrix, then makes a single greedy pass in input order: each
// not-yet-grouped candidate becomes a representative and absorbs every
// later candidate more similar than the threshold. Members of a group may
// be pairwise dissimilar to each other (single-link approximation).
//
// O(n^2) in candidate count; candidate sets are bounded to a few hundred
// by the per-signal top-N caps.
type EmbeddingStrategy struct {
	embedder  embed.Embedder
	threshold float64
}

// NewEmbeddingStrategy validates the threshold and returns a strategy.
// The threshold must be in (0, 1].
func NewEmbeddingStrategy(embedder embed.Embedder, threshold float64) (*EmbeddingStrategy, error) {
	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: similarity threshold %v, want (0, 1]", internalerr.ErrInvalidConfig, threshold)
	}
	return &EmbeddingStrategy{embedder: embedder, threshold: threshold}, nil
}

// Deduplicate implements Strategy.
func (s *EmbeddingStrategy) Deduplicate(ctx context.Context, candidates []Candidate) ([]Canonical, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	vectors := make([][]float64, len(candidates))
	for i, c := range candidates {
		vec, err := s.embedder.Embed(ctx, c.Text)
		if err != nil {
			return nil, fmt.Errorf("embed candidate %q: %w", c.Text, err)
		}
		vectors[i] = vec
	}

	sim := make([][]float64, len(candidates))
	for i := range sim {
		sim[i] = make([]float64, len(candidates))
		sim[i][i] = 1
	}
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			v := embed.Cosine(vectors[i], vectors[j])
			if v > 1 {
				v = 1
			}
			sim[i][j] = v
			sim[j][i] = v
		}
	}

	grouped := make([]bool, len(candidates))
	var out []Canonical
	for i, c := range candidates {
		if grouped[i] {
			continue
		}
		grouped[i] = true
		canonical := Canonical{
			Text:    c.Text,
			Weight:  c.Weight,
			Members: []string{c.Text},
		}
		for j := i + 1; j < len(candidates); j++ {
			if grouped[j] || sim[i][j] <= s.threshold {
				continue
			}
			grouped[j] = true
			canonical.Weight += candidates[j].Weight
			canonical.Members = append(canonical.Members, candidates[j].Text)
		}
		out = append(out, canonical)
	}

	return out, nil
}
