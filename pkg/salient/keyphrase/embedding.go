package keyphrase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/salient/pkg/salient/embed"
)

// Embedding ranks candidate n-grams by cosine similarity between the
// candidate embedding and the whole-document embedding.
type Embedding struct {
	cfg      Config
	embedder embed.Embedder
}

// NewEmbedding creates an embedding-similarity extractor.
func NewEmbedding(cfg Config, embedder embed.Embedder) *Embedding {
	return &Embedding{cfg: cfg, embedder: embedder}
}

// Extract implements Extractor. Embedder failures propagate so the
// pipeline can skip the document.
func (e *Embedding) Extract(ctx context.Context, text string) ([]string, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, nil
	}

	docVec, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed document: %w", err)
	}

	seen := make(map[string]struct{})
	type scored struct {
		phrase string
		sim    float64
	}
	var candidates []scored
	for _, phrase := range ngrams(tokens, e.cfg.MinN, e.cfg.MaxN) {
		if _, dup := seen[phrase]; dup {
			continue
		}
		seen[phrase] = struct{}{}

		vec, err := e.embedder.Embed(ctx, phrase)
		if err != nil {
			return nil, fmt.Errorf("embed candidate %q: %w", phrase, err)
		}
		candidates = append(candidates, scored{phrase: phrase, sim: embed.Cosine(vec, docVec)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].sim > candidates[j].sim
	})
	if len(candidates) > e.cfg.TopN {
		candidates = candidates[:e.cfg.TopN]
	}

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.phrase
	}
	return out, nil
}
