// Package embed defines the embedding collaborator used by the clustering,
// keyphrase, and deduplication signals, plus two implementations: a
// deterministic corpus-fit TF-IDF vectorizer and a client for
// OpenAI-compatible embedding endpoints.
package embed

import (
	"context"
	"math"
)

// Embedder maps normalized text to a fixed-length numeric vector.
// Implementations must be deterministic for identical input.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Cosine returns the cosine similarity of two vectors. Mismatched lengths
// compare over the shorter prefix; a zero vector yields 0.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	for _, v := range a {
		normA += v * v
	}
	for _, v := range b {
		normB += v * v
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
