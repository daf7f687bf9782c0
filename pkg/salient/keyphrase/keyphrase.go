// Package keyphrase extracts candidate phrases from single documents.
//
// Three interchangeable extractors are provided:
//
//   - Statistical: term-statistics scoring (frequency and first position).
//   - Cooccurrence: stopword-delimited phrase graph with degree/frequency
//     word scores.
//   - Embedding: candidate n-grams ranked by cosine similarity to the
//     document embedding.
//
// The extractor is selected once at configuration time; the pipeline never
// branches on a method name per document.
package keyphrase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/salient/pkg/salient/embed"
	"github.com/cognicore/salient/pkg/salient/internalerr"
)

// Extractor maps one normalized document to an ordered sequence of
// candidate phrases, best first. A degenerate document yields an empty
// sequence, not an error. Errors are reserved for external collaborator
// failures (for example a remote embedder).
type Extractor interface {
	Extract(ctx context.Context, text string) ([]string, error)
}

// Config bounds candidate phrases for all extractor variants.
type Config struct {
	MinN int // minimum phrase length in tokens
	MaxN int // maximum phrase length in tokens
	TopN int // per-document candidate cap
}

// Validate checks the phrase bounds.
func (c Config) Validate() error {
	if c.MinN < 1 || c.MaxN < c.MinN {
		return fmt.Errorf("%w: keyphrase n-gram bounds [%d, %d]", internalerr.ErrInvalidRange, c.MinN, c.MaxN)
	}
	if c.TopN < 1 {
		return fmt.Errorf("%w: keyphrase top-n %d", internalerr.ErrInvalidConfig, c.TopN)
	}
	return nil
}

// Method identifies an extractor variant.
type Method string

const (
	MethodStatistical  Method = "statistical"
	MethodCooccurrence Method = "cooccurrence"
	MethodEmbedding    Method = "embedding"
)

// ParseMethod maps a configuration string to a Method.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodStatistical, MethodCooccurrence, MethodEmbedding:
		return Method(s), nil
	default:
		return "", fmt.Errorf("%w: unknown keyphrase method %q", internalerr.ErrInvalidConfig, s)
	}
}

// NewExtractor constructs the extractor for a method. The embedder is only
// required for MethodEmbedding.
func NewExtractor(method Method, cfg Config, embedder embed.Embedder) (Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch method {
	case MethodStatistical:
		return NewStatistical(cfg), nil
	case MethodCooccurrence:
		return NewCooccurrence(cfg), nil
	case MethodEmbedding:
		if embedder == nil {
			return nil, fmt.Errorf("%w: embedding method requires an embedder", internalerr.ErrInvalidConfig)
		}
		return NewEmbedding(cfg, embedder), nil
	default:
		return nil, fmt.Errorf("%w: unknown keyphrase method %q", internalerr.ErrInvalidConfig, method)
	}
}

// Candidate is a phrase with its cross-document occurrence count.
type Candidate struct {
	Phrase string
	Count  int64
}

// Aggregate runs the extractor over every document and folds the
// per-document outputs into candidates with cross-document counts, sorted
// by count descending with first-seen order on ties. Documents whose
// extraction fails are skipped and counted, never fatal.
func Aggregate(ctx context.Context, ex Extractor, texts []string) (candidates []Candidate, skipped int) {
	counts := make(map[string]int64)
	var order []string

	for _, text := range texts {
		phrases, err := ex.Extract(ctx, text)
		if err != nil {
			skipped++
			continue
		}
		for _, p := range phrases {
			if p == "" {
				continue
			}
			if _, seen := counts[p]; !seen {
				order = append(order, p)
			}
			counts[p]++
		}
	}

	candidates = make([]Candidate, 0, len(order))
	for _, p := range order {
		candidates = append(candidates, Candidate{Phrase: p, Count: counts[p]})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Count > candidates[j].Count
	})

	return candidates, skipped
}

// ngrams enumerates token windows of length [minN, maxN] in order.
func ngrams(tokens []string, minN, maxN int) []string {
	var out []string
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
