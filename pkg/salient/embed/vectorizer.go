package embed

import (
	"context"
	"math"
	"sort"
	"strings"
)

// DefaultDim is the default vector length for the TF-IDF vectorizer.
const DefaultDim = 256

// Vectorizer is a corpus-fit TF-IDF embedder. Vector positions come from
// the alphabetically sorted vocabulary, so identical corpora always
// produce identical vectors.
type Vectorizer struct {
	dim      int
	df       map[string]int64
	docCount int64
	features []string
}

// NewVectorizer creates an unfit vectorizer with the given dimensionality.
// A dim <= 0 falls back to DefaultDim.
func NewVectorizer(dim int) *Vectorizer {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &Vectorizer{
		dim: dim,
		df:  make(map[string]int64),
	}
}

// Fit consumes the corpus and freezes the vocabulary.
func (v *Vectorizer) Fit(corpus []string) {
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range strings.Fields(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			v.df[tok]++
		}
		v.docCount++
	}

	v.features = make([]string, 0, len(v.df))
	for tok := range v.df {
		v.features = append(v.features, tok)
	}
	sort.Strings(v.features)
	if len(v.features) > v.dim {
		v.features = v.features[:v.dim]
	}
}

// Features returns the frozen vocabulary in vector-position order.
func (v *Vectorizer) Features() []string {
	return v.features
}

// Embed returns an L2-normalized TF-IDF vector for the text.
func (v *Vectorizer) Embed(ctx context.Context, text string) ([]float64, error) {
	tf := make(map[string]int64)
	var total int64
	for _, tok := range strings.Fields(text) {
		tf[tok]++
		total++
	}

	vec := make([]float64, v.dim)
	if total == 0 || v.docCount == 0 {
		return vec, nil
	}

	for i, tok := range v.features {
		count := tf[tok]
		if count == 0 {
			continue
		}
		idf := math.Log(float64(v.docCount+1) / float64(v.df[tok]+1))
		vec[i] = (float64(count) / float64(total)) * (idf + 1)
	}

	var magnitude float64
	for _, val := range vec {
		magnitude += val * val
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude > 0 {
		for i := range vec {
			vec[i] /= magnitude
		}
	}

	return vec, nil
}
