package keyphrase

import (
	"context"
	"sort"
	"strings"
)

// Cooccurrence extracts phrases delimited by stopwords and ranks them with
// degree/frequency word scores. It keeps its own delimiter stopword set so
// it behaves sensibly on both raw and pre-filtered text; runs longer than
// MaxN tokens are split into MaxN-sized chunks.
type Cooccurrence struct {
	cfg       Config
	stopwords map[string]struct{}
}

// NewCooccurrence creates a co-occurrence extractor with the default
// English delimiter set.
func NewCooccurrence(cfg Config) *Cooccurrence {
	return &Cooccurrence{cfg: cfg, stopwords: defaultDelimiters()}
}

// SetDelimiters replaces the delimiter stopword set.
func (c *Cooccurrence) SetDelimiters(words []string) {
	stops := make(map[string]struct{}, len(words))
	for _, w := range words {
		stops[strings.ToLower(w)] = struct{}{}
	}
	c.stopwords = stops
}

// Extract implements Extractor.
func (c *Cooccurrence) Extract(ctx context.Context, text string) ([]string, error) {
	phrases := c.candidatePhrases(text)
	if len(phrases) == 0 {
		return nil, nil
	}

	wordScores := c.wordScores(phrases)

	type scored struct {
		phrase string
		score  float64
	}
	seen := make(map[string]struct{})
	var ranked []scored
	for _, phrase := range phrases {
		if _, dup := seen[phrase]; dup {
			continue
		}
		seen[phrase] = struct{}{}

		var score float64
		for _, w := range strings.Fields(phrase) {
			score += wordScores[w]
		}
		ranked = append(ranked, scored{phrase: phrase, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > c.cfg.TopN {
		ranked = ranked[:c.cfg.TopN]
	}

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.phrase
	}
	return out, nil
}

// candidatePhrases splits the token stream at stopwords and short tokens,
// emitting contiguous content-word runs capped at MaxN tokens.
func (c *Cooccurrence) candidatePhrases(text string) []string {
	var phrases []string
	var current []string

	emit := func() {
		for len(current) >= c.cfg.MinN {
			n := len(current)
			if n > c.cfg.MaxN {
				n = c.cfg.MaxN
			}
			phrases = append(phrases, strings.Join(current[:n], " "))
			current = current[n:]
		}
		current = nil
	}

	for _, word := range strings.Fields(strings.ToLower(text)) {
		if _, stop := c.stopwords[word]; stop || len(word) < 2 {
			emit()
			continue
		}
		current = append(current, word)
	}
	emit()

	return phrases
}

// wordScores computes degree/frequency scores over the candidate phrases.
func (c *Cooccurrence) wordScores(phrases []string) map[string]float64 {
	wordFreq := make(map[string]int)
	wordDegree := make(map[string]int)

	for _, phrase := range phrases {
		words := strings.Fields(phrase)
		for _, w := range words {
			wordFreq[w]++
			wordDegree[w] += len(words) - 1
		}
	}

	scores := make(map[string]float64, len(wordFreq))
	for w, f := range wordFreq {
		scores[w] = float64(wordDegree[w]+f) / float64(f)
	}
	return scores
}

func defaultDelimiters() map[string]struct{} {
	words := []string{
		"a", "an", "and", "are", "as", "at", "be", "been", "but", "by",
		"can", "could", "did", "do", "does", "for", "from", "had", "has",
		"have", "he", "her", "his", "how", "if", "in", "is", "it", "its",
		"may", "might", "must", "no", "nor", "not", "of", "on", "or",
		"shall", "she", "should", "since", "so", "than", "that", "the",
		"their", "them", "then", "there", "these", "they", "this", "those",
		"to", "until", "was", "were", "what", "when", "where", "which",
		"while", "who", "whom", "whose", "why", "will", "with", "would",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
