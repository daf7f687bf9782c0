// Package fuse classifies each phrase by which analytical signals support
// it and ranks the fused result.
package fuse

import (
	"sort"
	"strings"
)

// Category encodes which signal combination supports a phrase. The
// constants are ordered by priority: a lower value always outranks a
// higher one.
type Category int

const (
	CategoryFreqKeyCluster Category = iota
	CategoryFreqKey
	CategoryFreqCluster
	CategoryKeyCluster
	CategoryFreq
	CategoryKey
	CategoryCluster
	CategoryNone
)

var categoryNames = map[Category]string{
	CategoryFreqKeyCluster: "Frequency + Keyphrase + Cluster",
	CategoryFreqKey:        "Frequency + Keyphrase",
	CategoryFreqCluster:    "Frequency + Cluster",
	CategoryKeyCluster:     "Keyphrase + Cluster",
	CategoryFreq:           "Frequency only",
	CategoryKey:            "Keyphrase only",
	CategoryCluster:        "Cluster only",
	CategoryNone:           "No match",
}

// String returns the display label for the category.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// Signals holds the three membership sets a phrase is tested against.
// An empty set simply means that signal supports nothing; it is never an
// error here.
type Signals struct {
	// FrequencyTop is the top-N deduplicated frequency phrase set.
	FrequencyTop map[string]struct{}
	// Keyphrases is the deduplicated keyphrase set.
	Keyphrases map[string]struct{}
	// ClusterTexts are the normalized documents covered by the
	// clustering; a phrase is cluster-associated when it is a substring
	// of any of them. Every document belongs to some cluster, so this is
	// containment, not per-cluster attribution; the behavior is kept as
	// observed in the system this engine replaces.
	ClusterTexts []string
}

// Categorize computes the category for one phrase. The result is a pure
// function of the three membership tests, evaluated in priority order.
func Categorize(phrase string, s Signals) Category {
	_, inFreq := s.FrequencyTop[phrase]
	_, inKey := s.Keyphrases[phrase]
	inCluster := clusterAssociated(phrase, s.ClusterTexts)

	switch {
	case inFreq && inKey && inCluster:
		return CategoryFreqKeyCluster
	case inFreq && inKey:
		return CategoryFreqKey
	case inFreq && inCluster:
		return CategoryFreqCluster
	case inKey && inCluster:
		return CategoryKeyCluster
	case inFreq:
		return CategoryFreq
	case inKey:
		return CategoryKey
	case inCluster:
		return CategoryCluster
	default:
		return CategoryNone
	}
}

func clusterAssociated(phrase string, texts []string) bool {
	if phrase == "" {
		return false
	}
	for _, t := range texts {
		if strings.Contains(t, phrase) {
			return true
		}
	}
	return false
}

// Record is one fused, categorized phrase.
type Record struct {
	Phrase    string
	Frequency int64
	Category  Category
	Rank      int
}

// Fuse categorizes every phrase and returns ranked records. Phrases keep
// their input order when category and frequency tie (the sort is stable),
// so ranking an already-ranked list reproduces it exactly.
func Fuse(phrases []string, frequencies map[string]int64, s Signals) []Record {
	records := make([]Record, 0, len(phrases))
	for _, p := range phrases {
		records = append(records, Record{
			Phrase:    p,
			Frequency: frequencies[p],
			Category:  Categorize(p, s),
		})
	}
	Rank(records)
	return records
}

// Rank orders records by category priority, then frequency descending,
// and assigns 1-based ranks. The sort is stable.
func Rank(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Category != records[j].Category {
			return records[i].Category < records[j].Category
		}
		return records[i].Frequency > records[j].Frequency
	})
	for i := range records {
		records[i].Rank = i + 1
	}
}
