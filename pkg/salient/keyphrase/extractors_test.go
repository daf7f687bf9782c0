package keyphrase

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/cognicore/salient/pkg/salient/embed"
)

func TestStatisticalEmptyDocument(t *testing.T) {
	ex := NewStatistical(Config{MinN: 1, MaxN: 3, TopN: 5})

	got, err := ex.Extract(context.Background(), "")
	if err != nil {
		t.Fatalf("empty document should not error, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestStatisticalRanksFrequentEarlyTerms(t *testing.T) {
	ex := NewStatistical(Config{MinN: 1, MaxN: 1, TopN: 2})

	got, err := ex.Extract(context.Background(), "invoice invoice invoice shipment delay")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 phrases, got %v", got)
	}
	if got[0] != "invoice" {
		t.Errorf("top phrase = %q, want 'invoice'", got[0])
	}
}

func TestStatisticalRespectsTopN(t *testing.T) {
	ex := NewStatistical(Config{MinN: 1, MaxN: 2, TopN: 3})

	got, err := ex.Extract(context.Background(), "one two three four five")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 phrases, got %d: %v", len(got), got)
	}
}

func TestStatisticalDeterministic(t *testing.T) {
	ex := NewStatistical(Config{MinN: 1, MaxN: 2, TopN: 10})
	text := "customer reported broken tracking number on the portal"

	first, _ := ex.Extract(context.Background(), text)
	second, _ := ex.Extract(context.Background(), text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction not deterministic: %v vs %v", first, second)
	}
}

func TestCooccurrenceSplitsAtStopwords(t *testing.T) {
	ex := NewCooccurrence(Config{MinN: 1, MaxN: 3, TopN: 10})

	got, err := ex.Extract(context.Background(), "the shipping label was printed with a wrong address")
	if err != nil {
		t.Fatal(err)
	}

	found := make(map[string]bool)
	for _, p := range got {
		found[p] = true
	}
	if !found["shipping label"] {
		t.Errorf("expected phrase 'shipping label' in %v", got)
	}
	if !found["wrong address"] {
		t.Errorf("expected phrase 'wrong address' in %v", got)
	}
	for p := range found {
		if p == "the" || p == "was" || p == "with" {
			t.Errorf("stopword leaked into phrases: %v", got)
		}
	}
}

func TestCooccurrenceEntirelyStopwordDocument(t *testing.T) {
	ex := NewCooccurrence(Config{MinN: 1, MaxN: 3, TopN: 10})

	got, err := ex.Extract(context.Background(), "the and of to was")
	if err != nil {
		t.Fatalf("degenerate document should not error, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestCooccurrenceCapsPhraseLength(t *testing.T) {
	ex := NewCooccurrence(Config{MinN: 1, MaxN: 2, TopN: 10})

	got, err := ex.Extract(context.Background(), "customer portal login error message")
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range got {
		if n := len([]rune(p)); n == 0 {
			t.Errorf("empty phrase in %v", got)
		}
		if words := len(strings.Fields(p)); words > 2 {
			t.Errorf("phrase %q exceeds max length 2", p)
		}
	}
}

func TestEmbeddingExtractorRanksBySimilarity(t *testing.T) {
	corpus := []string{
		"broken tracking number",
		"tracking number missing",
		"refund issued",
	}
	v := embed.NewVectorizer(64)
	v.Fit(corpus)

	ex := NewEmbedding(Config{MinN: 1, MaxN: 2, TopN: 3}, v)
	got, err := ex.Extract(context.Background(), "broken tracking number")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 {
		t.Fatal("expected candidates")
	}
	if len(got) > 3 {
		t.Errorf("TopN not respected: %v", got)
	}
}

func TestEmbeddingExtractorEmptyDocument(t *testing.T) {
	v := embed.NewVectorizer(16)
	v.Fit([]string{"some text"})

	ex := NewEmbedding(Config{MinN: 1, MaxN: 2, TopN: 5}, v)
	got, err := ex.Extract(context.Background(), "")
	if err != nil {
		t.Fatalf("empty document should not error, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}
